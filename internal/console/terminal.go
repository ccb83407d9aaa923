package console

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// Terminal is a Console for interactive sessions with line editing.
type Terminal struct {
	mu    sync.Mutex
	state *liner.State
	out   io.Writer
}

func NewTerminal() *Terminal {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	return &Terminal{state: st, out: os.Stdout}
}

func (t *Terminal) Print(parts ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range parts {
		if _, err := io.WriteString(t.out, p); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terminal) ReadLine(prompt string, withPrompt bool) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !withPrompt {
		prompt = ""
	}
	line, err := t.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	t.state.AppendHistory(line)
	return DecodeLine([]byte(line)), nil
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	return t.state.Close()
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// Default picks a Terminal for interactive sessions and a Stream over
// stdin/stdout otherwise. The returned close function must be called before
// the process exits.
func Default() (Console, func() error) {
	if IsInteractive() {
		t := NewTerminal()
		return t, t.Close
	}
	return NewStream(os.Stdin, os.Stdout), func() error { return nil }
}
