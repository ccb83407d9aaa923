// Package console is the core's only I/O surface: write text, read one line.
//
// A Console is a single shared resource. Every operation holds the console
// for its whole duration, so concurrent prints never interleave their bytes
// and a prompt-then-read pair is atomic with respect to other users.
package console

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

type Console interface {
	// Print writes every part in order, without separators, then flushes.
	Print(parts ...string) error
	// ReadLine optionally writes prompt (and flushes), then reads up to and
	// excluding the next newline.
	ReadLine(prompt string, withPrompt bool) (string, error)
}

// Stream is a Console over plain reader/writer pairs.
type Stream struct {
	mu  sync.Mutex
	in  io.Reader
	out *bufio.Writer
}

func NewStream(in io.Reader, out io.Writer) *Stream {
	return &Stream{in: in, out: bufio.NewWriter(out)}
}

func (s *Stream) Print(parts ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parts {
		if _, err := s.out.WriteString(p); err != nil {
			return err
		}
	}
	return s.out.Flush()
}

// ReadLine consumes the input byte by byte so that nothing past the newline
// is taken from the underlying reader.
func (s *Stream) ReadLine(prompt string, withPrompt bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if withPrompt {
		if _, err := s.out.WriteString(prompt); err != nil {
			return "", err
		}
		if err := s.out.Flush(); err != nil {
			return "", err
		}
	}

	var line []byte
	var buf [1]byte
	for {
		_, err := io.ReadFull(s.in, buf[:])
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				break
			}
			return "", err
		}
		if buf[0] == '\n' {
			break
		}
		line = append(line, buf[0])
	}
	return DecodeLine(line), nil
}

// DecodeLine validates raw input as UTF-8. Malformed input is not a
// recoverable condition.
func DecodeLine(raw []byte) string {
	valid, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		diagnostics.Fatalf("input is not valid UTF-8: %v", err)
	}
	return string(valid)
}
