package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/solar-lang/solar-compiler/internal/diagnostics"
)

func TestStreamPrint(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewStream(strings.NewReader(""), out)
	if err := s.Print("a", "", "bc", "\n"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abc\n" {
		t.Errorf("got=%q, want=%q", out.String(), "abc\n")
	}
}

func TestStreamReadLine(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		prompt     string
		withPrompt bool
		want       string
		wantOut    string
		rest       string
	}{
		{"no prompt", "abc\nxyz", "", false, "abc", "", "xyz"},
		{"prompt", "abc\n", "name? ", true, "abc", "name? ", ""},
		{"empty prompt", "x\n", "", true, "x", "", ""},
		{"empty line", "\nnext\n", "", false, "", "", "next\n"},
		{"unterminated", "tail", "", false, "tail", "", ""},
		{"unicode", "héllo\n", "", false, "héllo", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.NewReader(tt.input)
			out := &bytes.Buffer{}
			got, err := NewStream(in, out).ReadLine(tt.prompt, tt.withPrompt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("line got=%q, want=%q", got, tt.want)
			}
			if out.String() != tt.wantOut {
				t.Errorf("output got=%q, want=%q", out.String(), tt.wantOut)
			}
			rest, _ := io.ReadAll(in)
			if string(rest) != tt.rest {
				t.Errorf("remaining got=%q, want=%q", rest, tt.rest)
			}
		})
	}
}

func TestStreamReadLineEOF(t *testing.T) {
	_, err := NewStream(strings.NewReader(""), io.Discard).ReadLine("", false)
	if !errors.Is(err, io.EOF) {
		t.Errorf("got=%v, want io.EOF", err)
	}
}

func TestInvalidUTF8IsFatal(t *testing.T) {
	s := NewStream(bytes.NewReader([]byte{'a', 0xff, 'b', '\n'}), io.Discard)
	var err error
	func() {
		defer diagnostics.RecoverFatal(&err)
		s.ReadLine("", false)
	}()
	if !diagnostics.IsFatal(err) {
		t.Errorf("got=%v, want fatal", err)
	}
}

func TestConcurrentPrintsDoNotInterleave(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewStream(strings.NewReader(""), out)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Print("<", "ab", "cd", ">")
		}()
	}
	wg.Wait()

	got := out.String()
	if strings.Count(got, "<abcd>") != 20 {
		t.Errorf("interleaved output: %q", got)
	}
}
