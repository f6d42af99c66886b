// Package tty_test exercises the non-TTY fallback path; the raw-mode path
// is skipped under "go test" since it redirects standard input to a pipe.
package tty_test

import (
	"io"
	"os"
	"testing"

	"riskxvii/internal/tty"
)

func TestConsoleNonTTY(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %s", err)
	}

	defer r.Close()
	defer w.Close()

	console, err := tty.NewConsole(r, w)
	if err != nil {
		t.Fatalf("NewConsole: %s", err)
	}

	defer console.Restore()

	go func() {
		_, _ = w.Write([]byte("x"))
	}()

	buf := make([]byte, 1)
	if _, err := io.ReadFull(console.Reader(), buf); err != nil {
		t.Fatalf("read: %s", err)
	}

	if buf[0] != 'x' {
		t.Errorf("read %q, want %q", buf[0], 'x')
	}
}
