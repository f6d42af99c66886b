// Package tty adapts the host terminal for the machine's console virtual
// routines.
package tty

// Grounded on the reference codebase's Console type, trimmed from its
// async keyboard/display-channel adapter (there are no interrupts in
// RISK-XVII: READ_CHAR/READ_SINT are synchronous VR calls serviced directly
// against the console's input stream) down to what the VR table actually
// needs: raw-mode, unbuffered single-keystroke reads when standard input is
// a terminal, falling back to plain buffered reads over a pipe or file, the
// common case in tests and CI.

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is the error for a console whose input is not a terminal.
// Nothing in this package returns it: NewConsole accepts a non-terminal
// input, and Restore on such a console returns nil.
var ErrNoTTY = errors.New("console: not a TTY")

// Console adapts an input file for READ_CHAR/READ_SINT and an output file
// for WRITE_CHAR/WRITE_SINT/WRITE_UINT.
type Console struct {
	in  *os.File
	out *os.File

	fd    int
	state *term.State
}

// NewConsole wires in and out for console virtual routines. When in is a
// terminal, it is switched to raw mode so READ_CHAR observes keystrokes
// immediately, without waiting for a line to be terminated; the returned
// Console's Restore method must be called to return the terminal to its
// original state. When in is not a terminal (a pipe, a file, as in most
// tests), reads pass through unmodified and Restore is a no-op.
func NewConsole(in, out *os.File) (*Console, error) {
	fd := int(in.Fd())

	cons := &Console{in: in, out: out, fd: fd}

	if !term.IsTerminal(fd) {
		return cons, nil
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return cons, nil
	}

	cons.state = saved

	if err := cons.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, saved)
		cons.state = nil

		return cons, err
	}

	return cons, nil
}

// Reader returns the stream READ_CHAR/READ_SINT consume from.
func (c *Console) Reader() io.Reader {
	return c.in
}

// Writer returns the stream WRITE_CHAR/WRITE_SINT/WRITE_UINT/DUMP_* write
// to.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Restore returns the terminal to its state before NewConsole, if it was
// put into raw mode. It is safe to call on a Console built over a non-TTY
// stream.
func (c *Console) Restore() error {
	if c.state == nil {
		return nil
	}

	return term.Restore(c.fd, c.state)
}

// setTerminalParams configures the terminal to return a read as soon as
// vmin bytes are available, without waiting for a line terminator.
func (c *Console) setTerminalParams(vmin, vtime byte) error {
	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	return unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO)
}
