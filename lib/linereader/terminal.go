// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the single point of contact with the controlling
// terminal: one buffered reader over the input stream, one output
// writer, and the input file descriptor for readiness polling and
// mode changes.
//
// Exactly one consumer reads the input at a time — either the active
// LineReader (driven by readiness events) or a blocking prompt running
// while the reader is paused. Sharing the buffered reader is what
// makes that handoff safe: bytes buffered by one consumer are seen by
// the next.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal builds a terminal over arbitrary streams. Pass a
// negative fd when there is no underlying descriptor (tests, pipes
// driven by a manual notifier); readiness polling and raw mode are
// unavailable in that case.
func NewTerminal(in io.Reader, out io.Writer, fd int) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
	}
}

// Stdio returns the process's controlling terminal.
func Stdio() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
}

// Fd returns the input file descriptor, or a negative value when none
// exists.
func (t *Terminal) Fd() int { return t.fd }

// IsTerminal reports whether the input is an interactive terminal.
func (t *Terminal) IsTerminal() bool {
	return t.fd >= 0 && term.IsTerminal(t.fd)
}

// ReadLine reads one line, stripping the trailing newline (and
// carriage return). At end of stream it returns io.EOF; a final
// unterminated line is returned together with io.EOF.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		return line, err
	}
	return line, nil
}

// ReadByte reads a single byte. Used by the raw-mode backend, where
// every keypress arrives individually.
func (t *Terminal) ReadByte() (byte, error) {
	return t.in.ReadByte()
}

// Buffered reports how many input bytes are already buffered and can
// be consumed without blocking.
func (t *Terminal) Buffered() int {
	return t.in.Buffered()
}

// Output returns the output writer, for components that echo directly.
func (t *Terminal) Output() io.Writer {
	return t.out
}

// Print writes operator-facing text.
func (t *Terminal) Print(text string) {
	io.WriteString(t.out, text)
}

// Printf writes formatted operator-facing text.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}
