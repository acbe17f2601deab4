// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

import (
	"fmt"

	"golang.org/x/term"
)

// readlineInstance enforces the single-instance invariant: the editing
// backend owns the terminal's termios state, and two live instances
// would fight over it. Cleared when the instance is closed.
var readlineInstance *ReadlineReader

// ReadlineReader is the interactive editing backend: raw terminal
// mode, per-keypress input, backspace and kill keys, and Up/Down
// history recall. At most one may be live per process.
type ReadlineReader struct {
	terminal *Terminal
	prompt   func() string
	events   Events
	notifier Notifier
	editor   *editor

	savedState *term.State
	active     bool
	closed     bool
}

// NewReadlineReader constructs the reader and immediately restores it,
// switching the terminal to raw mode. It fails when the input is not
// an interactive terminal, and panics if another ReadlineReader is
// already live.
func NewReadlineReader(terminal *Terminal, prompt func() string, events Events, notifier Notifier, historySize int) (*ReadlineReader, error) {
	if readlineInstance != nil {
		panic("linereader: a ReadlineReader is already installed")
	}
	if !terminal.IsTerminal() {
		return nil, fmt.Errorf("line editing requires an interactive terminal")
	}
	reader := &ReadlineReader{
		terminal: terminal,
		prompt:   prompt,
		events:   events,
		notifier: notifier,
		editor:   newEditor(terminal.Output(), historySize),
	}
	state, err := term.MakeRaw(terminal.Fd())
	if err != nil {
		return nil, fmt.Errorf("entering raw terminal mode: %w", err)
	}
	reader.savedState = state
	reader.active = true
	reader.terminal.Print(reader.prompt())
	reader.notifier.Subscribe(reader.handleReady)
	readlineInstance = reader
	return reader, nil
}

// Pause returns the terminal to cooked mode and detaches from input
// readiness, so other code may read and write it directly. Idempotent.
func (r *ReadlineReader) Pause() {
	if !r.active {
		return
	}
	r.detach()
	r.terminal.Print("\n")
}

// Restore switches back to raw mode, re-prints the prompt and any line
// under construction, and resubscribes. Idempotent; a closed reader
// stays detached. If raw mode cannot be re-entered the reader remains
// paused.
func (r *ReadlineReader) Restore() {
	if r.active || r.closed {
		return
	}
	state, err := term.MakeRaw(r.terminal.Fd())
	if err != nil {
		return
	}
	r.savedState = state
	r.active = true
	r.terminal.Print(r.prompt())
	r.editor.redisplay()
	r.notifier.Subscribe(r.handleReady)
}

// Close permanently detaches the reader, restoring cooked mode and
// freeing the instance slot.
func (r *ReadlineReader) Close() {
	if r.closed {
		return
	}
	if r.active {
		r.detach()
	}
	r.closed = true
	readlineInstance = nil
}

// detach drops the readiness subscription and restores the saved
// termios state.
func (r *ReadlineReader) detach() {
	r.active = false
	r.notifier.Unsubscribe()
	term.Restore(r.terminal.Fd(), r.savedState)
}

// handleReady consumes every buffered keypress. A paste may carry
// several completed lines; each is delivered in turn. Runs on the
// event loop.
func (r *ReadlineReader) handleReady() {
	for r.active {
		b, err := r.terminal.ReadByte()
		if err != nil {
			r.endInput()
			return
		}
		switch r.editor.feed(b) {
		case keyLine:
			r.deliverLine(r.editor.takeLine())
		case keyEndOfInput:
			r.endInput()
			return
		}
		if r.terminal.Buffered() == 0 {
			return
		}
	}
}

// deliverLine hands one completed line to the session. The terminal is
// returned to cooked mode first so the handler may run blocking
// prompts, then the reader restores itself unless the handler closed
// it.
func (r *ReadlineReader) deliverLine(line string) {
	r.detach()
	r.terminal.Print("\r\n")
	r.editor.remember(line)
	r.events.Line(line)
	r.Restore()
}

func (r *ReadlineReader) endInput() {
	r.detach()
	r.closed = true
	r.terminal.Print("\r\n")
	readlineInstance = nil
	r.events.End()
}
