// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

import (
	"io"
)

// SimpleReader is the minimal stream backend: cooked-mode lines read
// one per readiness event, no editing, no history. It is the backend
// of choice when stdin is not an interactive terminal (pipes, here
// documents, tests).
type SimpleReader struct {
	terminal *Terminal
	prompt   func() string
	events   Events
	notifier Notifier
	active   bool
	closed   bool

	// generation counts pause/restore transitions, letting handleReady
	// tell whether a Line handler already re-printed the prompt via a
	// guard cycle.
	generation int
}

// NewSimpleReader constructs the reader and immediately restores it:
// the prompt is printed and the readiness subscription installed,
// mirroring a reader that is born listening.
func NewSimpleReader(terminal *Terminal, prompt func() string, events Events, notifier Notifier) *SimpleReader {
	reader := &SimpleReader{
		terminal: terminal,
		prompt:   prompt,
		events:   events,
		notifier: notifier,
	}
	reader.Restore()
	return reader
}

// Pause detaches from input readiness and moves output to a fresh
// line so whatever runs next starts clean. Idempotent.
func (r *SimpleReader) Pause() {
	if !r.active {
		return
	}
	r.active = false
	r.generation++
	r.terminal.Print("\n")
	r.notifier.Unsubscribe()
}

// Restore re-prints the prompt and resubscribes. Idempotent; a closed
// reader stays detached.
func (r *SimpleReader) Restore() {
	if r.active || r.closed {
		return
	}
	r.active = true
	r.generation++
	r.terminal.Print(r.prompt())
	r.notifier.Subscribe(r.handleReady)
}

// Close permanently detaches the reader.
func (r *SimpleReader) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.active {
		r.active = false
		r.notifier.Unsubscribe()
	}
}

// handleReady consumes exactly one line per readiness event. Runs on
// the event loop.
func (r *SimpleReader) handleReady() {
	if !r.active {
		// A readiness event raced a pause; the next restore will
		// resubscribe and the input stays buffered until then.
		return
	}

	line, err := r.terminal.ReadLine()
	if err != nil && (err != io.EOF || line == "") {
		r.active = false
		r.closed = true
		r.notifier.Unsubscribe()
		r.events.End()
		return
	}

	// A final unterminated line still counts as input; the stream end
	// is observed on the next readiness event.
	generation := r.generation
	r.events.Line(line)

	// The Line handler may have paused, restored, or closed the reader
	// (authorization flows do). Only re-prompt if we are still the
	// active consumer and no guard cycle already re-printed it.
	if r.active && r.generation == generation {
		r.terminal.Print(r.prompt())
	}
}
