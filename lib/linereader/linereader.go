// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

// Events are the observable outputs of a LineReader. Both callbacks
// run on the session's event loop, never concurrently.
type Events struct {
	// Line fires once per completed input line, without the trailing
	// newline.
	Line func(text string)

	// End fires when the input stream is exhausted or the operator
	// aborts (Ctrl-D on an empty line in the editing backend). The
	// reader has already detached from the terminal when End fires.
	End func()
}

// LineReader is a pluggable, suspendable line-input source. Both
// backends satisfy it; the session and the Guard only see this
// surface.
//
// Pause and Restore are idempotent: redundant calls are no-ops, and a
// pause/restore pair always leaves exactly zero or one active
// readiness subscription. All methods must be called on the event
// loop.
type LineReader interface {
	// Pause fully detaches from the terminal: the readiness
	// subscription is dropped and (for the raw-mode backend) the
	// terminal is returned to its unmanaged state. While paused,
	// other code may read the terminal directly.
	Pause()

	// Restore re-prints the prompt and resubscribes for input
	// readiness.
	Restore()

	// Close permanently detaches the reader. A closed reader ignores
	// Restore.
	Close()
}
