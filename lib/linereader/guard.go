// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

// Guard brackets an operation that needs exclusive terminal access.
// Construction pauses the reader; Release restores it. Release is
// intended for defer, so the reader comes back on every exit path,
// and is idempotent so an early explicit release is harmless.
type Guard struct {
	reader   LineReader
	released bool
}

// NewGuard pauses the reader and returns the guard holding it.
func NewGuard(reader LineReader) *Guard {
	if reader == nil {
		panic("linereader: guard requires a reader")
	}
	reader.Pause()
	return &Guard{reader: reader}
}

// Release restores the reader. Safe to call more than once.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.reader.Restore()
}
