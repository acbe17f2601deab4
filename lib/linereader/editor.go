// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

import (
	"io"
	"strings"
	"unicode/utf8"
)

// keyResult classifies the effect of one input byte on the editor.
type keyResult int

const (
	// keyConsumed means the byte was absorbed; the line is still being
	// edited.
	keyConsumed keyResult = iota

	// keyLine means Enter completed the line; collect it with takeLine.
	keyLine

	// keyEndOfInput means Ctrl-D on an empty line: the operator is done.
	keyEndOfInput
)

// editor is the raw-mode line editing state machine: one line under
// construction, echo written to out, history recall with Up/Down. It
// never touches termios or the prompt — the ReadlineReader owns those.
type editor struct {
	out io.Writer

	line    []rune
	pending []byte // partial UTF-8 sequence awaiting continuation bytes

	history      []string
	historyLimit int
	historyPos   int    // index into history; len(history) is the live line
	saved        []rune // live line stashed while browsing history

	inEscape bool
	inCSI    bool
}

func newEditor(out io.Writer, historyLimit int) *editor {
	return &editor{out: out, historyLimit: historyLimit}
}

// feed processes one input byte, echoing as needed.
func (e *editor) feed(b byte) keyResult {
	if e.inCSI {
		// CSI parameter and intermediate bytes are 0x20..0x3f; the
		// final byte 0x40..0x7e ends the sequence.
		if b >= 0x40 && b <= 0x7e {
			e.inCSI = false
			e.handleCSIFinal(b)
		}
		return keyConsumed
	}
	if e.inEscape {
		e.inEscape = false
		if b == '[' {
			e.inCSI = true
		}
		// Anything else (Alt-chords, bare ESC) is swallowed.
		return keyConsumed
	}

	switch b {
	case 0x1b: // ESC
		e.inEscape = true
		return keyConsumed
	case '\r', '\n':
		return keyLine
	case 0x7f, 0x08: // Backspace
		e.eraseRunes(1)
		return keyConsumed
	case 0x15, 0x03: // Ctrl-U, Ctrl-C: discard the line
		e.eraseRunes(len(e.line))
		return keyConsumed
	case 0x17: // Ctrl-W: delete the word before the cursor
		e.eraseWord()
		return keyConsumed
	case 0x04: // Ctrl-D
		if len(e.line) == 0 && len(e.pending) == 0 {
			return keyEndOfInput
		}
		return keyConsumed
	}

	if b < 0x20 {
		return keyConsumed
	}

	e.pending = append(e.pending, b)
	if !utf8.FullRune(e.pending) {
		return keyConsumed
	}
	r, _ := utf8.DecodeRune(e.pending)
	if r != utf8.RuneError {
		e.line = append(e.line, r)
		io.WriteString(e.out, string(e.pending))
	}
	e.pending = e.pending[:0]
	return keyConsumed
}

// takeLine returns the completed line and resets the editing state.
// History is not updated here; the caller decides what to remember.
func (e *editor) takeLine() string {
	text := string(e.line)
	e.line = e.line[:0]
	e.pending = e.pending[:0]
	e.saved = nil
	e.historyPos = len(e.history)
	return text
}

// remember appends a line to history, skipping blanks and immediate
// duplicates, and trims to the configured limit.
func (e *editor) remember(line string) {
	if e.historyLimit <= 0 || strings.TrimSpace(line) == "" {
		e.historyPos = len(e.history)
		return
	}
	if n := len(e.history); n > 0 && e.history[n-1] == line {
		e.historyPos = len(e.history)
		return
	}
	e.history = append(e.history, line)
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
	e.historyPos = len(e.history)
}

// redisplay re-echoes the line under construction. Used when the
// reader restores after a pause that cleared the screen line.
func (e *editor) redisplay() {
	if len(e.line) > 0 {
		io.WriteString(e.out, string(e.line))
	}
}

func (e *editor) handleCSIFinal(b byte) {
	switch b {
	case 'A': // Up
		if e.historyPos == 0 {
			return
		}
		if e.historyPos == len(e.history) {
			e.saved = append([]rune(nil), e.line...)
		}
		e.historyPos--
		e.replaceLine([]rune(e.history[e.historyPos]))
	case 'B': // Down
		if e.historyPos >= len(e.history) {
			return
		}
		e.historyPos++
		if e.historyPos == len(e.history) {
			e.replaceLine(e.saved)
			e.saved = nil
			return
		}
		e.replaceLine([]rune(e.history[e.historyPos]))
	}
	// Left/Right and everything else: cursor movement within the line
	// is not supported, so the sequence is consumed silently.
}

func (e *editor) replaceLine(runes []rune) {
	e.eraseRunes(len(e.line))
	e.line = append(e.line[:0], runes...)
	io.WriteString(e.out, string(e.line))
}

func (e *editor) eraseRunes(count int) {
	if count > len(e.line) {
		count = len(e.line)
	}
	if count == 0 {
		return
	}
	e.line = e.line[:len(e.line)-count]
	io.WriteString(e.out, strings.Repeat("\b \b", count))
}

func (e *editor) eraseWord() {
	end := len(e.line)
	for end > 0 && e.line[end-1] == ' ' {
		end--
	}
	for end > 0 && e.line[end-1] != ' ' {
		end--
	}
	e.eraseRunes(len(e.line) - end)
}
