// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package linereader provides the session's asynchronous line input:
// two interchangeable backends that deliver operator-typed lines as
// events without blocking the session's event loop.
//
// A LineReader owns an input-readiness subscription on the terminal
// file descriptor. When input is ready, the reader consumes it on the
// event loop and fires Events.Line (one completed line) or Events.End
// (the stream is exhausted or the operator aborted). Pause fully
// detaches the reader from the terminal; Restore re-prints the prompt
// and resubscribes. Both are idempotent — pausing twice or restoring
// twice never crashes and never double-subscribes.
//
// SimpleReader reads cooked lines from a buffered stream and works on
// pipes and redirected input. ReadlineReader puts the terminal in raw
// mode and provides line editing and history; only one may be live per
// process, because it owns the terminal state.
//
// Guard brackets an operation that needs exclusive terminal control
// (authorization prompts, password entry): it pauses the reader on
// construction and restores it on Release, which is intended for
// defer so restoration covers every exit path.
package linereader
