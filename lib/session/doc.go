// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package session runs the interactive command loop: a single
// goroutine draining an event queue, dispatching operator lines to
// commands, and brokering database ownership between the commands and
// the attached subsystems (the secret service frontend and the SSH
// agent notifier).
//
// Everything — line delivery, authorization prompts, command
// execution — happens on the session goroutine. Other goroutines (the
// input readiness watcher, external service frontends) get onto it
// with Post.
package session
