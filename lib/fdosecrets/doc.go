// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package fdosecrets implements the terminal side of the secret
// service frontend: when an external client asks to read or remove
// entries from an unlocked database, the operator authorizes the
// request through interactive prompts.
//
// All prompting runs on the session goroutine with the line reader
// paused, so an authorization dialog never interleaves with command
// input.
package fdosecrets
