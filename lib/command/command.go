// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"log/slog"

	"github.com/lockbox-foundation/lockbox/lib/config"
	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// ErrNoDatabase is returned by commands that need an open vault when
// none is.
var ErrNoDatabase = errors.New("no database is open")

// Command is one session command.
type Command struct {
	// Name is the command name as typed by the operator.
	Name string

	// Summary is a one-line description shown in the help listing.
	Summary string

	// Usage is the usage string (e.g., "open <path>").
	Usage string

	// Database is the ownership handoff slot. The session stores the
	// current database here before calling Run and takes back whatever
	// the slot holds afterwards. Run may replace it (open) or clear it
	// (close); it must not retain a reference past its return.
	Database *vault.Database

	// Run executes the command with the already-tokenized arguments
	// (the command name itself removed). A returned error is reported
	// to the operator; it never terminates the session.
	Run func(cmd *Command, env *Environment, args []string) error
}

// Environment carries the shared facilities commands run against.
type Environment struct {
	// Terminal is the operator's terminal.
	Terminal *linereader.Terminal

	// Reader is the active line reader, or nil in one-shot mode. A
	// command that needs direct terminal input (passphrase entry)
	// brackets it with a linereader.Guard.
	Reader linereader.LineReader

	// Settings are the loaded configuration values.
	Settings *config.Settings

	// Logger receives diagnostic events.
	Logger *slog.Logger
}
