// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"golang.org/x/term"

	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/secret"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

func newOpenCommand() *Command {
	return &Command{
		Name:    "open",
		Summary: "unlock a vault file and make it the current database",
		Usage:   "open <path>",
		Run:     runOpen,
	}
}

func runOpen(cmd *Command, env *Environment, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <path>")
	}
	path := args[0]

	passphrase, err := promptPassphrase(env, fmt.Sprintf("Enter password to unlock %s: ", path))
	if err != nil {
		return err
	}
	defer passphrase.Close()

	database, err := vault.Open(path, passphrase)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if cmd.Database != nil {
		cmd.Database.ReleaseSensitiveState()
	}
	cmd.Database = database
	return nil
}

// promptPassphrase reads a passphrase with the line reader paused. On
// an interactive terminal echo is disabled; on a pipe the next line is
// consumed as-is.
func promptPassphrase(env *Environment, prompt string) (*secret.Buffer, error) {
	if env.Reader != nil {
		guard := linereader.NewGuard(env.Reader)
		defer guard.Release()
	}
	env.Terminal.Print(prompt)

	if env.Terminal.IsTerminal() {
		raw, err := term.ReadPassword(env.Terminal.Fd())
		env.Terminal.Print("\n")
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		return secret.NewFromBytes(raw)
	}

	line, err := env.Terminal.ReadLine()
	if err != nil && line == "" {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return secret.NewFromString(line)
}
