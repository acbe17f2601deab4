// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

// newQuitCommand covers both spellings of session termination. The
// command body is empty on purpose: the session recognizes the name
// before dispatch and runs its own shutdown sequence.
func newQuitCommand(name string) *Command {
	return &Command{
		Name:    name,
		Summary: "end the interactive session",
		Usage:   name,
		Run: func(cmd *Command, env *Environment, args []string) error {
			return nil
		},
	}
}
