// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

func newCloseCommand() *Command {
	return &Command{
		Name:    "close",
		Summary: "lock the current database",
		Usage:   "close",
		Run:     runClose,
	}
}

func runClose(cmd *Command, env *Environment, args []string) error {
	if cmd.Database == nil {
		return ErrNoDatabase
	}
	cmd.Database.ReleaseSensitiveState()
	cmd.Database = nil
	return nil
}
