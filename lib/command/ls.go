// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

func newListCommand() *Command {
	return &Command{
		Name:    "ls",
		Summary: "list the groups and entries of the current database",
		Usage:   "ls",
		Run:     runList,
	}
}

func runList(cmd *Command, env *Environment, args []string) error {
	if cmd.Database == nil {
		return ErrNoDatabase
	}
	printGroup(env.Terminal, cmd.Database.Root(), 0)
	return nil
}

func printGroup(terminal *linereader.Terminal, group *vault.Group, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, entry := range group.Entries() {
		terminal.Printf("%s%s\n", indent, entry.Title())
	}
	for _, child := range group.Groups() {
		terminal.Printf("%s%s/\n", indent, child.Name())
		printGroup(terminal, child, depth+1)
	}
}
