// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"text/tabwriter"
)

func newHelpCommand(registry *Registry) *Command {
	return &Command{
		Name:    "help",
		Summary: "list the available commands",
		Usage:   "help",
		Run: func(cmd *Command, env *Environment, args []string) error {
			writer := tabwriter.NewWriter(env.Terminal.Output(), 0, 4, 2, ' ', 0)
			for _, entry := range registry.Commands() {
				fmt.Fprintf(writer, "  %s\t%s\n", entry.Name, entry.Summary)
			}
			return writer.Flush()
		},
	}
}
