// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

func newShowCommand() *Command {
	return &Command{
		Name:    "show",
		Summary: "display an entry, optionally with its secret value",
		Usage:   "show [--show-protected] <title>",
		Run:     runShow,
	}
}

func runShow(cmd *Command, env *Environment, args []string) error {
	flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	showProtected := flags.BoolP("show-protected", "s", false,
		"print the secret value with references resolved")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: %s", cmd.Usage)
	}

	if cmd.Database == nil {
		return ErrNoDatabase
	}
	entry := cmd.Database.Root().FindEntryByTitle(flags.Arg(0))
	if entry == nil {
		return fmt.Errorf("entry %q not found", flags.Arg(0))
	}

	env.Terminal.Printf("Title: %s\n", entry.Title())
	env.Terminal.Printf("Username: %s\n", entry.Username())
	if *showProtected {
		env.Terminal.Printf("Password: %s\n", entry.ResolvedDisplayValue())
	} else {
		env.Terminal.Print("Password: PROTECTED\n")
	}
	return nil
}
