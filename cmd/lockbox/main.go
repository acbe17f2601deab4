// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Command lockbox is the vault CLI. "lockbox open <file>" unlocks a
// vault and enters the interactive session; other commands run once
// against a vault file and exit.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/lockbox-foundation/lockbox/lib/command"
	"github.com/lockbox-foundation/lockbox/lib/config"
	"github.com/lockbox-foundation/lockbox/lib/fdosecrets"
	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/session"
	"github.com/lockbox-foundation/lockbox/lib/sshagent"
	"github.com/lockbox-foundation/lockbox/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("lockbox", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the configuration file")
	withFdoSecrets := flags.Bool("fdo-secrets", false,
		"expose unlocked databases to the secret service frontend")
	withSSHAgent := flags.Bool("ssh-agent", false,
		"load stored SSH keys into the running agent while unlocked")
	simpleReader := flags.Bool("simple-reader", false,
		"disable line editing and history")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version.Info())
		return nil
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := newLogger()

	args := flags.Args()
	if len(args) == 0 {
		return fmt.Errorf("usage: lockbox [flags] open <vault file> | <command> <vault file> [args]")
	}

	if args[0] == "open" {
		if len(args) != 2 {
			return fmt.Errorf("usage: lockbox open <vault file>")
		}
		return runInteractive(settings, logger, args[1], *withFdoSecrets, *withSSHAgent, *simpleReader)
	}
	return runOneShot(settings, logger, args)
}

// runInteractive unlocks the vault, wires the subsystems and the line
// reader, and hands control to the session loop until the operator
// quits or input ends.
func runInteractive(settings *config.Settings, logger *slog.Logger, path string, withFdoSecrets, withSSHAgent, simpleReader bool) error {
	terminal := linereader.Stdio()
	env := &command.Environment{
		Terminal: terminal,
		Settings: settings,
		Logger:   logger,
	}
	registry := command.NewRegistry(env, true)

	var prompter *fdosecrets.PromptService
	var secretService session.SecretService
	if withFdoSecrets {
		prompter = fdosecrets.NewPromptService(terminal, settings, logger)
		secretService = prompter
	}
	var keyAgent session.KeyAgent
	if withSSHAgent {
		notifier, err := sshagent.New(logger)
		if err != nil {
			return err
		}
		keyAgent = notifier
	}

	// The initial unlock happens before any reader exists: the
	// passphrase prompt needs the terminal in its ordinary state.
	openCmd := registry.Lookup("open")
	if err := openCmd.Run(openCmd, env, []string{path}); err != nil {
		return err
	}
	database := openCmd.Database
	openCmd.Database = nil

	s := session.New(session.Options{
		Logger:        logger,
		Terminal:      terminal,
		Registry:      registry,
		Database:      database,
		SecretService: secretService,
		KeyAgent:      keyAgent,
	})

	notifier := linereader.NewPollNotifier(terminal.Fd(), s.Post)
	var reader linereader.LineReader
	if terminal.IsTerminal() && !simpleReader {
		editing, err := linereader.NewReadlineReader(terminal, s.Prompt, s.Events(), notifier, settings.HistorySize)
		if err != nil {
			return err
		}
		reader = editing
	} else {
		reader = linereader.NewSimpleReader(terminal, s.Prompt, s.Events(), notifier)
	}
	s.AttachReader(reader)
	if prompter != nil {
		prompter.AttachReader(reader)
	}

	s.Run()
	return nil
}

// runOneShot executes a single command against a vault file: the vault
// is unlocked, the command runs, and the process exits.
func runOneShot(settings *config.Settings, logger *slog.Logger, args []string) error {
	terminal := linereader.Stdio()
	env := &command.Environment{
		Terminal: terminal,
		Settings: settings,
		Logger:   logger,
	}
	registry := command.NewRegistry(env, false)

	name := args[0]
	cmd := registry.Lookup(name)
	if cmd == nil {
		return fmt.Errorf("unknown command %q", name)
	}
	if name == "help" {
		return cmd.Run(cmd, env, args[1:])
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: lockbox %s <vault file> [args]", name)
	}

	openCmd := registry.Lookup("open")
	if err := openCmd.Run(openCmd, env, []string{args[1]}); err != nil {
		return err
	}
	cmd.Database = openCmd.Database
	openCmd.Database = nil
	defer cmd.Database.ReleaseSensitiveState()

	return cmd.Run(cmd, env, args[2:])
}
