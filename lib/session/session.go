// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"

	"github.com/lockbox-foundation/lockbox/lib/command"
	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/shellwords"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// SecretService is the surface the session uses to keep an external
// secret-service frontend in sync with which database is unlocked.
type SecretService interface {
	RegisterDatabase(path string, database *vault.Database) error
	UnregisterDatabase(path string) error
}

// KeyAgent is notified when a database is unlocked or locked, so SSH
// keys stored in it can be added to or removed from the agent.
type KeyAgent interface {
	NotifyUnlocked(database *vault.Database) error
	NotifyLocked(database *vault.Database) error
}

// Options configures a Session.
type Options struct {
	Logger   *slog.Logger
	Terminal *linereader.Terminal
	Registry *command.Registry

	// Database is the initially unlocked database. May be nil; the
	// operator can open one with the open command.
	Database *vault.Database

	// SecretService and KeyAgent are optional subsystems. Their
	// failures are reported to the operator and logged but never
	// terminate the session.
	SecretService SecretService
	KeyAgent      KeyAgent
}

// Session is the interactive command loop.
type Session struct {
	logger        *slog.Logger
	terminal      *linereader.Terminal
	registry      *command.Registry
	database      *vault.Database
	secretService SecretService
	keyAgent      KeyAgent

	reader linereader.LineReader
	events chan func()
	done   chan struct{}

	terminated bool
}

// New builds a session. The line reader is attached separately with
// AttachReader because reader construction needs the session's prompt
// and event callbacks.
func New(options Options) *Session {
	if options.Terminal == nil {
		panic("session: terminal is required")
	}
	if options.Registry == nil {
		panic("session: command registry is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:        logger,
		terminal:      options.Terminal,
		registry:      options.Registry,
		database:      options.Database,
		secretService: options.SecretService,
		keyAgent:      options.KeyAgent,
		events:        make(chan func(), 16),
		done:          make(chan struct{}),
	}
}

// Post schedules fn onto the session goroutine. Safe to call from any
// goroutine; fn is dropped if the session has already terminated.
func (s *Session) Post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Done is closed when the session terminates.
func (s *Session) Done() <-chan struct{} { return s.done }

// Prompt renders the current prompt string.
func (s *Session) Prompt() string {
	return ComputePrompt(s.database, s.secretService != nil, s.keyAgent != nil)
}

// Events returns the reader callbacks wired to this session. Both run
// on the session goroutine because readers only fire from readiness
// events posted there.
func (s *Session) Events() linereader.Events {
	return linereader.Events{
		Line: s.dispatch,
		End:  s.terminate,
	}
}

// AttachReader hands the session its line reader. Must be called
// before Run.
func (s *Session) AttachReader(reader linereader.LineReader) {
	s.reader = reader
	s.registry.Environment().Reader = reader
}

// Run registers the initial database with the subsystems and drains
// the event queue until the session terminates.
func (s *Session) Run() {
	s.registerDatabase(s.database)
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.done:
			return
		}
	}
}

// dispatch executes one operator line.
func (s *Session) dispatch(line string) {
	tokens, err := shellwords.Split(line)
	if err != nil {
		s.terminal.Printf("%v\n", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	name := tokens[0]
	if name == "quit" || name == "exit" {
		s.terminate()
		return
	}

	cmd := s.registry.Lookup(name)
	if cmd == nil {
		s.terminal.Printf("Unknown command %q. Type 'help' for a list.\n", name)
		return
	}

	// Commands that change which database is unlocked run with the
	// subsystems detached, so no external request can race the swap.
	changesDatabase := name == "open" || name == "close"
	if changesDatabase {
		s.unregisterDatabase(s.database)
	}

	previous := s.database
	cmd.Database = s.database
	runErr := cmd.Run(cmd, s.registry.Environment(), tokens[1:])
	s.database = cmd.Database
	cmd.Database = nil

	if runErr != nil {
		s.terminal.Printf("%v\n", runErr)
		s.logger.Warn("command failed", "command", name, "error", runErr)
	}

	if changesDatabase {
		s.registerDatabase(s.database)
	}

	// A prompt printed while the command held the terminal (passphrase
	// entry) predates the swap; cycle the reader so the line shows the
	// new database.
	if s.database != previous && s.reader != nil {
		s.reader.Pause()
		s.reader.Restore()
	}
}

// terminate shuts the session down: subsystems detached, secrets
// released, reader closed. Idempotent.
func (s *Session) terminate() {
	if s.terminated {
		return
	}
	s.terminated = true

	s.unregisterDatabase(s.database)
	if s.database != nil {
		s.database.ReleaseSensitiveState()
		s.database = nil
	}
	if s.reader != nil {
		s.reader.Close()
	}
	close(s.done)
}

func (s *Session) registerDatabase(database *vault.Database) {
	if database == nil {
		return
	}
	if s.secretService != nil {
		if err := s.secretService.RegisterDatabase(database.CanonicalPath(), database); err != nil {
			s.terminal.Printf("Secret service: %v\n", err)
			s.logger.Warn("secret service registration failed",
				"database", database.DisplayName(), "error", err)
		}
	}
	if s.keyAgent != nil {
		if err := s.keyAgent.NotifyUnlocked(database); err != nil {
			s.terminal.Printf("SSH agent: %v\n", err)
			s.logger.Warn("ssh agent unlock notification failed",
				"database", database.DisplayName(), "error", err)
		}
	}
}

func (s *Session) unregisterDatabase(database *vault.Database) {
	if database == nil {
		return
	}
	if s.secretService != nil {
		if err := s.secretService.UnregisterDatabase(database.CanonicalPath()); err != nil {
			s.terminal.Printf("Secret service: %v\n", err)
			s.logger.Warn("secret service unregistration failed",
				"database", database.DisplayName(), "error", err)
		}
	}
	if s.keyAgent != nil {
		if err := s.keyAgent.NotifyLocked(database); err != nil {
			s.terminal.Printf("SSH agent: %v\n", err)
			s.logger.Warn("ssh agent lock notification failed",
				"database", database.DisplayName(), "error", err)
		}
	}
}
