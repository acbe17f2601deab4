// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package sshagent loads private keys stored in a vault into the
// operator's running SSH agent while the vault is unlocked, and
// withdraws them when it locks.
//
// Keys live as entry values in a top-level group named "SSH Keys",
// PEM-encoded. Entries that do not parse as private keys are skipped
// with a warning; the vault may hold passphrases in the same group.
package sshagent

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// keyGroupName is the top-level group whose entries are treated as
// agent keys.
const keyGroupName = "SSH Keys"

// Notifier connects to the agent named by SSH_AUTH_SOCK on each
// lock/unlock transition. Connections are not held between calls; the
// agent may restart while a session runs.
type Notifier struct {
	socketPath string
	logger     *slog.Logger
}

// New resolves the agent socket from the environment.
func New(logger *slog.Logger) (*Notifier, error) {
	socketPath := os.Getenv("SSH_AUTH_SOCK")
	if socketPath == "" {
		return nil, errors.New("the SSH agent is not enabled: SSH_AUTH_SOCK is not set")
	}
	return &Notifier{socketPath: socketPath, logger: logger}, nil
}

// NotifyUnlocked adds the database's stored keys to the agent.
func (n *Notifier) NotifyUnlocked(database *vault.Database) error {
	entries := keyEntries(database)
	if len(entries) == 0 {
		return nil
	}
	client, closeConn, err := n.connect()
	if err != nil {
		return err
	}
	defer closeConn()

	for _, entry := range entries {
		privateKey, err := ssh.ParseRawPrivateKey([]byte(entry.Value()))
		if err != nil {
			n.logger.Warn("entry is not a loadable private key",
				"entry", entry.Title(), "error", err)
			continue
		}
		if err := client.Add(agent.AddedKey{PrivateKey: privateKey, Comment: entry.Title()}); err != nil {
			n.logger.Warn("adding key to agent failed", "entry", entry.Title(), "error", err)
			continue
		}
		n.logger.Info("key added to agent", "entry", entry.Title())
	}
	return nil
}

// NotifyLocked removes the database's stored keys from the agent.
func (n *Notifier) NotifyLocked(database *vault.Database) error {
	entries := keyEntries(database)
	if len(entries) == 0 {
		return nil
	}
	client, closeConn, err := n.connect()
	if err != nil {
		return err
	}
	defer closeConn()

	for _, entry := range entries {
		privateKey, err := ssh.ParseRawPrivateKey([]byte(entry.Value()))
		if err != nil {
			continue
		}
		signer, err := ssh.NewSignerFromKey(privateKey)
		if err != nil {
			continue
		}
		if err := client.Remove(signer.PublicKey()); err != nil {
			n.logger.Warn("removing key from agent failed", "entry", entry.Title(), "error", err)
			continue
		}
		n.logger.Info("key removed from agent", "entry", entry.Title())
	}
	return nil
}

func (n *Notifier) connect() (agent.ExtendedAgent, func(), error) {
	conn, err := net.Dial("unix", n.socketPath)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to SSH agent at %s: %w", n.socketPath, err)
	}
	return agent.NewClient(conn), func() { conn.Close() }, nil
}

// keyEntries returns the entries of the key group, if the database has
// one. Recycled keys are not offered to the agent.
func keyEntries(database *vault.Database) []*vault.Entry {
	for _, group := range database.Root().Groups() {
		if group.Name() == keyGroupName {
			return group.Entries()
		}
	}
	return nil
}
