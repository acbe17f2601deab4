// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/lockbox-foundation/lockbox/lib/vault"
)

func newSaveCommand() *Command {
	return &Command{
		Name:    "save",
		Summary: "encrypt the current database back to its file",
		Usage:   "save",
		Run:     runSave,
	}
}

// runSave re-encrypts the database to the file it was opened from,
// using the configured payload compression. The passphrase is asked
// again: the session never retains it after open.
func runSave(cmd *Command, env *Environment, args []string) error {
	if cmd.Database == nil {
		return ErrNoDatabase
	}
	path := cmd.Database.FilePath()
	if path == "" {
		return fmt.Errorf("the database has no file path; it was never saved")
	}

	compression, err := vault.ParseCompressionTag(env.Settings.Compression)
	if err != nil {
		return err
	}
	passphrase, err := promptPassphrase(env, fmt.Sprintf("Enter password to encrypt %s: ", path))
	if err != nil {
		return err
	}
	defer passphrase.Close()

	if err := vault.Save(cmd.Database, path, passphrase, compression); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
