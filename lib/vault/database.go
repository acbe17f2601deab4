// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"fmt"
	"path/filepath"
)

// recycleBinName is the reserved name of the trash group created on
// first use directly under the root.
const recycleBinName = "Recycle Bin"

// Database is the open secrets database: a named tree of groups plus
// the path it was loaded from. The session controller holds exactly
// one Database at a time and hands it to command handlers for the
// duration of their execution.
type Database struct {
	name       string
	filePath   string
	root       *Group
	recycleBin *Group
	released   bool
}

// New creates an empty in-memory database with the given metadata
// name. The file path is set by the store on Open/Save.
func New(name string) *Database {
	database := &Database{name: name}
	database.root = &Group{name: "Root", database: database}
	return database
}

// Root returns the root group.
func (d *Database) Root() *Group { return d.root }

// Name returns the metadata name, which may be empty.
func (d *Database) Name() string { return d.name }

// DisplayName returns the metadata name, falling back to the file
// name when the metadata name is empty. Used by the session prompt.
func (d *Database) DisplayName() string {
	if d.name != "" {
		return d.name
	}
	if d.filePath != "" {
		return filepath.Base(d.filePath)
	}
	return ""
}

// FilePath returns the path the database was opened from or last
// saved to. Empty for a purely in-memory database.
func (d *Database) FilePath() string { return d.filePath }

// CanonicalPath returns the absolute, symlink-resolved file path.
// This is the key under which external subsystems register the
// database, so two spellings of the same file never register twice.
func (d *Database) CanonicalPath() string {
	if d.filePath == "" {
		return ""
	}
	absolute, err := filepath.Abs(d.filePath)
	if err != nil {
		return d.filePath
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return absolute
	}
	return resolved
}

// RecycleBin returns the trash group, creating it on first use.
func (d *Database) RecycleBin() *Group {
	if d.recycleBin == nil {
		d.recycleBin = d.root.AddGroup(recycleBinName)
	}
	return d.recycleBin
}

// IsRecycled reports whether the entry currently lives in the recycle
// bin.
func (d *Database) IsRecycled(entry *Entry) bool {
	return d.recycleBin != nil && entry.group == d.recycleBin
}

// RecycleEntry moves an entry to the recycle bin. The value buffer is
// untouched — a recycled entry is recoverable.
func (d *Database) RecycleEntry(entry *Entry) error {
	if entry.group == nil || entry.group.database != d {
		return fmt.Errorf("vault: entry %q does not belong to this database", entry.Title())
	}
	bin := d.RecycleBin()
	if entry.group == bin {
		return nil
	}
	entry.group.removeEntry(entry)
	bin.attachEntry(entry)
	return nil
}

// DeleteEntry permanently destroys an entry: it is detached from the
// tree and its value buffer is zeroed and released. Irrecoverable.
func (d *Database) DeleteEntry(entry *Entry) error {
	if entry.group == nil || entry.group.database != d {
		return fmt.Errorf("vault: entry %q does not belong to this database", entry.Title())
	}
	entry.group.removeEntry(entry)
	entry.releaseSensitiveState()
	return nil
}

// ReleaseSensitiveState zeros and releases every entry value in the
// database, including the recycle bin. Called when the session
// terminates or the database is closed. The tree structure survives,
// but values are gone; further Value calls panic, which is the
// designed failure mode for use-after-release bugs.
func (d *Database) ReleaseSensitiveState() {
	if d.released {
		return
	}
	d.released = true
	d.root.walk(func(entry *Entry) { entry.releaseSensitiveState() })
}
