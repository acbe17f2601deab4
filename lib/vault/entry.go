// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/lockbox-foundation/lockbox/lib/secret"
)

// referencePattern matches {REF:<id>} placeholders inside entry
// values. IDs are 32 lowercase hex characters.
var referencePattern = regexp.MustCompile(`\{REF:([0-9a-f]{32})\}`)

// maxReferenceDepth bounds placeholder resolution so reference cycles
// terminate instead of recursing forever.
const maxReferenceDepth = 10

// Entry is a single secret record: a title, a username, and a value
// held in protected memory. Entries belong to exactly one group.
type Entry struct {
	id       string
	title    string
	username string
	value    *secret.Buffer
	group    *Group
}

func newEntryID() string {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		// crypto/rand failure means the platform RNG is broken;
		// nothing sensible can run in that state.
		panic("vault: reading random entry id: " + err.Error())
	}
	return hex.EncodeToString(raw[:])
}

// ID returns the entry's stable identity, used by references.
func (e *Entry) ID() string { return e.id }

// Title returns the entry title.
func (e *Entry) Title() string { return e.title }

// Username returns the entry username.
func (e *Entry) Username() string { return e.username }

// Group returns the group the entry currently belongs to, or nil if
// the entry has been removed from the tree.
func (e *Entry) Group() *Group { return e.group }

// Database returns the database the entry belongs to, or nil if the
// entry is detached.
func (e *Entry) Database() *Database {
	if e.group == nil {
		return nil
	}
	return e.group.database
}

// Value returns the raw entry value, with references unresolved.
// Panics if the database's sensitive state has been released.
func (e *Entry) Value() string {
	if e.value == nil {
		return ""
	}
	return e.value.String()
}

// SetValue replaces the entry value, releasing the previous buffer.
func (e *Entry) SetValue(value string) error {
	var buffer *secret.Buffer
	if value != "" {
		var err error
		buffer, err = secret.NewFromString(value)
		if err != nil {
			return fmt.Errorf("vault: storing entry value: %w", err)
		}
	}
	if e.value != nil {
		e.value.Close()
	}
	e.value = buffer
	return nil
}

// ResolvedDisplayValue returns the entry value with {REF:<id>}
// placeholders replaced by the referenced entries' values, resolved
// recursively up to a fixed depth. Unresolvable references are left
// verbatim so the operator can see the dangling id.
func (e *Entry) ResolvedDisplayValue() string {
	database := e.Database()
	value := e.Value()
	if database == nil {
		return value
	}

	for depth := 0; depth < maxReferenceDepth; depth++ {
		replaced := referencePattern.ReplaceAllStringFunc(value, func(match string) string {
			id := referencePattern.FindStringSubmatch(match)[1]
			target := database.Root().FindEntryByID(id)
			if target == nil || target == e {
				return match
			}
			return target.Value()
		})
		if replaced == value {
			break
		}
		value = replaced
	}
	return value
}

// ReferencesEntry reports whether this entry's value contains a
// reference to the target entry.
func (e *Entry) ReferencesEntry(target *Entry) bool {
	if e.value == nil || target == nil {
		return false
	}
	return strings.Contains(e.Value(), referenceToken(target))
}

// ReplaceReferencesWithValues rewrites every reference to source in
// this entry's value with a literal copy of source's value. Called
// before source is permanently deleted so dependent entries keep
// working.
func (e *Entry) ReplaceReferencesWithValues(source *Entry) error {
	if e.value == nil {
		return nil
	}
	current := e.Value()
	rewritten := strings.ReplaceAll(current, referenceToken(source), source.Value())
	if rewritten == current {
		return nil
	}
	return e.SetValue(rewritten)
}

// releaseSensitiveState closes the value buffer. The entry remains in
// the tree but its value is unrecoverable.
func (e *Entry) releaseSensitiveState() {
	if e.value != nil {
		e.value.Close()
	}
}

// referenceToken builds the placeholder text for an entry, e.g. for
// inserting into another entry's value.
func referenceToken(target *Entry) string {
	return "{REF:" + target.id + "}"
}

// ReferenceToken returns the placeholder other entries embed to
// reference this entry's value.
func (e *Entry) ReferenceToken() string {
	return referenceToken(e)
}
