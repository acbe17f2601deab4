// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package vault

// Group is a node in the database tree: a name, child groups, and
// entries.
type Group struct {
	name     string
	database *Database
	parent   *Group
	groups   []*Group
	entries  []*Entry
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Groups returns the direct child groups.
func (g *Group) Groups() []*Group { return g.groups }

// Entries returns the direct child entries.
func (g *Group) Entries() []*Entry { return g.entries }

// AddGroup creates a child group.
func (g *Group) AddGroup(name string) *Group {
	child := &Group{
		name:     name,
		database: g.database,
		parent:   g,
	}
	g.groups = append(g.groups, child)
	return child
}

// NewEntry creates an entry in this group. The value is copied into
// protected memory.
func (g *Group) NewEntry(title, username, value string) (*Entry, error) {
	entry := &Entry{
		id:       newEntryID(),
		title:    title,
		username: username,
		group:    g,
	}
	if err := entry.SetValue(value); err != nil {
		return nil, err
	}
	g.entries = append(g.entries, entry)
	return entry, nil
}

// attachEntry re-homes an entry into this group. Used by the recycle
// bin move and by the file store when rebuilding a tree.
func (g *Group) attachEntry(entry *Entry) {
	entry.group = g
	g.entries = append(g.entries, entry)
}

// removeEntry detaches an entry from this group without touching its
// value buffer.
func (g *Group) removeEntry(entry *Entry) bool {
	for index, candidate := range g.entries {
		if candidate == entry {
			g.entries = append(g.entries[:index], g.entries[index+1:]...)
			entry.group = nil
			return true
		}
	}
	return false
}

// walk visits every entry under the group, depth first.
func (g *Group) walk(visit func(*Entry)) {
	for _, entry := range g.entries {
		visit(entry)
	}
	for _, child := range g.groups {
		child.walk(visit)
	}
}

// EntriesRecursive returns every entry under the group, depth first.
func (g *Group) EntriesRecursive() []*Entry {
	var entries []*Entry
	g.walk(func(entry *Entry) { entries = append(entries, entry) })
	return entries
}

// FindEntryByID finds an entry anywhere under the group by id.
func (g *Group) FindEntryByID(id string) *Entry {
	var found *Entry
	g.walk(func(entry *Entry) {
		if found == nil && entry.id == id {
			found = entry
		}
	})
	return found
}

// FindEntryByTitle finds the first entry anywhere under the group with
// the given title.
func (g *Group) FindEntryByTitle(title string) *Entry {
	var found *Entry
	g.walk(func(entry *Entry) {
		if found == nil && entry.title == title {
			found = entry
		}
	})
	return found
}

// ReferencesRecursive returns every entry anywhere under the group
// whose value references the target entry. The target itself is never
// included. Order is the tree's depth-first order, so prompts show
// references in a stable sequence.
func (g *Group) ReferencesRecursive(target *Entry) []*Entry {
	var references []*Entry
	g.walk(func(entry *Entry) {
		if entry != target && entry.ReferencesEntry(target) {
			references = append(references, entry)
		}
	})
	return references
}
