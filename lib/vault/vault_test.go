// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"testing"
)

func buildTestDatabase(t *testing.T) (*Database, *Entry, *Entry) {
	t.Helper()

	database := New("personal")
	accounts := database.Root().AddGroup("Accounts")

	bank, err := accounts.NewEntry("Bank", "alice", "hunter2")
	if err != nil {
		t.Fatalf("creating bank entry: %v", err)
	}
	broker, err := accounts.NewEntry("Broker", "alice", bank.ReferenceToken())
	if err != nil {
		t.Fatalf("creating broker entry: %v", err)
	}
	return database, bank, broker
}

func TestResolvedDisplayValue(t *testing.T) {
	_, bank, broker := buildTestDatabase(t)

	if got := broker.Value(); got == bank.Value() {
		t.Fatal("raw value should hold the reference, not the literal")
	}
	if got := broker.ResolvedDisplayValue(); got != "hunter2" {
		t.Errorf("resolved value = %q, want %q", got, "hunter2")
	}
}

func TestResolvedDisplayValue_ChainAndDangling(t *testing.T) {
	database, bank, broker := buildTestDatabase(t)

	// A second-level reference resolves through the chain.
	indirect, err := database.Root().NewEntry("Indirect", "", broker.ReferenceToken())
	if err != nil {
		t.Fatalf("creating indirect entry: %v", err)
	}
	if got := indirect.ResolvedDisplayValue(); got != "hunter2" {
		t.Errorf("chained resolution = %q, want %q", got, "hunter2")
	}

	// A dangling reference stays verbatim.
	token := bank.ReferenceToken()
	if err := database.DeleteEntry(bank); err != nil {
		t.Fatalf("deleting bank: %v", err)
	}
	if got := broker.ResolvedDisplayValue(); got != token {
		t.Errorf("dangling reference = %q, want verbatim %q", got, token)
	}
}

func TestReferencesRecursive(t *testing.T) {
	database, bank, broker := buildTestDatabase(t)

	// An unrelated entry in a sibling subtree must not appear.
	other := database.Root().AddGroup("Other")
	if _, err := other.NewEntry("Plain", "bob", "nothing"); err != nil {
		t.Fatalf("creating plain entry: %v", err)
	}

	references := database.Root().ReferencesRecursive(bank)
	if len(references) != 1 || references[0] != broker {
		t.Fatalf("expected exactly the broker entry, got %d references", len(references))
	}

	if got := database.Root().ReferencesRecursive(broker); len(got) != 0 {
		t.Errorf("broker should have no referrers, got %d", len(got))
	}
}

func TestReplaceReferencesWithValues(t *testing.T) {
	_, bank, broker := buildTestDatabase(t)

	if err := broker.ReplaceReferencesWithValues(bank); err != nil {
		t.Fatalf("ReplaceReferencesWithValues failed: %v", err)
	}
	if got := broker.Value(); got != "hunter2" {
		t.Errorf("value after replacement = %q, want literal %q", got, "hunter2")
	}
	if broker.ReferencesEntry(bank) {
		t.Error("broker should no longer reference bank")
	}
}

func TestRecycleEntry(t *testing.T) {
	database, bank, _ := buildTestDatabase(t)

	if err := database.RecycleEntry(bank); err != nil {
		t.Fatalf("RecycleEntry failed: %v", err)
	}
	if !database.IsRecycled(bank) {
		t.Error("bank should be in the recycle bin")
	}
	// The value survives a recycle — it is recoverable.
	if got := bank.Value(); got != "hunter2" {
		t.Errorf("recycled value = %q, want %q", got, "hunter2")
	}
	// Recycling twice is a no-op.
	if err := database.RecycleEntry(bank); err != nil {
		t.Fatalf("second RecycleEntry failed: %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	database, bank, _ := buildTestDatabase(t)

	if err := database.DeleteEntry(bank); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if found := database.Root().FindEntryByID(bank.ID()); found != nil {
		t.Error("deleted entry still findable in the tree")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading a destroyed value")
		}
	}()
	bank.Value()
}

func TestReleaseSensitiveState(t *testing.T) {
	database, bank, _ := buildTestDatabase(t)

	database.ReleaseSensitiveState()
	// Idempotent.
	database.ReleaseSensitiveState()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading a released value")
		}
	}()
	bank.Value()
}

func TestDisplayName(t *testing.T) {
	named := New("personal")
	if got := named.DisplayName(); got != "personal" {
		t.Errorf("DisplayName = %q, want %q", got, "personal")
	}

	unnamed := New("")
	unnamed.filePath = "/tmp/secrets.lbx"
	if got := unnamed.DisplayName(); got != "secrets.lbx" {
		t.Errorf("DisplayName = %q, want file name fallback", got)
	}
}
