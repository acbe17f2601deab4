// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package fdosecrets

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lockbox-foundation/lockbox/lib/config"
	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

var testClient = Client{Name: "gnome-keyring-query", PID: 4242}

type stubReader struct {
	pauses   int
	restores int
	closes   int
}

func (r *stubReader) Pause()   { r.pauses++ }
func (r *stubReader) Restore() { r.restores++ }
func (r *stubReader) Close()   { r.closes++ }

func newPrompter(input string, settings *config.Settings) (*PromptService, *bytes.Buffer) {
	var output bytes.Buffer
	terminal := linereader.NewTerminal(strings.NewReader(input), &output, -1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPromptService(terminal, settings, logger), &output
}

// testVault builds a database with three plain entries and one entry
// referencing Bank.
func testVault(t *testing.T) (*vault.Database, []*vault.Entry, *vault.Entry) {
	t.Helper()
	database := vault.New("personal")
	root := database.Root()
	bank, err := root.NewEntry("Bank", "alice", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	email, err := root.NewEntry("Email", "alice@example.org", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	token, err := root.NewEntry("Token", "", "tok-123")
	if err != nil {
		t.Fatal(err)
	}
	broker, err := root.NewEntry("Broker", "alice", bank.ReferenceToken())
	if err != nil {
		t.Fatal(err)
	}
	return database, []*vault.Entry{bank, email, token}, broker
}

func TestUserActionMatching(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"a\n", 0},
		{" ALLOW ALL \n", 0},
		{"Deny\n", 1},
		{"selected\n", 2},
		{"garbage\nd\n", 1},
		{"", actionCancelled},
		{"garbage\n", actionCancelled}, // stream ends after the bad answer
	}
	for _, test := range tests {
		p, output := newPrompter(test.input, config.Default())
		got := p.userAction("Choose action: %s",
			[]string{"[A]llow All", "[D]eny All", "Allow [S]elected"},
			[]string{"a|allow|allow all", "d|deny|deny all", "s|selected|allow selected"})
		if got != test.want {
			t.Errorf("userAction(%q) = %d, want %d", test.input, got, test.want)
		}
		if !strings.Contains(output.String(), "[A]llow All | [D]eny All | Allow [S]elected") {
			t.Errorf("available actions not shown: %q", output.String())
		}
	}
}

func TestUserActionReprompts(t *testing.T) {
	p, output := newPrompter("nonsense\nallow\n", config.Default())
	got := p.userAction("Choose action: %s", []string{"[A]llow"}, []string{"a|allow"})
	if got != 0 {
		t.Fatalf("userAction = %d, want 0", got)
	}
	if !strings.Contains(output.String(), "Unknown response: nonsense. Please provide: [A]llow") {
		t.Fatalf("reprompt missing: %q", output.String())
	}
}

func TestUnlockAllowAllOnce(t *testing.T) {
	_, entries, _ := testVault(t)
	p, output := newPrompter("a\nn\n", config.Default())

	decisions, forFuture, accepted := p.RequestEntriesUnlock(testClient, entries)
	if !accepted {
		t.Fatal("request not accepted")
	}
	for i, decision := range decisions {
		if decision != AllowedOnce {
			t.Errorf("decisions[%d] = %v, want allowed-once", i, decision)
		}
	}
	if forFuture != Undecided {
		t.Errorf("forFuture = %v, want undecided", forFuture)
	}
	if !strings.Contains(output.String(), "gnome-keyring-query (PID: 4242) is requesting access") {
		t.Errorf("client identity missing: %q", output.String())
	}
	if !strings.Contains(output.String(), "1. Bank (username: alice)") ||
		!strings.Contains(output.String(), "3. Token (username: )") {
		t.Errorf("entry listing not numbered: %q", output.String())
	}
}

func TestUnlockDenyAllRemembered(t *testing.T) {
	_, entries, _ := testVault(t)
	p, _ := newPrompter("d\ny\n", config.Default())

	decisions, forFuture, accepted := p.RequestEntriesUnlock(testClient, entries)
	if !accepted {
		t.Fatal("request not accepted")
	}
	for i, decision := range decisions {
		if decision != Denied {
			t.Errorf("decisions[%d] = %v, want denied", i, decision)
		}
	}
	if forFuture != Denied {
		t.Errorf("forFuture = %v, want denied", forFuture)
	}
}

func TestUnlockAllowSelected(t *testing.T) {
	_, entries, _ := testVault(t)
	p, _ := newPrompter("s\ny\nn\ny\nn\n", config.Default())

	decisions, forFuture, accepted := p.RequestEntriesUnlock(testClient, entries)
	if !accepted {
		t.Fatal("request not accepted")
	}
	want := []AuthDecision{AllowedOnce, Undecided, AllowedOnce}
	for i := range want {
		if decisions[i] != want[i] {
			t.Errorf("decisions[%d] = %v, want %v", i, decisions[i], want[i])
		}
	}
	if forFuture != Undecided {
		t.Errorf("forFuture = %v, want undecided", forFuture)
	}
}

func TestUnlockAllowSelectedRemembered(t *testing.T) {
	_, entries, _ := testVault(t)
	p, _ := newPrompter("s\ny\nn\ny\ny\n", config.Default())

	decisions, forFuture, accepted := p.RequestEntriesUnlock(testClient, entries)
	if !accepted {
		t.Fatal("request not accepted")
	}
	// Remembering promotes the allowed entries but never the
	// undecided one, and allow-selected is never remembered for
	// entries outside the request.
	want := []AuthDecision{Allowed, Undecided, Allowed}
	for i := range want {
		if decisions[i] != want[i] {
			t.Errorf("decisions[%d] = %v, want %v", i, decisions[i], want[i])
		}
	}
	if forFuture != Undecided {
		t.Errorf("forFuture = %v, want undecided", forFuture)
	}
}

func TestUnlockCancelled(t *testing.T) {
	_, entries, _ := testVault(t)

	// Cancel at the action prompt.
	p, _ := newPrompter("", config.Default())
	if _, _, accepted := p.RequestEntriesUnlock(testClient, entries); accepted {
		t.Fatal("accepted with no input")
	}

	// Cancel at the remember prompt.
	p, _ = newPrompter("a\n", config.Default())
	if _, _, accepted := p.RequestEntriesUnlock(testClient, entries); accepted {
		t.Fatal("accepted despite cancelled remember prompt")
	}

	// Cancel during per-entry selection.
	p, _ = newPrompter("s\ny\n", config.Default())
	if _, _, accepted := p.RequestEntriesUnlock(testClient, entries); accepted {
		t.Fatal("accepted despite cancelled selection")
	}
}

func TestUnlockPausesReader(t *testing.T) {
	_, entries, _ := testVault(t)
	p, _ := newPrompter("a\nn\n", config.Default())
	reader := &stubReader{}
	p.AttachReader(reader)

	p.RequestEntriesUnlock(testClient, entries)
	if reader.pauses != 1 || reader.restores != 1 {
		t.Fatalf("reader pause/restore = %d/%d, want 1/1", reader.pauses, reader.restores)
	}
}

func TestRemoveConfirmationDenied(t *testing.T) {
	database, entries, _ := testVault(t)
	p, output := newPrompter("d\n", config.Default())

	removed := p.RequestEntriesRemove(testClient, database.Name(), entries[:1], false)
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if database.Root().FindEntryByTitle("Bank") == nil {
		t.Fatal("entry removed despite denied confirmation")
	}
	if !strings.Contains(output.String(), `is requesting removal of the following entries from database "personal"`) {
		t.Errorf("confirmation prompt missing: %q", output.String())
	}
}

func TestRemoveConfirmationCancelled(t *testing.T) {
	database, entries, _ := testVault(t)
	p, _ := newPrompter("", config.Default())

	if removed := p.RequestEntriesRemove(testClient, database.Name(), entries[:1], false); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

func TestRemoveRecyclesEntries(t *testing.T) {
	database, entries, _ := testVault(t)
	p, _ := newPrompter("a\n", config.Default())

	removed := p.RequestEntriesRemove(testClient, database.Name(), entries[1:3], false)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	for _, entry := range entries[1:3] {
		if !database.IsRecycled(entry) {
			t.Errorf("entry %q not in recycle bin", entry.Title())
		}
	}
}

func TestRemoveSkipsConfirmationWhenDisabled(t *testing.T) {
	database, entries, _ := testVault(t)
	settings := config.Default()
	settings.ConfirmDeleteItems = false
	p, _ := newPrompter("", settings)

	// No prompts at all: the gate is off and recycling needs no
	// reference handling.
	if removed := p.RequestEntriesRemove(testClient, database.Name(), entries[1:3], false); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
}

func TestRemovePermanentOverwritesReferences(t *testing.T) {
	database, entries, broker := testVault(t)
	p, output := newPrompter("a\no\n", config.Default())

	removed := p.RequestEntriesRemove(testClient, database.Name(), entries[:1], true)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if database.Root().FindEntryByTitle("Bank") != nil {
		t.Fatal("Bank still present after permanent removal")
	}
	if broker.Value() != "hunter2" {
		t.Fatalf("broker value = %q, want the resolved secret", broker.Value())
	}
	if !strings.Contains(output.String(), `Entry "Bank" has 1 reference(s).`) {
		t.Errorf("reference warning missing: %q", output.String())
	}
	if !strings.Contains(output.String(), "permanent removal") {
		t.Errorf("permanent qualifier missing: %q", output.String())
	}
}

func TestRemovePermanentSkipKeepsEntry(t *testing.T) {
	database, entries, broker := testVault(t)
	p, _ := newPrompter("a\ns\n", config.Default())

	if removed := p.RequestEntriesRemove(testClient, database.Name(), entries[:1], true); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if database.Root().FindEntryByTitle("Bank") == nil {
		t.Fatal("Bank removed despite skip")
	}
	if broker.Value() == "hunter2" {
		t.Fatal("references were overwritten despite skip")
	}
}

func TestRemovePermanentDeleteAnywayLeavesReferencesDangling(t *testing.T) {
	database, entries, broker := testVault(t)
	p, _ := newPrompter("a\nd\n", config.Default())

	if removed := p.RequestEntriesRemove(testClient, database.Name(), entries[:1], true); removed != 1 {
		t.Fatal("entry not removed")
	}
	if database.Root().FindEntryByTitle("Bank") != nil {
		t.Fatal("Bank still present")
	}
	// The dangling reference now displays verbatim.
	if !strings.Contains(broker.ResolvedDisplayValue(), "{REF:") {
		t.Fatalf("broker value = %q, want dangling reference", broker.ResolvedDisplayValue())
	}
}

func TestRemoveCancelMidBatchReturnsPartialCount(t *testing.T) {
	database, entries, _ := testVault(t)
	// Email (no references) is processed first, then the reference
	// prompt for Bank hits end of input.
	batch := []*vault.Entry{entries[1], entries[0]}
	p, _ := newPrompter("a\n", config.Default())

	removed := p.RequestEntriesRemove(testClient, database.Name(), batch, true)
	if removed != 1 {
		t.Fatalf("removed = %d, want partial count 1", removed)
	}
	if database.Root().FindEntryByTitle("Email") != nil {
		t.Fatal("Email should have been removed before the cancel")
	}
	if database.Root().FindEntryByTitle("Bank") == nil {
		t.Fatal("Bank should have survived the cancel")
	}
}

func TestRemoveReferenceWithinBatchNotPrompted(t *testing.T) {
	database, entries, broker := testVault(t)
	settings := config.Default()
	settings.ConfirmDeleteItems = false
	p, _ := newPrompter("", settings)

	// Broker references Bank but is being removed too, so no
	// reference prompt is needed.
	removed := p.RequestEntriesRemove(testClient, database.Name(), []*vault.Entry{entries[0], broker}, true)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
}

func TestRemoveEmptyBatch(t *testing.T) {
	database, _, _ := testVault(t)
	p, output := newPrompter("", config.Default())
	if removed := p.RequestEntriesRemove(testClient, database.Name(), nil, false); removed != 0 {
		t.Fatal("removed entries from an empty batch")
	}
	if output.Len() != 0 {
		t.Fatalf("empty batch produced prompts: %q", output.String())
	}
}

func TestRegisterLookup(t *testing.T) {
	database, _, _ := testVault(t)
	p, _ := newPrompter("", config.Default())

	if err := p.RegisterDatabase("/tmp/personal.lbx", database); err != nil {
		t.Fatal(err)
	}
	if p.Database("/tmp/personal.lbx") != database {
		t.Fatal("registered database not found")
	}
	if err := p.UnregisterDatabase("/tmp/personal.lbx"); err != nil {
		t.Fatal(err)
	}
	if p.Database("/tmp/personal.lbx") != nil {
		t.Fatal("database still registered")
	}
	// Unregistering an unknown path is not an error.
	if err := p.UnregisterDatabase("/tmp/other.lbx"); err != nil {
		t.Fatal(err)
	}
}
