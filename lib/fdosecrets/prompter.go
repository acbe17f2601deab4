// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package fdosecrets

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lockbox-foundation/lockbox/lib/config"
	"github.com/lockbox-foundation/lockbox/lib/linereader"
	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// actionCancelled is returned by userAction when the input stream
// ends before the operator picks an action.
const actionCancelled = -1

// PromptService implements Service against the operator's terminal.
type PromptService struct {
	terminal  *linereader.Terminal
	reader    linereader.LineReader
	settings  *config.Settings
	logger    *slog.Logger
	databases map[string]*vault.Database
}

var _ Service = (*PromptService)(nil)

func NewPromptService(terminal *linereader.Terminal, settings *config.Settings, logger *slog.Logger) *PromptService {
	return &PromptService{
		terminal:  terminal,
		settings:  settings,
		logger:    logger,
		databases: make(map[string]*vault.Database),
	}
}

// AttachReader hands the service the session's line reader so prompts
// can pause it. Optional; without a reader the prompts run unguarded.
func (p *PromptService) AttachReader(reader linereader.LineReader) {
	p.reader = reader
}

// RegisterDatabase exposes an unlocked database under its canonical
// path.
func (p *PromptService) RegisterDatabase(path string, database *vault.Database) error {
	p.databases[path] = database
	p.logger.Info("database registered with secret service", "path", path)
	return nil
}

// UnregisterDatabase withdraws a database. Unknown paths are ignored;
// the caller unregisters defensively around database swaps.
func (p *PromptService) UnregisterDatabase(path string) error {
	delete(p.databases, path)
	p.logger.Info("database unregistered from secret service", "path", path)
	return nil
}

// Database returns the registered database for path, or nil.
func (p *PromptService) Database(path string) *vault.Database {
	return p.databases[path]
}

// RequestEntriesUnlock prompts the operator to authorize read access
// to entries. The first prompt picks a batch action (allow all, deny
// all, allow selected); allow-selected then asks per entry, and a "no"
// there leaves the entry Undecided rather than denied. A final prompt
// offers to remember the outcome, which promotes the per-request
// decisions to their persistent forms. Cancelling at any prompt
// rejects the whole request.
func (p *PromptService) RequestEntriesUnlock(client Client, entries []*vault.Entry) ([]AuthDecision, AuthDecision, bool) {
	guard := p.pauseReader()
	defer guard()

	app := client.Display()
	p.terminal.Printf("%s is requesting access to the following entries:\n", app)
	for i, entry := range entries {
		p.terminal.Printf("%d. %s (username: %s)\n", i+1, entry.Title(), entry.Username())
	}

	choice := p.userAction("Choose action: %s",
		[]string{"[A]llow All", "[D]eny All", "Allow [S]elected"},
		[]string{"a|allow|allow all", "d|deny|deny all", "s|selected|allow selected"})

	decisions := make([]AuthDecision, len(entries))
	var decision AuthDecision
	var actionLabel string
	allowSelected := false
	switch choice {
	case 0:
		decision = AllowedOnce
		actionLabel = "Allow All"
	case 1:
		decision = DeniedOnce
		actionLabel = "Deny All"
	case 2:
		decision = AllowedOnce
		actionLabel = "Allow Selected"
		allowSelected = true
	default:
		return decisions, Undecided, false
	}

	for i, entry := range entries {
		if allowSelected {
			answer := p.userAction(
				fmt.Sprintf("Allow %s access to %q (username: %s)? %%s", app, entry.Title(), entry.Username()),
				[]string{"[Y]es", "[N]o"},
				[]string{"y|yes", "n|no"})
			if answer == actionCancelled {
				return decisions, Undecided, false
			}
			if answer != 0 {
				// Declined entries stay Undecided: the client may ask
				// again later.
				continue
			}
		}
		decisions[i] = decision
	}

	var warning string
	if allowSelected {
		warning = "This will only concern entries selected above!"
	} else {
		warning = "WARNING: this will concern ALL entries, not only the ones listed above!"
	}

	forFuture := Undecided
	remember := p.userAction(
		fmt.Sprintf("Do you want to remember this action (%s) for all future requests from %s? %%s\n%s", actionLabel, app, warning),
		[]string{"[Y]es", "[N]o"},
		[]string{"y|yes", "n|no"})
	switch remember {
	case 0:
		switch {
		case allowSelected:
			decision = Allowed
		case choice == 0:
			decision = Allowed
			forFuture = Allowed
		case choice == 1:
			decision = Denied
			forFuture = Denied
		}
		for i := range decisions {
			if decisions[i] != Undecided {
				decisions[i] = decision
			}
		}
	case 1:
	default:
		return decisions, Undecided, false
	}

	return decisions, forFuture, true
}

// RequestEntriesRemove prompts the operator to authorize removal and
// performs it entry by entry. Permanent removal checks each entry for
// references from outside the batch and asks whether to overwrite
// them with values, skip the entry, or delete anyway. Cancelling
// mid-batch stops there; entries already processed stay removed, and
// the partial count is returned.
func (p *PromptService) RequestEntriesRemove(client Client, databaseName string, entries []*vault.Entry, permanent bool) int {
	if len(entries) == 0 {
		return 0
	}
	guard := p.pauseReader()
	defer guard()

	if p.settings.ConfirmDeleteItems && !p.confirmDeleteEntries(client, databaseName, entries, permanent) {
		return 0
	}

	removed := 0
	for _, entry := range entries {
		database := entry.Database()
		if database == nil {
			continue
		}
		if permanent {
			references := referencesOutsideBatch(entry, entries)
			if len(references) > 0 {
				p.terminal.Printf("Entry %q has %d reference(s).\n", entry.Title(), len(references))
				choice := p.userAction("Replace references to entry? %s",
					[]string{"[O]verwrite references with values", "[S]kip this entry", "[D]elete anyway"},
					[]string{"o|overwrite", "s|skip", "d|delete"})
				switch choice {
				case 0:
					for _, referrer := range references {
						if err := referrer.ReplaceReferencesWithValues(entry); err != nil {
							p.terminal.Printf("%v\n", err)
							p.logger.Warn("reference overwrite failed",
								"entry", referrer.Title(), "error", err)
						}
					}
				case 1:
					continue
				case 2:
				default:
					return removed
				}
			}
			if err := database.DeleteEntry(entry); err != nil {
				p.terminal.Printf("%v\n", err)
				continue
			}
		} else {
			if err := database.RecycleEntry(entry); err != nil {
				p.terminal.Printf("%v\n", err)
				continue
			}
		}
		removed++
	}
	return removed
}

// confirmDeleteEntries is the up-front gate on removal requests. Only
// an explicit Allow proceeds; Deny and a closed input stream both
// abort.
func (p *PromptService) confirmDeleteEntries(client Client, databaseName string, entries []*vault.Entry, permanent bool) bool {
	qualifier := ""
	if permanent {
		qualifier = "permanent "
	}
	p.terminal.Printf("%s is requesting %sremoval of the following entries from database %q:\n",
		client.Display(), qualifier, databaseName)
	for i, entry := range entries {
		p.terminal.Printf("\t%d. %s\n", i+1, entry.Title())
	}
	p.terminal.Print("\n")

	choice := p.userAction("Choose action: %s",
		[]string{"[A]llow", "[D]eny"},
		[]string{"a|allow", "d|deny"})
	return choice == 0
}

// userAction prints message (with the joined action labels substituted
// for %s) and reads responses until one matches an alias. Matching is
// case-insensitive and whitespace-tolerant; aliases for action i live
// in matches[i], separated by "|". Returns the matched index, or
// actionCancelled when input ends first.
func (p *PromptService) userAction(message string, actions, matches []string) int {
	available := strings.Join(actions, " | ")
	p.terminal.Printf(message+"\n", available)

	for {
		line, err := p.terminal.ReadLine()
		if err != nil && line == "" {
			return actionCancelled
		}
		clean := strings.ToLower(strings.TrimSpace(line))
		for i, patterns := range matches {
			for _, alias := range strings.Split(patterns, "|") {
				if clean == strings.TrimSpace(alias) {
					return i
				}
			}
		}
		p.terminal.Printf("Unknown response: %s. Please provide: %s\n", line, available)
	}
}

// pauseReader brackets a prompt sequence with the session reader
// paused. Returns the release func for defer; a no-op when no reader
// is attached.
func (p *PromptService) pauseReader() func() {
	if p.reader == nil {
		return func() {}
	}
	guard := linereader.NewGuard(p.reader)
	return guard.Release
}

// referencesOutsideBatch returns the entries referencing target,
// excluding those that are themselves being removed.
func referencesOutsideBatch(target *vault.Entry, batch []*vault.Entry) []*vault.Entry {
	references := target.Database().Root().ReferencesRecursive(target)
	if len(references) == 0 {
		return nil
	}
	inBatch := make(map[*vault.Entry]bool, len(batch))
	for _, entry := range batch {
		inBatch[entry] = true
	}
	var outside []*vault.Entry
	for _, referrer := range references {
		if !inBatch[referrer] {
			outside = append(outside, referrer)
		}
	}
	return outside
}
