// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package fdosecrets

import (
	"fmt"

	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// Client identifies the external application behind a request, as
// reported by the transport.
type Client struct {
	Name string
	PID  int
}

// Display renders the client for operator-facing prompts.
func (c Client) Display() string {
	return fmt.Sprintf("%s (PID: %d)", c.Name, c.PID)
}

// Service is the full surface a secret-service transport drives: the
// database registration half used by the session, plus the
// authorization requests raised on behalf of external clients.
type Service interface {
	RegisterDatabase(path string, database *vault.Database) error
	UnregisterDatabase(path string) error

	// RequestEntriesUnlock asks the operator to authorize read access.
	// decisions is parallel to entries; forFuture is the remembered
	// decision for entries not listed, and accepted is false when the
	// operator cancelled (every decision is then void).
	RequestEntriesUnlock(client Client, entries []*vault.Entry) (decisions []AuthDecision, forFuture AuthDecision, accepted bool)

	// RequestEntriesRemove asks the operator to authorize removal and
	// performs it, returning how many entries were actually removed.
	RequestEntriesRemove(client Client, databaseName string, entries []*vault.Entry, permanent bool) int
}
