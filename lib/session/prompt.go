// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"strings"

	"github.com/lockbox-foundation/lockbox/lib/vault"
)

// ComputePrompt renders the session prompt: an optional bracketed
// subsystem indicator (F for the secret service frontend, S for the
// SSH agent notifier), the database's display name, and "> ".
//
//	[FS] personal>
//	[F] secrets.lbx>
//	>
func ComputePrompt(database *vault.Database, withSecretService, withKeyAgent bool) string {
	var prompt strings.Builder
	if withSecretService || withKeyAgent {
		prompt.WriteString("[")
		if withSecretService {
			prompt.WriteString("F")
		}
		if withKeyAgent {
			prompt.WriteString("S")
		}
		prompt.WriteString("] ")
	}
	if database != nil {
		prompt.WriteString(database.DisplayName())
	}
	prompt.WriteString("> ")
	return prompt.String()
}
