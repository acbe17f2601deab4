// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"testing"

	"github.com/lockbox-foundation/lockbox/lib/vault"
)

func TestComputePrompt(t *testing.T) {
	personal := vault.New("personal")
	anonymous := vault.New("")

	tests := []struct {
		name          string
		database      *vault.Database
		secretService bool
		keyAgent      bool
		want          string
	}{
		{"no database", nil, false, false, "> "},
		{"database only", personal, false, false, "personal> "},
		{"both subsystems", personal, true, true, "[FS] personal> "},
		{"secret service only", personal, true, false, "[F] personal> "},
		{"key agent only", personal, false, true, "[S] personal> "},
		{"subsystems without database", nil, true, true, "[FS] > "},
		{"unnamed in-memory database", anonymous, false, false, "> "},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ComputePrompt(test.database, test.secretService, test.keyAgent)
			if got != test.want {
				t.Errorf("ComputePrompt = %q, want %q", got, test.want)
			}
		})
	}
}
