// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package fdosecrets

// AuthDecision is the outcome of an authorization prompt for one
// entry. The Once variants apply to the current request only; the
// plain variants are remembered for future requests from the same
// client.
type AuthDecision int

const (
	Undecided AuthDecision = iota
	AllowedOnce
	DeniedOnce
	Allowed
	Denied
)

func (d AuthDecision) String() string {
	switch d {
	case Undecided:
		return "undecided"
	case AllowedOnce:
		return "allowed-once"
	case DeniedOnce:
		return "denied-once"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "invalid"
}
