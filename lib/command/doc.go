// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines the session's command surface: the Command
// type, the registry that dispatches by name, and the built-in
// commands (open, close, ls, show, help, quit).
//
// Commands never own the vault. The session deposits the current
// database into the command's Database slot before Run and collects
// it afterwards, so a command like open can replace it and a command
// like close can retire it, with the session always holding the
// authoritative reference between commands.
package command
