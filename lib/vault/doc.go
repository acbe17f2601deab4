// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package vault implements the secrets database the session engine
// operates on: a tree of groups holding entries, a recycle bin, entry
// references, and an encrypted single-file store.
//
// Entry values live in mmap-backed secret buffers (lib/secret). A
// value may embed references of the form {REF:<id>} that resolve to
// another entry's value at display time; ReplaceReferencesWithValues
// rewrites such references to literal copies before the referenced
// entry is permanently deleted.
//
// The file store layers, inside out: deterministic CBOR of the tree,
// zstd or lz4 compression (tagged, so files remain readable if the
// default changes), a keyed BLAKE3 integrity checksum, and age
// scrypt-passphrase encryption.
package vault
