// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic CBOR encoding for vault
// payloads. All serialization in Lockbox goes through this package so
// that encoder configuration lives in exactly one place.
package codec
