// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive material:
// entry values, vault passphrases, and anything else that must not
// outlive its use.
//
// Buffer allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock (preventing swap), and marks it
// excluded from core dumps via madvise(MADV_DONTDUMP). On Close, the
// memory is zeroed, unlocked, and unmapped.
//
// Because the memory is outside the Go heap, the garbage collector
// never sees it and cannot copy or relocate it. This is what lets the
// database's release-sensitive-state step make a hard guarantee: once
// every buffer is closed, no copy of an entry value remains in memory.
package secret
