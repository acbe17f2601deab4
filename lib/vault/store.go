// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"github.com/zeebo/blake3"

	"github.com/lockbox-foundation/lockbox/lib/codec"
	"github.com/lockbox-foundation/lockbox/lib/secret"
)

// fileMagic opens every decrypted vault payload. A mismatch means the
// passphrase decrypted garbage or the file is not a Lockbox vault.
var fileMagic = []byte("LBX1")

// checksumKey is the BLAKE3 keyed-hash key for the payload integrity
// checksum. A fixed constant — the checksum detects corruption inside
// an authenticated envelope, it is not itself a secret. The bytes are
// the ASCII domain name zero-padded to 32, readable in hex dumps.
var checksumKey = [32]byte{
	'l', 'o', 'c', 'k', 'b', 'o', 'x', '.', 'v', 'a', 'u', 'l', 't', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// headerSize is the byte length of the decrypted payload header:
// magic (4) + compression tag (1) + uncompressed length (8) +
// checksum (32).
const headerSize = 4 + 1 + 8 + 32

// Serialized forms of the tree. Values pass through heap strings
// during save/load; the transient plaintext buffers are zeroed before
// returning.

type storedEntry struct {
	ID       string `cbor:"id"`
	Title    string `cbor:"title"`
	Username string `cbor:"username"`
	Value    string `cbor:"value"`
}

type storedGroup struct {
	Name    string        `cbor:"name"`
	Groups  []storedGroup `cbor:"groups,omitempty"`
	Entries []storedEntry `cbor:"entries,omitempty"`
}

type storedDatabase struct {
	Name string      `cbor:"name"`
	Root storedGroup `cbor:"root"`
}

// Save encrypts the database to path with the given passphrase. The
// payload is deterministic CBOR, compressed per tag, checksummed with
// keyed BLAKE3, and sealed with an age scrypt recipient.
func Save(database *Database, path string, passphrase *secret.Buffer, compression CompressionTag) error {
	serialized, err := codec.Marshal(serializeDatabase(database))
	if err != nil {
		return fmt.Errorf("vault: encoding tree: %w", err)
	}
	defer secret.Zero(serialized)

	compressed, actualTag, err := compressPayload(serialized, compression)
	if err != nil {
		return fmt.Errorf("vault: compressing payload: %w", err)
	}
	if actualTag != CompressionNone {
		defer secret.Zero(compressed)
	}

	var plaintext bytes.Buffer
	plaintext.Write(fileMagic)
	plaintext.WriteByte(byte(actualTag))
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(serialized)))
	plaintext.Write(length[:])
	plaintext.Write(payloadChecksum(serialized))
	plaintext.Write(compressed)
	defer secret.Zero(plaintext.Bytes())

	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return fmt.Errorf("vault: deriving file key: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("vault: creating %s: %w", path, err)
	}

	writer, err := age.Encrypt(file, recipient)
	if err != nil {
		file.Close()
		return fmt.Errorf("vault: starting encryption: %w", err)
	}
	if _, err := writer.Write(plaintext.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("vault: writing payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("vault: finalizing encryption: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("vault: closing %s: %w", path, err)
	}

	database.filePath = path
	return nil
}

// Open decrypts and rebuilds a database from path. A wrong passphrase
// surfaces as a decryption error; a payload that decrypts but fails
// the magic or checksum check is reported as corruption.
func Open(path string, passphrase *secret.Buffer) (*Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vault: opening %s: %w", path, err)
	}
	defer file.Close()

	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("vault: deriving file key: %w", err)
	}

	reader, err := age.Decrypt(file, identity)
	if err != nil {
		return nil, fmt.Errorf("vault: decrypting %s: %w", path, err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("vault: reading %s: %w", path, err)
	}
	defer secret.Zero(plaintext)

	if len(plaintext) < headerSize || !bytes.Equal(plaintext[:4], fileMagic) {
		return nil, fmt.Errorf("vault: %s is not a lockbox vault", path)
	}

	tag := CompressionTag(plaintext[4])
	uncompressedLength := binary.BigEndian.Uint64(plaintext[5:13])
	expectedChecksum := plaintext[13:45]
	compressed := plaintext[headerSize:]

	serialized, err := decompressPayload(compressed, tag, int(uncompressedLength))
	if err != nil {
		return nil, fmt.Errorf("vault: decompressing %s: %w", path, err)
	}
	if tag != CompressionNone {
		defer secret.Zero(serialized)
	}

	if !bytes.Equal(payloadChecksum(serialized), expectedChecksum) {
		return nil, fmt.Errorf("vault: %s failed integrity check", path)
	}

	var stored storedDatabase
	if err := codec.Unmarshal(serialized, &stored); err != nil {
		return nil, fmt.Errorf("vault: decoding %s: %w", path, err)
	}

	database, err := rebuildDatabase(&stored)
	if err != nil {
		return nil, fmt.Errorf("vault: rebuilding %s: %w", path, err)
	}
	database.filePath = path
	return database, nil
}

// payloadChecksum computes the keyed BLAKE3 digest of the serialized
// (uncompressed) payload.
func payloadChecksum(serialized []byte) []byte {
	hasher, err := blake3.NewKeyed(checksumKey[:])
	if err != nil {
		panic("vault: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(serialized)
	return hasher.Sum(nil)
}

func serializeDatabase(database *Database) storedDatabase {
	return storedDatabase{
		Name: database.name,
		Root: serializeGroup(database.root),
	}
}

func serializeGroup(group *Group) storedGroup {
	stored := storedGroup{Name: group.name}
	for _, entry := range group.entries {
		stored.Entries = append(stored.Entries, storedEntry{
			ID:       entry.id,
			Title:    entry.title,
			Username: entry.username,
			Value:    entry.Value(),
		})
	}
	for _, child := range group.groups {
		stored.Groups = append(stored.Groups, serializeGroup(child))
	}
	return stored
}

func rebuildDatabase(stored *storedDatabase) (*Database, error) {
	database := New(stored.Name)
	database.root.name = stored.Root.Name
	if err := rebuildGroup(database.root, &stored.Root); err != nil {
		return nil, err
	}
	// The recycle bin round-trips as an ordinary group; reclaim it by
	// its reserved name so recycled entries stay recoverable.
	for _, child := range database.root.groups {
		if child.name == recycleBinName {
			database.recycleBin = child
			break
		}
	}
	return database, nil
}

func rebuildGroup(group *Group, stored *storedGroup) error {
	for _, item := range stored.Entries {
		entry := &Entry{
			id:       item.ID,
			title:    item.Title,
			username: item.Username,
		}
		if err := entry.SetValue(item.Value); err != nil {
			return err
		}
		group.attachEntry(entry)
	}
	for index := range stored.Groups {
		child := group.AddGroup(stored.Groups[index].Name)
		if err := rebuildGroup(child, &stored.Groups[index]); err != nil {
			return err
		}
	}
	return nil
}
