// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"testing"
)

func TestNew_ZeroInitialized(t *testing.T) {
	buffer, err := New(48)
	if err != nil {
		t.Fatalf("New(48) failed: %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 48 {
		t.Errorf("expected length 48, got %d", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("expected zero at index %d, got %d", index, value)
		}
	}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero size")
	}
	if _, err := New(-4); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestNewFromBytes_ZerosSource(t *testing.T) {
	source := []byte("vault passphrase")
	original := string(source)

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != original {
		t.Errorf("expected %q, got %q", original, got)
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d was not zeroed: got %d", index, value)
		}
	}
}

func TestNewFromString(t *testing.T) {
	buffer, err := NewFromString("entry value")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "entry value" {
		t.Errorf("expected %q, got %q", "entry value", got)
	}
}

func TestClose_Idempotent(t *testing.T) {
	buffer, err := NewFromString("short-lived")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}

	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if !buffer.Closed() {
		t.Error("buffer should report closed")
	}
	if buffer.Len() != 0 {
		t.Errorf("closed buffer should report length 0, got %d", buffer.Len())
	}
}

func TestBytes_PanicsAfterClose(t *testing.T) {
	buffer, err := NewFromString("gone")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}
	buffer.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading closed buffer")
		}
	}()
	buffer.Bytes()
}

func TestZero(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	Zero(data)
	for index, value := range data {
		if value != 0 {
			t.Fatalf("byte %d not zeroed: got %d", index, value)
		}
	}
}
