// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"
	"testing"

	"github.com/toeirei/vaultmaster/internal/db"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) {
	t.Helper()
	dsn := "file:test_vault_" + t.Name() + "?mode=memory&cache=shared"
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
}

func testKey(seed byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = seed
	}
	return key
}

func TestEncryptDecryptField_RoundTrip(t *testing.T) {
	key := testKey(1)

	ct, err := EncryptField("hunter2", key)
	if err != nil {
		t.Fatalf("EncryptField failed: %v", err)
	}
	if ct == "hunter2" {
		t.Fatal("ciphertext equals plaintext")
	}

	pt, err := DecryptField(ct, key)
	if err != nil {
		t.Fatalf("DecryptField failed: %v", err)
	}
	if pt != "hunter2" {
		t.Errorf("round trip = %q, want %q", pt, "hunter2")
	}
}

func TestEncryptField_FreshNoncePerCall(t *testing.T) {
	key := testKey(1)

	ct1, _ := EncryptField("same input", key)
	ct2, _ := EncryptField("same input", key)
	if ct1 == ct2 {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecryptField_WrongKey(t *testing.T) {
	ct, _ := EncryptField("hunter2", testKey(1))

	if _, err := DecryptField(ct, testKey(2)); !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("decrypt with wrong key: err = %v, want ErrCorruptEntry", err)
	}
}

func TestDecryptField_Garbage(t *testing.T) {
	key := testKey(1)
	for _, bad := range []string{"", "AAAA", "not base64 at all!!!"} {
		if _, err := DecryptField(bad, key); !errors.Is(err, ErrCorruptEntry) {
			t.Errorf("DecryptField(%q): err = %v, want ErrCorruptEntry", bad, err)
		}
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey("correct horse", salt)
	k2 := DeriveKey("correct horse", salt)
	if string(k1.Bytes()) != string(k2.Bytes()) {
		t.Error("same password and salt derived different keys")
	}
	if len(k1.Bytes()) != kdfKeyLen {
		t.Errorf("key length = %d, want %d", len(k1.Bytes()), kdfKeyLen)
	}

	k3 := DeriveKey("correct horse", []byte("fedcba9876543210"))
	if string(k1.Bytes()) == string(k3.Bytes()) {
		t.Error("different salts derived the same key")
	}
}

func TestKeySalt_EncodeDecode(t *testing.T) {
	salt := []byte{0, 1, 2, 254, 255}
	decoded, err := DecodeKeySalt(EncodeKeySalt(salt))
	if err != nil {
		t.Fatalf("DecodeKeySalt failed: %v", err)
	}
	if string(decoded) != string(salt) {
		t.Errorf("round trip = %v, want %v", decoded, salt)
	}

	if _, err := DecodeKeySalt("%%%"); err == nil {
		t.Error("decoding garbage succeeded, want error")
	}
}

func TestPutEntriesDelete(t *testing.T) {
	newTestDB(t)
	key := testKey(1)

	if err := db.CreateAccount("owner-1", "alice", "hash", "salt"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := Put("owner-1", key, "github", "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := Put("owner-1", key, "aws", "root", "s3cr3t"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := Put("owner-1", key, "github", "x", "y"); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("duplicate Put: err = %v, want ErrDuplicate", err)
	}

	// Nothing recoverable at rest.
	raw, err := db.GetVaultEntries("owner-1")
	if err != nil {
		t.Fatalf("GetVaultEntries failed: %v", err)
	}
	for _, e := range raw {
		if e.AppUsername == "alice@example.com" || e.AppSecret == "hunter2" {
			t.Errorf("plaintext stored for %s: %+v", e.AppName, e)
		}
	}

	entries, err := Entries("owner-1", key)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].AppName != "aws" || entries[0].AppUsername != "root" || entries[0].AppSecret != "s3cr3t" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].AppName != "github" || entries[1].AppSecret != "hunter2" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}

	if err := Delete("owner-1", "aws"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	entries, _ = Entries("owner-1", key)
	if len(entries) != 1 {
		t.Errorf("got %d entries after delete, want 1", len(entries))
	}
}

func TestEntries_WrongKeyFailsLoudly(t *testing.T) {
	newTestDB(t)

	if err := db.CreateAccount("owner-1", "alice", "hash", "salt"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := Put("owner-1", testKey(1), "github", "alice", "hunter2"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := Entries("owner-1", testKey(2)); !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("Entries with wrong key: err = %v, want ErrCorruptEntry", err)
	}
}

func TestUpdate(t *testing.T) {
	newTestDB(t)
	key := testKey(1)

	if err := db.CreateAccount("owner-1", "alice", "hash", "salt"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := Put("owner-1", key, "github", "alice", "old-secret"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := Update("owner-1", key, "github", "alice", "new-secret"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := Update("owner-1", key, "missing", "x", "y"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Update of missing entry: err = %v, want ErrNotFound", err)
	}

	entries, err := Entries("owner-1", key)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if entries[0].AppSecret != "new-secret" {
		t.Errorf("secret = %q, want %q", entries[0].AppSecret, "new-secret")
	}
}

func TestReencrypt(t *testing.T) {
	newTestDB(t)
	oldKey, newKey := testKey(1), testKey(2)

	if err := db.CreateAccount("owner-1", "alice", "hash", "salt"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	for _, app := range []string{"github", "aws"} {
		if err := Put("owner-1", oldKey, app, "alice", "secret-"+app); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	rotated, err := Reencrypt("owner-1", oldKey, newKey)
	if err != nil {
		t.Fatalf("Reencrypt failed: %v", err)
	}
	if len(rotated) != 2 {
		t.Fatalf("got %d rotated rows, want 2", len(rotated))
	}

	// Returned rows are ciphertext under the new key, not yet persisted.
	for _, row := range rotated {
		pt, err := DecryptField(row.AppSecret, newKey)
		if err != nil {
			t.Fatalf("rotated row for %s not decryptable with new key: %v", row.AppName, err)
		}
		if pt != "secret-"+row.AppName {
			t.Errorf("rotated secret for %s = %q", row.AppName, pt)
		}
	}

	// Storage still holds the old ciphertext until the caller commits.
	if _, err := Entries("owner-1", oldKey); err != nil {
		t.Errorf("storage changed before commit: %v", err)
	}
}
