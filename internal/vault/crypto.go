// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault implements the encrypted credential store. Vault entry
// fields are sealed with AES-256-GCM under a key derived from the owning
// account's login password; nothing recoverable ever reaches storage, and
// the key itself lives only in memory for the lifetime of a session.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/toeirei/vaultmaster/internal/security"
	"golang.org/x/crypto/argon2"
)

// Key derivation parameters for argon2id. These are independent of the
// password-hash parameters; both may evolve separately.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32

	nonceLen = 12
)

// ErrCorruptEntry is returned when a stored ciphertext cannot be decrypted
// or decoded. It indicates data corruption (or a key mismatch, which for a
// consistent database amounts to the same defect) and is never coerced into
// an empty value.
var ErrCorruptEntry = errors.New("vault entry cannot be decrypted")

// DeriveKey derives the vault encryption key from the (verified) login
// password and the per-account key salt. The result never leaves process
// memory; the security.Secret wrapper keeps it out of logs and marshaling.
func DeriveKey(password string, keySalt []byte) security.Secret {
	return security.FromBytes(argon2.IDKey([]byte(password), keySalt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen))
}

// EncryptField seals one plaintext field under the given key and returns
// base64(nonce || ciphertext) for storage in a TEXT column. A fresh random
// nonce is generated per call.
func EncryptField(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to construct cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to construct GCM: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. Any decoding or authentication
// failure is reported as ErrCorruptEntry.
func DecryptField(encoded string, key []byte) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < nonceLen {
		return "", ErrCorruptEntry
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to construct cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to construct GCM: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, sealed[:nonceLen], sealed[nonceLen:], nil)
	if err != nil {
		return "", ErrCorruptEntry
	}
	return string(plaintext), nil
}
