// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"encoding/base64"
	"fmt"

	"github.com/toeirei/vaultmaster/internal/db"
	"github.com/toeirei/vaultmaster/internal/model"
)

// EncodeKeySalt renders a raw key salt for storage in the accounts table.
func EncodeKeySalt(salt []byte) string {
	return base64.RawStdEncoding.EncodeToString(salt)
}

// DecodeKeySalt parses a stored key salt back into raw bytes.
func DecodeKeySalt(encoded string) ([]byte, error) {
	salt, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid key salt: %w", err)
	}
	return salt, nil
}

// Put encrypts a credential and stores it for the given owner. Both the
// third-party username and the secret are sealed; only the app name stays
// readable so entries can be listed and addressed without a key.
func Put(ownerID string, key []byte, appName, appUsername, appSecret string) error {
	ctUser, err := EncryptField(appUsername, key)
	if err != nil {
		return err
	}
	ctSecret, err := EncryptField(appSecret, key)
	if err != nil {
		return err
	}
	return db.AddVaultEntry(ownerID, appName, ctUser, ctSecret)
}

// Update re-encrypts and replaces an existing credential.
func Update(ownerID string, key []byte, appName, appUsername, appSecret string) error {
	ctUser, err := EncryptField(appUsername, key)
	if err != nil {
		return err
	}
	ctSecret, err := EncryptField(appSecret, key)
	if err != nil {
		return err
	}
	return db.UpdateVaultEntry(ownerID, appName, ctUser, ctSecret)
}

// Entries returns the owner's credentials with all fields decrypted, sorted
// by app name. A single undecryptable row fails the whole listing; silently
// returning blank credentials would mask corruption.
func Entries(ownerID string, key []byte) ([]model.VaultEntry, error) {
	rows, err := db.GetVaultEntries(ownerID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		user, err := DecryptField(rows[i].AppUsername, key)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", rows[i].AppName, err)
		}
		secret, err := DecryptField(rows[i].AppSecret, key)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", rows[i].AppName, err)
		}
		rows[i].AppUsername = user
		rows[i].AppSecret = secret
	}
	return rows, nil
}

// Delete removes a credential by app name.
func Delete(ownerID, appName string) error {
	return db.DeleteVaultEntry(ownerID, appName)
}

// Reencrypt decrypts every entry of the owner with oldKey and seals it again
// with newKey. It returns the new ciphertext rows without writing them; the
// caller persists them together with the rotated account credentials in one
// transaction.
func Reencrypt(ownerID string, oldKey, newKey []byte) ([]model.VaultEntry, error) {
	rows, err := db.GetVaultEntries(ownerID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		user, err := DecryptField(rows[i].AppUsername, oldKey)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", rows[i].AppName, err)
		}
		secret, err := DecryptField(rows[i].AppSecret, oldKey)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", rows[i].AppName, err)
		}
		if rows[i].AppUsername, err = EncryptField(user, newKey); err != nil {
			return nil, err
		}
		if rows[i].AppSecret, err = EncryptField(secret, newKey); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
