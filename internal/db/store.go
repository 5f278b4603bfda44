// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/vaultmaster/internal/model"
)

// Store defines the interface for all database operations in Vaultmaster.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Account methods
	CreateAccount(id, username, passwordHash, keySalt string) error
	GetAccountByUsername(username string) (*model.Account, error)
	UpdatePasswordHash(username, newHash string) error
	// RotateAccountCredentials replaces the password hash, the vault key
	// salt and all vault entry ciphertexts for the account in a single
	// transaction. Used by password changes, where the vault key rotates
	// with the password.
	RotateAccountCredentials(username, newHash, newKeySalt string, reencrypted []model.VaultEntry) error

	// Vault methods. AppUsername/AppSecret arguments and results are
	// ciphertext; encryption happens above this layer.
	AddVaultEntry(ownerID, appName, appUsername, appSecret string) error
	UpdateVaultEntry(ownerID, appName, appUsername, appSecret string) error
	GetVaultEntries(ownerID string) ([]model.VaultEntry, error)
	DeleteVaultEntry(ownerID, appName string) error

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
}
