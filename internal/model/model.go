// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the central data structures shared between the
// storage layer, the account service and the UI shells.
package model

import "time"

// Account is a registered identity. The ID is a random 128-bit UUID assigned
// at signup and never changes afterwards. PasswordHash is an opaque PHC
// string produced by the secret hasher; the plaintext password is never
// stored anywhere.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	// KeySalt is the per-account salt for deriving the vault encryption key
	// from the (verified) login password. It is independent of the salt
	// embedded in PasswordHash.
	KeySalt   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VaultEntry is a third-party credential stored on the user's behalf.
// AppUsername and AppSecret hold ciphertext when the entry comes from or
// goes to storage; the vault service is the only place that sees plaintext.
type VaultEntry struct {
	ID          int
	OwnerID     string
	AppName     string
	AppUsername string
	AppSecret   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Response is the uniform result contract for validations and account
// operations. Message is user-facing and must never contain passwords,
// hashes or raw storage errors.
type Response struct {
	Validity bool
	Message  string
}

// AuditLogEntry represents a single audit trail event.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}

// BackupData aggregates everything needed for a full export of the database.
// Vault entries are carried as stored, i.e. still encrypted.
type BackupData struct {
	Accounts        []Account       `json:"accounts"`
	VaultEntries    []VaultEntry    `json:"vault_entries"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}
