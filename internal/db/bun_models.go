// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/toeirei/vaultmaster/internal/model"
	"github.com/uptrace/bun"
)

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            string    `bun:"id,pk"`
	Username      string    `bun:"username"`
	PasswordHash  string    `bun:"password_hash"`
	KeySalt       string    `bun:"key_salt"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// VaultEntryModel maps the `vault_entries` table. The app_username and
// app_secret columns only ever hold ciphertext.
type VaultEntryModel struct {
	bun.BaseModel `bun:"table:vault_entries"`
	ID            int       `bun:"id,pk,autoincrement"`
	OwnerID       string    `bun:"owner_id"`
	AppName       string    `bun:"app_name"`
	AppUsername   string    `bun:"app_username"`
	AppSecret     string    `bun:"app_secret"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func accountModelToModel(a AccountModel) model.Account {
	return model.Account{
		ID:           a.ID,
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		KeySalt:      a.KeySalt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func vaultEntryModelToModel(e VaultEntryModel) model.VaultEntry {
	return model.VaultEntry{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		AppName:     e.AppName,
		AppUsername: e.AppUsername,
		AppSecret:   e.AppSecret,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func auditLogModelToModel(l AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{
		ID:        l.ID,
		Timestamp: l.Timestamp,
		Username:  l.Username,
		Action:    l.Action,
		Details:   l.Details,
	}
}
