// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/toeirei/vaultmaster/internal/model"
	"github.com/uptrace/bun"
)

// BunStore is the consolidated bun-backed Store implementation used for all
// supported database engines. Engine differences are absorbed by the bun
// dialect chosen in createBunDB and by the per-engine migrations.
type BunStore struct {
	bun *bun.DB
}

// BunDB returns the underlying *bun.DB for advanced callers.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// CreateAccount inserts a new account row. The unique index on username
// turns races between concurrent signups into ErrDuplicate.
func (s *BunStore) CreateAccount(id, username, passwordHash, keySalt string) error {
	ctx := context.Background()
	now := time.Now().UTC()
	_, err := s.bun.NewInsert().Model(&AccountModel{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		KeySalt:      keySalt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Exec(ctx)
	return MapDBError(err)
}

// GetAccountByUsername retrieves an account by its unique username.
func (s *BunStore) GetAccountByUsername(username string) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := s.bun.NewSelect().Model(&am).Where("username = ?", username).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	acc := accountModelToModel(am)
	return &acc, nil
}

// UpdatePasswordHash replaces the stored password hash and bumps updated_at.
func (s *BunStore) UpdatePasswordHash(username, newHash string) error {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*AccountModel)(nil)).
		Set("password_hash = ?", newHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return errIfNoRows(res)
}

// RotateAccountCredentials updates the password hash, the vault key salt and
// every vault entry ciphertext in one transaction, so a crash mid-change can
// never leave entries encrypted under a key the new password cannot derive.
func (s *BunStore) RotateAccountCredentials(username, newHash, newKeySalt string, reencrypted []model.VaultEntry) error {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.NewUpdate().Model((*AccountModel)(nil)).
		Set("password_hash = ?", newHash).
		Set("key_salt = ?", newKeySalt).
		Set("updated_at = ?", now).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if err := errIfNoRows(res); err != nil {
		return err
	}

	for _, e := range reencrypted {
		res, err := tx.NewUpdate().Model((*VaultEntryModel)(nil)).
			Set("app_username = ?", e.AppUsername).
			Set("app_secret = ?", e.AppSecret).
			Set("updated_at = ?", now).
			Where("owner_id = ? AND app_name = ?", e.OwnerID, e.AppName).
			Exec(ctx)
		if err != nil {
			return MapDBError(err)
		}
		if err := errIfNoRows(res); err != nil {
			return fmt.Errorf("vault entry %q vanished during rotation: %w", e.AppName, err)
		}
	}

	return tx.Commit()
}

// AddVaultEntry inserts a new vault entry. The (owner_id, app_name) unique
// constraint maps duplicates to ErrDuplicate.
func (s *BunStore) AddVaultEntry(ownerID, appName, appUsername, appSecret string) error {
	ctx := context.Background()
	now := time.Now().UTC()
	_, err := s.bun.NewInsert().Model(&VaultEntryModel{
		OwnerID:     ownerID,
		AppName:     appName,
		AppUsername: appUsername,
		AppSecret:   appSecret,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Exec(ctx)
	return MapDBError(err)
}

// UpdateVaultEntry replaces the ciphertexts of an existing entry.
func (s *BunStore) UpdateVaultEntry(ownerID, appName, appUsername, appSecret string) error {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*VaultEntryModel)(nil)).
		Set("app_username = ?", appUsername).
		Set("app_secret = ?", appSecret).
		Set("updated_at = ?", time.Now().UTC()).
		Where("owner_id = ? AND app_name = ?", ownerID, appName).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return errIfNoRows(res)
}

// GetVaultEntries retrieves all entries owned by the given account id.
func (s *BunStore) GetVaultEntries(ownerID string) ([]model.VaultEntry, error) {
	ctx := context.Background()
	var ems []VaultEntryModel
	err := s.bun.NewSelect().Model(&ems).
		Where("owner_id = ?", ownerID).
		Order("app_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.VaultEntry, 0, len(ems))
	for _, e := range ems {
		out = append(out, vaultEntryModelToModel(e))
	}
	return out, nil
}

// DeleteVaultEntry removes an entry by owner and app name.
func (s *BunStore) DeleteVaultEntry(ownerID, appName string) error {
	ctx := context.Background()
	res, err := s.bun.NewDelete().Model((*VaultEntryModel)(nil)).
		Where("owner_id = ? AND app_name = ?", ownerID, appName).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return errIfNoRows(res)
}

// GetAllAuditLogEntries retrieves all entries from the audit log, most recent first.
func (s *BunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var lms []AuditLogModel
	err := s.bun.NewSelect().Model(&lms).Order("id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(lms))
	for _, l := range lms {
		out = append(out, auditLogModelToModel(l))
	}
	return out, nil
}

// LogAction records an audit trail event. Details must never contain
// credential material; callers pass usernames and app names only.
func (s *BunStore) LogAction(action string, details string) error {
	ctx := context.Background()
	_, err := s.bun.NewInsert().Model(&AuditLogModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Username:  "local",
		Action:    action,
		Details:   details,
	}).Exec(ctx)
	return err
}

// errIfNoRows converts a zero-rows-affected result into ErrNotFound.
func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
