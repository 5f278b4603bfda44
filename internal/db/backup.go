// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/vaultmaster/internal/model"
)

// ExportDataForBackup retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
// Vault entry ciphertexts are exported as stored; a backup never contains
// decrypted secrets.
func (s *BunStore) ExportDataForBackup() (*model.BackupData, error) {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	backup := &model.BackupData{}

	var ams []AccountModel
	if err := tx.NewSelect().Model(&ams).Order("username ASC").Scan(ctx); err != nil {
		return nil, err
	}
	for _, a := range ams {
		backup.Accounts = append(backup.Accounts, accountModelToModel(a))
	}

	var ems []VaultEntryModel
	if err := tx.NewSelect().Model(&ems).Order("owner_id ASC", "app_name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	for _, e := range ems {
		backup.VaultEntries = append(backup.VaultEntries, vaultEntryModelToModel(e))
	}

	var lms []AuditLogModel
	if err := tx.NewSelect().Model(&lms).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	for _, l := range lms {
		backup.AuditLogEntries = append(backup.AuditLogEntries, auditLogModelToModel(l))
	}

	return backup, tx.Commit()
}

// ImportDataFromBackup restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure atomicity.
func (s *BunStore) ImportDataFromBackup(backup *model.BackupData) error {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Bun requires a WHERE clause on deletes; raw statements wipe the tables.
	for _, table := range []string{"vault_entries", "audit_log", "accounts"} {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM "+table); err != nil {
			return MapDBError(err)
		}
	}

	for _, a := range backup.Accounts {
		am := AccountModel{
			ID:           a.ID,
			Username:     a.Username,
			PasswordHash: a.PasswordHash,
			KeySalt:      a.KeySalt,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		}
		if _, err := tx.NewInsert().Model(&am).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, e := range backup.VaultEntries {
		em := VaultEntryModel{
			OwnerID:     e.OwnerID,
			AppName:     e.AppName,
			AppUsername: e.AppUsername,
			AppSecret:   e.AppSecret,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
		if _, err := tx.NewInsert().Model(&em).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, l := range backup.AuditLogEntries {
		lm := AuditLogModel{
			Timestamp: l.Timestamp,
			Username:  l.Username,
			Action:    l.Action,
			Details:   l.Details,
		}
		if _, err := tx.NewInsert().Model(&lm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	return tx.Commit()
}
