// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package account implements the account lifecycle: signup, login, password
// changes and session-scoped access to the vault. Every operation answers
// with a model.Response whose message is translated and safe to show; raw
// storage or crypto errors never reach the caller.
package account

import (
	"errors"

	"github.com/google/uuid"

	"github.com/toeirei/vaultmaster/internal/db"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/logging"
	"github.com/toeirei/vaultmaster/internal/model"
	"github.com/toeirei/vaultmaster/internal/secret"
	"github.com/toeirei/vaultmaster/internal/security"
	"github.com/toeirei/vaultmaster/internal/validate"
	"github.com/toeirei/vaultmaster/internal/vault"
)

// Session holds the authenticated identity and the in-memory vault key for
// the lifetime of a login. The key exists nowhere else.
type Session struct {
	AccountID string
	Username  string
	key       security.Secret
}

// Key exposes the vault key bytes for crypto operations.
func (s *Session) Key() []byte { return []byte(s.key) }

// Service is the single entry point for account and vault operations. It is
// safe for use from one goroutine at a time, which matches the single-user
// shells that drive it.
type Service struct {
	limiter *rateLimiter
	session *Session
}

// NewService returns a Service with the default login rate limit.
func NewService() *Service {
	return &Service{limiter: newRateLimiter(limiterCapacity, limiterRefill)}
}

// Session returns the current session, or nil when nobody is logged in.
func (s *Service) Session() *Session { return s.session }

// Logout drops the current session and zeroes the vault key.
func (s *Service) Logout() {
	if s.session != nil {
		s.session.key.Zero()
		s.session = nil
	}
}

func respond(valid bool, messageID string) model.Response {
	return model.Response{Validity: valid, Message: i18n.T(messageID)}
}

// audit records an action; a failing audit write is logged but never turns a
// successful operation into a failed one.
func audit(action, details string) {
	if err := db.LogAction(action, details); err != nil {
		logging.Warnf("audit write failed: %v", err)
	}
}

// SignUp validates the candidate credentials and creates the account. The
// username check runs first; its verdict is returned verbatim so the caller
// sees the same message the validator would give.
func (s *Service) SignUp(username, password string) model.Response {
	if resp := validate.ValidateUsername(username); !resp.Validity {
		return resp
	}
	if resp := validate.ValidatePassword(password); !resp.Validity {
		return resp
	}
	name := validate.CanonicalUsername(username)

	salt, err := secret.GenerateSalt()
	if err != nil {
		logging.Errorf("signup: salt generation failed: %v", err)
		return respond(false, "account.internal_error")
	}
	hash, err := secret.Hash(password, salt)
	if err != nil {
		logging.Errorf("signup: hashing failed: %v", err)
		return respond(false, "account.internal_error")
	}
	keySalt, err := secret.GenerateSalt()
	if err != nil {
		logging.Errorf("signup: key salt generation failed: %v", err)
		return respond(false, "account.internal_error")
	}

	err = db.CreateAccount(uuid.NewString(), name, hash, vault.EncodeKeySalt(keySalt))
	if errors.Is(err, db.ErrDuplicate) {
		return respond(false, "account.duplicate")
	}
	if err != nil {
		logging.Errorf("signup: storage error: %v", err)
		return respond(false, "account.internal_error")
	}

	audit("SIGNUP", "username: "+name)
	return respond(true, "account.created")
}

// Login verifies the credentials and, on success, opens a session with the
// derived vault key. Unknown usernames and wrong passwords produce the same
// response so the answer does not reveal which accounts exist.
func (s *Service) Login(username, password string) model.Response {
	name := validate.CanonicalUsername(username)
	if !s.limiter.Allow(name) {
		return respond(false, "account.rate_limited")
	}

	acc, err := db.GetAccountByUsername(name)
	if errors.Is(err, db.ErrNotFound) {
		audit("LOGIN_FAIL", "username: "+name)
		return respond(false, "account.login_failed")
	}
	if err != nil {
		logging.Errorf("login: storage error: %v", err)
		return respond(false, "account.internal_error")
	}

	ok, err := secret.Verify(password, acc.PasswordHash)
	if err != nil {
		// A hash that cannot be parsed is corruption, not a wrong password.
		logging.Errorf("login: stored hash for %s unusable: %v", name, err)
		return respond(false, "account.internal_error")
	}
	if !ok {
		audit("LOGIN_FAIL", "username: "+name)
		return respond(false, "account.login_failed")
	}

	keySalt, err := vault.DecodeKeySalt(acc.KeySalt)
	if err != nil {
		logging.Errorf("login: key salt for %s unusable: %v", name, err)
		return respond(false, "account.internal_error")
	}

	s.Logout()
	s.session = &Session{
		AccountID: acc.ID,
		Username:  name,
		key:       vault.DeriveKey(password, keySalt),
	}
	audit("LOGIN_OK", "username: "+name)
	return respond(true, "account.login_ok")
}

// ChangePassword rotates the credential material: a new password hash, a new
// key salt and every vault entry re-encrypted under the new key, all applied
// in a single transaction. The old password is verified first and failures
// look exactly like a failed login.
func (s *Service) ChangePassword(username, oldPassword, newPassword string) model.Response {
	name := validate.CanonicalUsername(username)
	if !s.limiter.Allow(name) {
		return respond(false, "account.rate_limited")
	}

	acc, err := db.GetAccountByUsername(name)
	if errors.Is(err, db.ErrNotFound) {
		audit("LOGIN_FAIL", "username: "+name)
		return respond(false, "account.login_failed")
	}
	if err != nil {
		logging.Errorf("change password: storage error: %v", err)
		return respond(false, "account.internal_error")
	}

	ok, err := secret.Verify(oldPassword, acc.PasswordHash)
	if err != nil {
		logging.Errorf("change password: stored hash for %s unusable: %v", name, err)
		return respond(false, "account.internal_error")
	}
	if !ok {
		audit("LOGIN_FAIL", "username: "+name)
		return respond(false, "account.login_failed")
	}

	if resp := validate.ValidatePassword(newPassword); !resp.Validity {
		return resp
	}

	newSalt, err := secret.GenerateSalt()
	if err != nil {
		logging.Errorf("change password: salt generation failed: %v", err)
		return respond(false, "account.internal_error")
	}
	newHash, err := secret.Hash(newPassword, newSalt)
	if err != nil {
		logging.Errorf("change password: hashing failed: %v", err)
		return respond(false, "account.internal_error")
	}
	newKeySalt, err := secret.GenerateSalt()
	if err != nil {
		logging.Errorf("change password: key salt generation failed: %v", err)
		return respond(false, "account.internal_error")
	}

	oldKeySalt, err := vault.DecodeKeySalt(acc.KeySalt)
	if err != nil {
		logging.Errorf("change password: key salt for %s unusable: %v", name, err)
		return respond(false, "account.internal_error")
	}
	oldKey := vault.DeriveKey(oldPassword, oldKeySalt)
	defer oldKey.Zero()
	newKey := vault.DeriveKey(newPassword, newKeySalt)

	rotated, err := vault.Reencrypt(acc.ID, oldKey, newKey)
	if err != nil {
		logging.Errorf("change password: re-encryption failed for %s: %v", name, err)
		newKey.Zero()
		return respond(false, "account.internal_error")
	}
	if err := db.RotateAccountCredentials(name, newHash, vault.EncodeKeySalt(newKeySalt), rotated); err != nil {
		logging.Errorf("change password: rotation failed for %s: %v", name, err)
		newKey.Zero()
		return respond(false, "account.internal_error")
	}

	// Keep an open session for this account usable under the new key.
	if s.session != nil && s.session.AccountID == acc.ID {
		s.session.key.Zero()
		s.session.key = newKey
	} else {
		newKey.Zero()
	}

	audit("CHANGE_PASSWORD", "username: "+name)
	return respond(true, "account.password_changed")
}

// VaultPut stores a credential for the logged-in account.
func (s *Service) VaultPut(appName, appUsername, appSecret string) model.Response {
	if s.session == nil {
		return respond(false, "account.not_logged_in")
	}
	err := vault.Put(s.session.AccountID, s.session.Key(), appName, appUsername, appSecret)
	if errors.Is(err, db.ErrDuplicate) {
		return respond(false, "vault.entry_duplicate")
	}
	if err != nil {
		logging.Errorf("vault put: %v", err)
		return respond(false, "account.internal_error")
	}
	audit("VAULT_ADD", "app: "+appName)
	return respond(true, "vault.entry_saved")
}

// VaultUpdate replaces an existing credential for the logged-in account.
func (s *Service) VaultUpdate(appName, appUsername, appSecret string) model.Response {
	if s.session == nil {
		return respond(false, "account.not_logged_in")
	}
	err := vault.Update(s.session.AccountID, s.session.Key(), appName, appUsername, appSecret)
	if errors.Is(err, db.ErrNotFound) {
		return respond(false, "vault.entry_missing")
	}
	if err != nil {
		logging.Errorf("vault update: %v", err)
		return respond(false, "account.internal_error")
	}
	audit("VAULT_ADD", "app: "+appName)
	return respond(true, "vault.entry_saved")
}

// VaultEntries returns the decrypted credentials of the logged-in account.
func (s *Service) VaultEntries() ([]model.VaultEntry, model.Response) {
	if s.session == nil {
		return nil, respond(false, "account.not_logged_in")
	}
	entries, err := vault.Entries(s.session.AccountID, s.session.Key())
	if err != nil {
		logging.Errorf("vault list: %v", err)
		return nil, respond(false, "account.internal_error")
	}
	return entries, model.Response{Validity: true}
}

// VaultDelete removes a credential of the logged-in account by app name.
func (s *Service) VaultDelete(appName string) model.Response {
	if s.session == nil {
		return respond(false, "account.not_logged_in")
	}
	err := vault.Delete(s.session.AccountID, appName)
	if errors.Is(err, db.ErrNotFound) {
		return respond(false, "vault.entry_missing")
	}
	if err != nil {
		logging.Errorf("vault delete: %v", err)
		return respond(false, "account.internal_error")
	}
	audit("VAULT_DELETE", "app: "+appName)
	return respond(true, "vault.entry_deleted")
}
