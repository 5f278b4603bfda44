// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toeirei/vaultmaster/internal/db"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
	_ "modernc.org/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	i18n.Init("en")
	dsn := "file:test_account_" + t.Name() + "?mode=memory&cache=shared"
	require.NoError(t, db.InitDB("sqlite", dsn))
	return NewService()
}

func TestSignUpAndLogin(t *testing.T) {
	svc := newTestService(t)

	resp := svc.SignUp("bob_99", "Tr0ub4dor&3")
	require.True(t, resp.Validity, "signup refused: %s", resp.Message)
	assert.Equal(t, i18n.T("account.created"), resp.Message)

	resp = svc.Login("bob_99", "Tr0ub4dor&3")
	require.True(t, resp.Validity, "login refused: %s", resp.Message)
	require.NotNil(t, svc.Session())
	assert.Equal(t, "bob_99", svc.Session().Username)
	assert.Len(t, svc.Session().Key(), 32)

	acc, err := db.GetAccountByUsername("bob_99")
	require.NoError(t, err)
	assert.NotContains(t, acc.PasswordHash, "Tr0ub4dor&3")
}

func TestSignUp_RejectsBadInput(t *testing.T) {
	svc := newTestService(t)

	// Username verdict comes first, even when both fields are bad.
	resp := svc.SignUp("bad name!", "short")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("validate.username_charset"), resp.Message)

	resp = svc.SignUp("bob_99", "password1")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("validate.password_blacklisted"), resp.Message)

	resp = svc.SignUp("bob_99", "short")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("validate.password_length"), resp.Message)

	// Nothing was persisted.
	_, err := db.GetAccountByUsername("bob_99")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSignUp_DuplicateLeavesOriginalIntact(t *testing.T) {
	svc := newTestService(t)

	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)
	before, err := db.GetAccountByUsername("bob_99")
	require.NoError(t, err)

	resp := svc.SignUp("bob_99", "aDifferentPass4!")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.duplicate"), resp.Message)

	after, err := db.GetAccountByUsername("bob_99")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	// The canonical form collides too.
	resp = svc.SignUp("BOB_99", "aDifferentPass4!")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.duplicate"), resp.Message)
}

func TestLogin_FailureDoesNotRevealAccounts(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)

	wrongPass := svc.Login("bob_99", "not the password")
	noSuchUser := svc.Login("nobody_here", "not the password")

	assert.False(t, wrongPass.Validity)
	assert.False(t, noSuchUser.Validity)
	assert.Equal(t, wrongPass.Message, noSuchUser.Message, "failure messages must be indistinguishable")
	assert.Nil(t, svc.Session())
}

func TestLogin_CanonicalUsername(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)

	// Fullwidth and uppercase spellings resolve to the same account.
	resp := svc.Login("ＢＯＢ_99", "Tr0ub4dor&3")
	require.True(t, resp.Validity, "canonical login refused: %s", resp.Message)
	assert.Equal(t, "bob_99", svc.Session().Username)
}

func TestLogin_MalformedHashIsInternalError(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, db.CreateAccount("id-1", "mallory", "not-a-phc-string", "c2FsdA"))

	resp := svc.Login("mallory", "whatever1")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.internal_error"), resp.Message)
	assert.NotEqual(t, i18n.T("account.login_failed"), resp.Message)
}

func TestLogin_RateLimited(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)

	now := time.Now()
	svc.limiter.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		resp := svc.Login("bob_99", "wrong password")
		assert.Equal(t, i18n.T("account.login_failed"), resp.Message)
	}
	resp := svc.Login("bob_99", "Tr0ub4dor&3")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.rate_limited"), resp.Message)

	// After the bucket refills the correct password works again.
	now = now.Add(time.Minute)
	resp = svc.Login("bob_99", "Tr0ub4dor&3")
	assert.True(t, resp.Validity, "login refused after refill: %s", resp.Message)
}

func TestVaultLifecycle(t *testing.T) {
	svc := newTestService(t)

	// Vault access requires a session.
	resp := svc.VaultPut("github", "bob@example.com", "hunter2")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.not_logged_in"), resp.Message)

	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)
	require.True(t, svc.Login("bob_99", "Tr0ub4dor&3").Validity)

	require.True(t, svc.VaultPut("github", "bob@example.com", "hunter2").Validity)
	require.True(t, svc.VaultPut("aws", "root", "s3cr3t").Validity)

	resp = svc.VaultPut("github", "x", "y")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("vault.entry_duplicate"), resp.Message)

	entries, resp := svc.VaultEntries()
	require.True(t, resp.Validity)
	require.Len(t, entries, 2)
	assert.Equal(t, "aws", entries[0].AppName)
	assert.Equal(t, "hunter2", entries[1].AppSecret)

	require.True(t, svc.VaultUpdate("github", "bob@example.com", "hunter3").Validity)
	entries, _ = svc.VaultEntries()
	assert.Equal(t, "hunter3", entries[1].AppSecret)

	resp = svc.VaultDelete("aws")
	require.True(t, resp.Validity)
	resp = svc.VaultDelete("aws")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("vault.entry_missing"), resp.Message)

	svc.Logout()
	_, resp = svc.VaultEntries()
	assert.False(t, resp.Validity)
}

func TestChangePassword_ReencryptsVault(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)
	require.True(t, svc.Login("bob_99", "Tr0ub4dor&3").Validity)
	require.True(t, svc.VaultPut("github", "bob@example.com", "hunter2").Validity)

	keySaltBefore := mustAccount(t, "bob_99").KeySalt

	resp := svc.ChangePassword("bob_99", "Tr0ub4dor&3", "correct horse battery")
	require.True(t, resp.Validity, "change refused: %s", resp.Message)

	acc := mustAccount(t, "bob_99")
	assert.NotEqual(t, keySaltBefore, acc.KeySalt, "key salt must rotate with the password")

	// The still-open session keeps working under the new key.
	entries, listResp := svc.VaultEntries()
	require.True(t, listResp.Validity, listResp.Message)
	require.Len(t, entries, 1)
	assert.Equal(t, "hunter2", entries[0].AppSecret)

	// Old password is dead, new one opens the vault.
	svc.Logout()
	assert.False(t, svc.Login("bob_99", "Tr0ub4dor&3").Validity)
	require.True(t, svc.Login("bob_99", "correct horse battery").Validity)
	entries, listResp = svc.VaultEntries()
	require.True(t, listResp.Validity, listResp.Message)
	assert.Equal(t, "hunter2", entries[0].AppSecret)
}

func TestChangePassword_Failures(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)

	resp := svc.ChangePassword("bob_99", "wrong old pass", "correct horse battery")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("account.login_failed"), resp.Message)

	resp = svc.ChangePassword("nobody_here", "whatever1", "correct horse battery")
	assert.Equal(t, i18n.T("account.login_failed"), resp.Message)

	resp = svc.ChangePassword("bob_99", "Tr0ub4dor&3", "password1")
	assert.False(t, resp.Validity)
	assert.Equal(t, i18n.T("validate.password_blacklisted"), resp.Message)

	// Old password still valid after every refused change.
	assert.True(t, svc.Login("bob_99", "Tr0ub4dor&3").Validity)
}

func TestAuditTrail(t *testing.T) {
	svc := newTestService(t)
	require.True(t, svc.SignUp("bob_99", "Tr0ub4dor&3").Validity)
	svc.Login("bob_99", "wrong")
	require.True(t, svc.Login("bob_99", "Tr0ub4dor&3").Validity)

	logs, err := db.GetAllAuditLogEntries()
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// Most recent first.
	assert.Equal(t, "LOGIN_OK", logs[0].Action)
	assert.Equal(t, "LOGIN_FAIL", logs[1].Action)
	assert.Equal(t, "SIGNUP", logs[2].Action)
}

func mustAccount(t *testing.T, username string) *model.Account {
	t.Helper()
	acc, err := db.GetAccountByUsername(username)
	require.NoError(t, err)
	return acc
}
