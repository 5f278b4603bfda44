// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package validate

import (
	"strings"
	"testing"
)

func TestValidateUsername_Charset(t *testing.T) {
	bad := []string{
		"",
		"with space",
		"hyphen-ated",
		"dots.are.bad",
		"ümlaut",
		"emoji🔑",
		"semi;colon",
		"slash/name",
	}
	for _, u := range bad {
		if resp := ValidateUsername(u); resp.Validity {
			t.Errorf("ValidateUsername(%q) = accepted, want rejected", u)
		}
	}

	good := []string{"alice", "bob_99", "X", "under_score_", "UPPER", "a1b2c3"}
	for _, u := range good {
		if resp := ValidateUsername(u); !resp.Validity {
			t.Errorf("ValidateUsername(%q) = rejected (%s), want accepted", u, resp.Message)
		}
	}
}

func TestValidateUsername_NormalizationCollapses(t *testing.T) {
	// The fullwidth form normalizes (NFKC) to plain ASCII and must be accepted.
	if resp := ValidateUsername("ｂｏｂ"); !resp.Validity {
		t.Errorf("fullwidth username rejected: %s", resp.Message)
	}
	if got := CanonicalUsername("ＡＬＩＣＥ"); got != "alice" {
		t.Errorf("CanonicalUsername = %q, want %q", got, "alice")
	}
}

func TestValidateUsername_Profanity(t *testing.T) {
	blocked := []string{
		"shithead",
		"SHITHEAD",
		"sh1thead",
		"b1tch_queen",
		"fuck3r",
		"w4nker",
	}
	for _, u := range blocked {
		if resp := ValidateUsername(u); resp.Validity {
			t.Errorf("ValidateUsername(%q) = accepted, want profanity rejection", u)
		}
	}

	// Substring matching must not swallow innocent names.
	for _, u := range []string{"bassplayer", "password_fan", "classic_hits"} {
		if resp := ValidateUsername(u); !resp.Validity {
			t.Errorf("ValidateUsername(%q) = rejected (%s), want accepted", u, resp.Message)
		}
	}
}

func TestValidateUsername_NonUTF8(t *testing.T) {
	if resp := ValidateUsername(string([]byte{0xff, 0xfe})); resp.Validity {
		t.Error("non-UTF8 username accepted")
	}
}

func TestValidatePassword_Length(t *testing.T) {
	if resp := ValidatePassword("short7!"); resp.Validity {
		t.Error("7-char password accepted")
	}
	if resp := ValidatePassword(strings.Repeat("x", 65)); resp.Validity {
		t.Error("65-char password accepted")
	}
	if resp := ValidatePassword(strings.Repeat("x", 8)); !resp.Validity {
		t.Error("8-char password rejected")
	}
	if resp := ValidatePassword(strings.Repeat("x", 64)); !resp.Validity {
		t.Error("64-char password rejected")
	}
}

func TestValidatePassword_UnicodeLength(t *testing.T) {
	// Eight runes, eleven bytes: valid by code-point count.
	pw := "päßwörte"
	if resp := ValidatePassword(pw); !resp.Validity {
		t.Errorf("8-rune multi-byte password rejected: %s", resp.Message)
	}
}

func TestValidatePassword_Blacklists(t *testing.T) {
	for _, pw := range []string{"password1", "qwertyuiop", "iloveyou1", "basketball"} {
		if resp := ValidatePassword(pw); resp.Validity {
			t.Errorf("blacklisted password %q accepted", pw)
		}
	}
	if resp := ValidatePassword("Tr0ub4dor&3"); !resp.Validity {
		t.Errorf("strong password rejected: %s", resp.Message)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	for _, in := range []string{"alice", "sh1thead", "not valid"} {
		a, b := ValidateUsername(in), ValidateUsername(in)
		if a != b {
			t.Errorf("ValidateUsername(%q) not idempotent: %v vs %v", in, a, b)
		}
	}
	for _, in := range []string{"password1", "Tr0ub4dor&3", "tiny"} {
		a, b := ValidatePassword(in), ValidatePassword(in)
		if a != b {
			t.Errorf("ValidatePassword(%q) not idempotent: %v vs %v", in, a, b)
		}
	}
}

func TestValidateAccount(t *testing.T) {
	if !ValidateAccount("bob_99", "Tr0ub4dor&3") {
		t.Error("valid account rejected")
	}
	if ValidateAccount("bad name", "Tr0ub4dor&3") {
		t.Error("invalid username accepted")
	}
	if ValidateAccount("bob_99", "password1") {
		t.Error("blacklisted password accepted")
	}
}
