// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package validate implements the username and password policy checks.
// All checks are pure over their inputs plus the embedded wordlists; they
// never touch storage and can be called in any order, any number of times.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinPasswordLen and MaxPasswordLen bound the password length in
	// Unicode code points, not bytes.
	MinPasswordLen = 8
	MaxPasswordLen = 64
)

// usernamePattern is checked against the canonical (NFKC + case-folded) form.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var folder = cases.Fold()

// CanonicalUsername returns the canonical comparable form of a username:
// NFKC normalization followed by Unicode case folding. Storage and lookups
// use this form so that visually equivalent spellings collapse to one name.
func CanonicalUsername(raw string) string {
	return folder.String(norm.NFKC.String(raw))
}

// leetReplacer undoes the usual digit-for-letter substitutions before the
// profanity check so that e.g. "a55" and "ass" are treated the same.
var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"6", "g",
	"7", "t",
	"8", "b",
	"9", "g",
	"@", "a",
	"$", "s",
	"!", "i",
	"+", "t",
)

// deleet maps leet-speak spellings back to their letter form.
func deleet(s string) string {
	return leetReplacer.Replace(s)
}

// ValidateUsername classifies a candidate username. The input is normalized
// and case-folded first; the canonical form must match [a-zA-Z0-9_]+ in its
// entirety and must not contain any word from the obscenity lexicon, with
// leet-speak substitutions undone so digits cannot smuggle a blocked word past
// the filter.
func ValidateUsername(raw string) model.Response {
	if !utf8.ValidString(raw) {
		return model.Response{Validity: false, Message: i18n.T("validate.username_charset")}
	}
	name := CanonicalUsername(raw)
	if !usernamePattern.MatchString(name) {
		return model.Response{Validity: false, Message: i18n.T("validate.username_charset")}
	}
	if containsProfanity(deleet(name)) {
		return model.Response{Validity: false, Message: i18n.T("validate.username_profanity")}
	}
	return model.Response{Validity: true, Message: i18n.T("validate.username_ok")}
}

// ValidatePassword classifies a candidate password: length within
// [MinPasswordLen, MaxPasswordLen] code points, and no exact match in the
// weak or breached password sets. Composition rules (character classes,
// expiry, hints) are deliberately not enforced.
func ValidatePassword(raw string) model.Response {
	if !utf8.ValidString(raw) {
		return model.Response{Validity: false, Message: i18n.T("validate.password_encoding")}
	}
	n := utf8.RuneCountInString(raw)
	if n < MinPasswordLen || n > MaxPasswordLen {
		return model.Response{Validity: false, Message: i18n.T("validate.password_length")}
	}
	if isBlacklistedPassword(raw) {
		return model.Response{Validity: false, Message: i18n.T("validate.password_blacklisted")}
	}
	return model.Response{Validity: true, Message: i18n.T("validate.password_ok")}
}

// ValidateAccount is the precondition gate for mutating account operations:
// both the username and the password must pass their checks.
func ValidateAccount(username, password string) bool {
	return ValidateUsername(username).Validity && ValidatePassword(password).Validity
}
