// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package validate

import (
	"bufio"
	"bytes"
	"embed"
	"strings"
	"sync"
)

// The wordlists ship inside the binary and are parsed exactly once per
// process. weak.txt and breachedpasswords.txt are matched exactly;
// profanity.txt is matched as a substring of the de-leeted username.
//
//go:embed wordlists/weak.txt wordlists/breachedpasswords.txt wordlists/profanity.txt
var wordlistFS embed.FS

var (
	loadOnce      sync.Once
	weakSet       map[string]struct{}
	breachedSet   map[string]struct{}
	profanityList []string
)

// loadWordlists parses the embedded lists into their lookup structures.
// Lines are trimmed; empty lines and '#' comments are skipped.
func loadWordlists() {
	weakSet = readSet("wordlists/weak.txt", false)
	breachedSet = readSet("wordlists/breachedpasswords.txt", false)

	seen := readSet("wordlists/profanity.txt", true)
	profanityList = make([]string, 0, len(seen))
	for w := range seen {
		profanityList = append(profanityList, w)
	}
}

// readSet reads one embedded list into a set. When fold is true entries are
// lowercased, for case-insensitive matching against canonical usernames.
func readSet(name string, fold bool) map[string]struct{} {
	out := make(map[string]struct{})
	data, err := wordlistFS.ReadFile(name)
	if err != nil {
		// Lists are embedded at compile time; a missing file means a broken
		// build, not a runtime condition we can recover from.
		panic("validate: missing embedded wordlist " + name)
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if fold {
			line = strings.ToLower(line)
		}
		out[line] = struct{}{}
	}
	return out
}

// isBlacklistedPassword reports whether the password appears verbatim in the
// weak or breached sets.
func isBlacklistedPassword(password string) bool {
	loadOnce.Do(loadWordlists)
	if _, ok := weakSet[password]; ok {
		return true
	}
	_, ok := breachedSet[password]
	return ok
}

// containsProfanity reports whether any lexicon word occurs in the given
// (canonical, de-leeted) username.
func containsProfanity(name string) bool {
	loadOnce.Do(loadWordlists)
	for _, w := range profanityList {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
