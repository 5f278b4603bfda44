// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package secret implements the password hashing and verification pipeline:
// argon2id over the peppered password, encoded as a PHC string that carries
// its own salt and cost parameters.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/vaultmaster/buildvars"
	"golang.org/x/crypto/argon2"
)

// SaltLen is the length in bytes of a freshly generated salt.
const SaltLen = 16

// Cost parameters for argon2id. Changing these only affects new hashes;
// Verify always honors the parameters encoded in the stored string.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// ErrMalformedHash is returned when a stored hash does not parse as a
// supported PHC string. A hash in this state indicates data corruption and
// must not be silently coerced into a failed login.
var ErrMalformedHash = errors.New("malformed password hash")

// GenerateSalt returns SaltLen cryptographically secure random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// pepper returns the build-time pepper as raw bytes. The pepper is appended
// to the password bytes as-is before hashing; it never appears in the
// encoded hash, in storage, or in any message.
func pepper() []byte {
	return []byte(buildvars.Pepper)
}

// Hash derives an argon2id digest of the peppered password using the given
// salt and returns the PHC-encoded string
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<digest>
//
// The salt passed in is the salt that ends up in the encoding; callers that
// generate a salt for persistence can rely on it being the one used.
func Hash(password string, salt []byte) (string, error) {
	if len(salt) == 0 {
		return "", errors.New("empty salt")
	}
	peppered := append([]byte(password), pepper()...)
	digest := argon2.IDKey(peppered, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString(salt), b64.EncodeToString(digest)), nil
}

// Verify re-derives the digest for the candidate password using the salt and
// cost parameters embedded in the encoded hash and compares in constant
// time. It returns ErrMalformedHash when the stored string is not a
// supported PHC encoding.
func Verify(password, encoded string) (bool, error) {
	salt, digest, memory, time, threads, err := decode(encoded)
	if err != nil {
		return false, err
	}
	peppered := append([]byte(password), pepper()...)
	candidate := argon2.IDKey(peppered, salt, time, memory, threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

// decode parses a PHC argon2id string into its salt, digest and parameters.
func decode(encoded string) (salt, digest []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if memory == 0 || time == 0 || threads == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	b64 := base64.RawStdEncoding
	if salt, err = b64.DecodeString(parts[4]); err != nil || len(salt) == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if digest, err = b64.DecodeString(parts[5]); err != nil || len(digest) == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	return salt, digest, memory, time, threads, nil
}
