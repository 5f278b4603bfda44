// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Version is set at link time via `-ldflags -X github.com/toeirei/vaultmaster/buildvars.Version=...`.
// It will be empty for local or development builds.
var Version string

// Pepper is the build-time secret mixed into every password hash. Release
// builds override it at link time via
// `-ldflags -X github.com/toeirei/vaultmaster/buildvars.Pepper=...`.
// The value must never be logged, persisted, or echoed in any message.
var Pepper = "vaultmaster-dev-pepper-not-for-release"

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}
