// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Vaultmaster.
//
// Usage:
//
//	go run . [flags]
//	./vaultmaster [flags]
//
// Running without a subcommand launches the interactive TUI. See --help
// for the scripted subcommands.
package main

import (
	"log"
	"os"

	"github.com/toeirei/vaultmaster/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Vaultmaster error: %v", err)
		os.Exit(1)
	}
}
