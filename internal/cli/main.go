// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli wires the Cobra command tree: the root command launches the
// interactive TUI, subcommands cover scripted use (signup, login, passwd,
// vault, audit, backup, restore, maintain).
package cli

import (
	"errors"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/toeirei/vaultmaster/buildvars"
	"github.com/toeirei/vaultmaster/internal/account"
	"github.com/toeirei/vaultmaster/internal/config"
	"github.com/toeirei/vaultmaster/internal/db"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/logging"
	"github.com/toeirei/vaultmaster/internal/tui"
)

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	svc       *account.Service
)

// setupDefaultServices loads the config, initializes i18n and opens the
// database. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	explicitPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./vaultmaster.db",
		"language":      "en",
	}

	appConfig, err = config.LoadConfig(cmd, defaults, explicitPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run. Persist a default config so later runs have a file to edit.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	i18n.Init(appConfig.Language)

	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return fmt.Errorf("error initializing database: %w", err)
		}
	}

	svc = account.NewService()
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") && !cmd.Root().PersistentFlags().Changed("config") {
		return nil, nil
	}
	if cfgFile == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &cfgFile, nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal; pass the password via flag")
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(raw), nil
}

// Execute runs the CLI entrypoint.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultmaster",
		Short: "Vaultmaster is a local account and credential vault.",
		Long: `Vaultmaster keeps a single user's accounts and third-party credentials
in a locally encrypted vault. Passwords are hashed with argon2id and a
build-time pepper; vault entries are sealed with a key derived from the
login password and never stored in the clear.

Running without a subcommand launches the interactive TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetDebug(true)
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(svc)
		},
	}

	cmd.Version = buildvars.VersionOrDefault("dev")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logs)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `language ("en", "de")`)
	cmd.PersistentFlags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("database.dsn", "./vaultmaster.db", "Database connection string (DSN)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildvars.VersionOrDefault("dev"))
		},
	}

	cmd.AddCommand(
		versionCmd,
		newSignupCmd(),
		newLoginCmd(),
		newPasswdCmd(),
		newVaultCmd(),
		newAuditCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMaintainCmd(),
	)
	return cmd
}
