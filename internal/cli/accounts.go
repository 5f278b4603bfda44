// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toeirei/vaultmaster/internal/db"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
)

// reportResponse prints a service verdict and turns a refusal into a
// non-zero exit without the usage spam cobra adds for returned errors.
func reportResponse(resp model.Response) error {
	fmt.Println(resp.Message)
	if !resp.Validity {
		return errors.New(resp.Message)
	}
	return nil
}

func newSignupCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			pass := password
			if pass == "" {
				var err error
				if pass, err = promptPassword(i18n.T("tui.field.password")); err != nil {
					return err
				}
			}
			return reportResponse(svc.SignUp(args[0], pass))
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (omit to be prompted)")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Verify credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			pass := password
			if pass == "" {
				var err error
				if pass, err = promptPassword(i18n.T("tui.field.password")); err != nil {
					return err
				}
			}
			return reportResponse(svc.Login(args[0], pass))
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (omit to be prompted)")
	return cmd
}

func newPasswdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change an account password and rotate the vault key",
		Long: `Verifies the current password, then rehashes the account with a fresh
salt and re-encrypts every vault entry under a key derived from the new
password. The change is applied in a single transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oldPass, err := promptPassword(i18n.T("tui.field.old_password"))
			if err != nil {
				return err
			}
			newPass, err := promptPassword(i18n.T("tui.field.new_password"))
			if err != nil {
				return err
			}
			return reportResponse(svc.ChangePassword(args[0], oldPass, newPass))
		},
	}
	return cmd
}

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logs, err := db.GetAllAuditLogEntries()
			if err != nil {
				return fmt.Errorf("could not read audit log: %w", err)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			for _, e := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Username, e.Action, e.Details)
			}
			return w.Flush()
		},
	}
}
