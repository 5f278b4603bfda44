// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toeirei/vaultmaster/internal/i18n"
)

// login opens a session for vault subcommands; every vault operation needs
// the key derived from the account password.
func login(username, password string) error {
	if password == "" {
		var err error
		if password, err = promptPassword(i18n.T("tui.field.password")); err != nil {
			return err
		}
	}
	return reportResponse(svc.Login(username, password))
}

func newVaultCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage stored credentials",
	}
	cmd.PersistentFlags().StringVarP(&username, "user", "u", "", "Account username")
	cmd.PersistentFlags().StringVarP(&password, "password", "p", "", "Account password (omit to be prompted)")
	_ = cmd.MarkPersistentFlagRequired("user")

	addCmd := &cobra.Command{
		Use:   "add <app> <app-username>",
		Short: "Store a credential (the secret is prompted)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := login(username, password); err != nil {
				return err
			}
			secret, err := promptPassword(i18n.T("tui.field.app_secret"))
			if err != nil {
				return err
			}
			return reportResponse(svc.VaultPut(args[0], args[1], secret))
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := login(username, password); err != nil {
				return err
			}
			entries, resp := svc.VaultEntries()
			if !resp.Validity {
				return reportResponse(resp)
			}
			showSecrets, _ := cmd.Flags().GetBool("show-secrets")
			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			for _, e := range entries {
				if showSecrets {
					fmt.Fprintf(w, "%s\t%s\t%s\n", e.AppName, e.AppUsername, e.AppSecret)
				} else {
					fmt.Fprintf(w, "%s\t%s\n", e.AppName, e.AppUsername)
				}
			}
			return w.Flush()
		},
	}
	listCmd.Flags().Bool("show-secrets", false, "Print decrypted secrets to stdout")

	rmCmd := &cobra.Command{
		Use:   "rm <app>",
		Short: "Delete a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := login(username, password); err != nil {
				return err
			}
			return reportResponse(svc.VaultDelete(args[0]))
		},
	}

	cmd.AddCommand(addCmd, listCmd, rmCmd)
	return cmd
}
