// Package main provides the entry point for the fetchaudit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for fetchaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetchaudit",
		Short: "Credential hygiene auditor for password vault exports",
		Long: `fetchaudit audits decrypted password vault exports for hygiene problems:
weak passwords, passwords exposed in known breaches, duplicate entries for
the same account, and entries missing both username and password.

Breach checking uses k-anonymity: only the first five characters of each
password's SHA-1 hash ever leave this machine. Checking is opt-in via
--check-breaches; without it the audit runs fully offline.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewCleanupCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
