package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/j-555/fetch-audit/internal/config"
)

//go:embed templates/fetchaudit.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new fetchaudit configuration file",
		Long: `Init writes a commented .fetchaudit policy file so the available knobs
don't have to be remembered: default entropy thresholds plus examples for
per-source overrides, subdomain prefixes, extra suffixes, and tag
exclusions.

Examples:
  # Create .fetchaudit in current directory
  fetchaudit init

  # Create config file at a specific path
  fetchaudit init -o mypolicies.yaml

  # Force overwrite existing file
  fetchaudit init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/fetchaudit.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// 0600: the policy file may name vault export paths.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure audit policies such as:")
	fmt.Fprintln(out, "  - Entropy thresholds for weak and strong passwords")
	fmt.Fprintln(out, "  - Subdomain prefixes and extra domain suffixes")
	fmt.Fprintln(out, "  - Tags to exclude from auditing")

	return nil
}
