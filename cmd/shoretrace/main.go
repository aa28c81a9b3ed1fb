// Package main provides the shoretrace CLI: review and correct detected
// coastline traces against a shoreline backend, and track which traces have
// been human-approved.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagBackend   string
	flagJSON      bool
)

// cfg holds the effective configuration, loaded by PersistentPreRunE so all
// subcommands can use it.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:     "shoretrace",
	Short:   "Shoretrace reviews detected coastline traces",
	Version: version,
	Long: `Shoretrace is a review client for a shoreline detection backend.
It lists approval statuses, renders trace overlays, applies control-point
edits to detected shorelines, and records operator approvals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded

		if flagBackend != "" {
			cfg.BackendURL = flagBackend
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.shoretrace)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend base URL (overrides config backend_url)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusesCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(journalCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
