// Init command: create the configuration directory and default config.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the shoretrace configuration",
	Long: `Init creates the configuration directory and writes a default
config.yaml if none exists. The directory is resolved from --config-dir,
the SHORETRACE_CONFIG_DIR environment variable, or $(CWD)/.shoretrace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		// PersistentPreRunE already created the directory and default file;
		// this command exists to make first-run setup explicit.
		fmt.Printf("Initialized shoretrace configuration in %s\n", configDir)
		fmt.Printf("Backend: %s\n", cfg.BackendURL)
		return nil
	},
}
