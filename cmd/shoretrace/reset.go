// Reset command: discard edits and restore the original detection.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/journal"
)

var resetCmd = &cobra.Command{
	Use:   "reset <image-index>",
	Short: "Reset a shoreline to the original detection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imageIndex, err := parseImageIndex(args[0])
		if err != nil {
			return err
		}

		if err := newClient().ResetShoreline(cmd.Context(), imageIndex); err != nil {
			return fmt.Errorf("reset shoreline %d: %w", imageIndex, err)
		}

		recordAction(cmd, journal.ActionReset, imageIndex)
		fmt.Fprintf(cmd.OutOrStdout(), "Shoreline for image %d reset to original detection\n", imageIndex)
		return nil
	},
}
