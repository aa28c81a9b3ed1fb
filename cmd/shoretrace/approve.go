// Approve command: mark one image's shoreline as reviewed and correct.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/journal"
	"github.com/mesh-intelligence/shoretrace/internal/statuscache"
)

var approveCmd = &cobra.Command{
	Use:   "approve <image-index>",
	Short: "Approve the shoreline trace for an image",
	Long: `Approve marks the detected (or edited) shoreline for one image as
human-approved. On backend failure the approval state stays "not approved".

Example:
  shoretrace approve 12`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	imageIndex, err := parseImageIndex(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := newClient()
	cache := statuscache.New(cfg.StalenessWindow)

	s, err := openEditSession(ctx, client, imageIndex)
	if err != nil {
		return err
	}
	if err := s.Approve(ctx, cache); err != nil {
		return err
	}

	recordAction(cmd, journal.ActionApprove, imageIndex)
	fmt.Fprintf(cmd.OutOrStdout(), "Shoreline for image %d approved\n", imageIndex)
	return nil
}
