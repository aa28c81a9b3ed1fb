// Show command: inspect one image's trace and control set.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <image-index>",
	Short: "Show the dense trace and control set for an image",
	Long: `Show fetches one image's shoreline, projects it into the pixel space
of its rectified raster, and prints a summary of the dense trace and the
editable control set.

Example:
  shoretrace show 3
  shoretrace show 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// showOutput is the JSON layout of the show command.
type showOutput struct {
	ImageIndex    int                `json:"image_index"`
	Approved      bool               `json:"approved"`
	Extent        types.RasterExtent `json:"extent"`
	DensePoints   int                `json:"dense_points"`
	ControlPoints []types.Point      `json:"control_points"`
	ControlDense  []int              `json:"control_dense_indices"`
}

func runShow(cmd *cobra.Command, args []string) error {
	imageIndex, err := parseImageIndex(args[0])
	if err != nil {
		return err
	}

	s, err := openEditSession(cmd.Context(), newClient(), imageIndex)
	if err != nil {
		return err
	}

	controls := s.Controls()
	if flagJSON {
		return printJSON(cmd, showOutput{
			ImageIndex:    s.ImageIndex(),
			Approved:      s.Approved(),
			Extent:        s.Extent(),
			DensePoints:   len(s.Dense()),
			ControlPoints: controls.Points,
			ControlDense:  controls.Indices,
		})
	}

	state := "needs review"
	if s.Approved() {
		state = "approved"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Image %d (%s)\n", s.ImageIndex(), state)
	fmt.Fprintf(cmd.OutOrStdout(), "Raster: %dx%d px\n", s.Extent().Width, s.Extent().Height)
	fmt.Fprintf(cmd.OutOrStdout(), "Dense trace: %d points\n", len(s.Dense()))
	fmt.Fprintf(cmd.OutOrStdout(), "Control set: %d points\n", len(controls.Indices))
	for i, p := range controls.Points {
		fmt.Fprintf(cmd.OutOrStdout(), "  %3d  dense %4d  (%.1f, %.1f)\n",
			i, controls.Indices[i], p.X, p.Y)
	}
	return nil
}
