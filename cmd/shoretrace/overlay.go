// Overlay command: render a shoreline trace onto its rectified raster.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/overlay"
)

var (
	flagOverlayOut      string
	flagOverlayMaxWidth int
	flagOverlayHandles  bool
)

var overlayCmd = &cobra.Command{
	Use:   "overlay <image-index>",
	Short: "Render the shoreline trace over the rectified image",
	Long: `Overlay downloads the rectified raster, projects the image's dense
shoreline into its pixel space, draws the trace (yellow pending, green once
approved), and writes the result as PNG.

Example:
  shoretrace overlay 3 -o shoreline_3.png
  shoretrace overlay 3 -o preview.png --max-width 800 --handles`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlay,
}

func init() {
	overlayCmd.Flags().StringVarP(&flagOverlayOut, "output", "o", "", "output PNG path (required)")
	overlayCmd.Flags().IntVar(&flagOverlayMaxWidth, "max-width", 0, "scale the overlay down to at most this width")
	overlayCmd.Flags().BoolVar(&flagOverlayHandles, "handles", false, "mark control points with square handles")
	overlayCmd.MarkFlagRequired("output")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	imageIndex, err := parseImageIndex(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := newClient()

	payload, err := client.FetchImage(ctx, client.RectifiedImageURL(imageIndex))
	if err != nil {
		return fmt.Errorf("fetch rectified image %d: %w", imageIndex, err)
	}
	raster, extent, err := overlay.DecodeBytes(payload)
	if err != nil {
		return fmt.Errorf("decode rectified image %d: %w", imageIndex, err)
	}

	s, err := openSessionWithExtent(ctx, client, imageIndex, extent)
	if err != nil {
		return err
	}

	opts := overlay.Options{
		Approved: s.Approved(),
		MaxWidth: flagOverlayMaxWidth,
	}
	if flagOverlayHandles {
		opts.ControlIndices = s.Controls().Indices
	}
	rendered, err := overlay.Render(raster, s.Dense(), opts)
	if err != nil {
		return fmt.Errorf("render overlay %d: %w", imageIndex, err)
	}

	out, err := os.Create(flagOverlayOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()
	if err := overlay.EncodePNG(out, rendered); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote overlay for image %d to %s\n", imageIndex, flagOverlayOut)
	return nil
}
