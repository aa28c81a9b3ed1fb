// Save command: apply control-point edits and persist the rebuilt trace.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/journal"
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

var flagEditsFile string

var saveCmd = &cobra.Command{
	Use:   "save <image-index>",
	Short: "Apply control-point edits and save the shoreline",
	Long: `Save loads the image's shoreline, applies control-point edits from a
JSON file, reconstructs the dense trace, and persists it through the backend.

The edits file maps control-set positions to new pixel coordinates:

  {"edits": [{"control": 4, "x": 512.5, "y": 301.0}]}

Example:
  shoretrace save 3 --edits edits.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&flagEditsFile, "edits", "", "JSON file of control-point edits (required)")
	saveCmd.MarkFlagRequired("edits")
}

// editsFile is the JSON layout of --edits.
type editsFile struct {
	Edits []controlEdit `json:"edits"`
}

type controlEdit struct {
	Control int     `json:"control"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

func runSave(cmd *cobra.Command, args []string) error {
	imageIndex, err := parseImageIndex(args[0])
	if err != nil {
		return err
	}

	edits, err := readEdits(flagEditsFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openEditSession(ctx, newClient(), imageIndex)
	if err != nil {
		return err
	}

	for _, e := range edits {
		p := types.Point{X: e.X, Y: e.Y}
		if !p.IsFinite() {
			return fmt.Errorf("edit for control %d has non-finite coordinates", e.Control)
		}
		if err := s.MoveControl(e.Control, p); err != nil {
			return fmt.Errorf("move control %d: %w", e.Control, err)
		}
	}
	if err := s.Save(ctx); err != nil {
		return err
	}

	recordAction(cmd, journal.ActionSave, imageIndex)
	fmt.Fprintf(cmd.OutOrStdout(), "Saved edited shoreline for image %d (%d edits)\n",
		imageIndex, len(edits))
	return nil
}

func readEdits(path string) ([]controlEdit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edits file: %w", err)
	}
	var f editsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse edits file: %w", err)
	}
	if len(f.Edits) == 0 {
		return nil, fmt.Errorf("edits file %s contains no edits", path)
	}
	return f.Edits, nil
}
