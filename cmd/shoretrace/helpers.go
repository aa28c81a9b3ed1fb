// Shared helpers for shoretrace CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/api"
	"github.com/mesh-intelligence/shoretrace/internal/journal"
	"github.com/mesh-intelligence/shoretrace/internal/overlay"
	"github.com/mesh-intelligence/shoretrace/internal/session"
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// newClient creates a backend client from the effective configuration.
func newClient() *api.Client {
	return api.New(cfg.BackendURL)
}

// openJournal opens the local review journal from the effective
// configuration. The caller must Close it.
func openJournal() (*journal.Journal, error) {
	j, err := journal.Open(cfg.JournalDir)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// recordAction appends an action to the journal, tolerating journal failures
// with a warning: a journal problem must not fail the review operation that
// already succeeded against the backend.
func recordAction(cmd *cobra.Command, action string, imageIndex int) {
	j, err := openJournal()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return
	}
	defer j.Close()
	if _, err := j.Record(action, imageIndex); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: record %s: %v\n", action, err)
	}
}

// parseImageIndex parses a non-negative image index argument.
func parseImageIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid image index %q: expected a non-negative integer", arg)
	}
	return index, nil
}

// openEditSession fetches the rectified raster to learn its extent, then
// opens an editing session for the image.
func openEditSession(ctx context.Context, client *api.Client, imageIndex int) (*session.Session, error) {
	extent, err := fetchExtent(ctx, client, imageIndex)
	if err != nil {
		return nil, err
	}
	return openSessionWithExtent(ctx, client, imageIndex, extent)
}

// openSessionWithExtent opens an editing session when the raster extent is
// already known, avoiding a second image download.
func openSessionWithExtent(ctx context.Context, client *api.Client, imageIndex int, extent types.RasterExtent) (*session.Session, error) {
	return session.Open(ctx, client, imageIndex, extent, cfg.ControlTarget)
}

// fetchExtent downloads the rectified raster for an image and returns its
// pixel dimensions.
func fetchExtent(ctx context.Context, client *api.Client, imageIndex int) (types.RasterExtent, error) {
	payload, err := client.FetchImage(ctx, client.RectifiedImageURL(imageIndex))
	if err != nil {
		return types.RasterExtent{}, fmt.Errorf("fetch rectified image %d: %w", imageIndex, err)
	}
	_, extent, err := overlay.DecodeBytes(payload)
	if err != nil {
		return types.RasterExtent{}, fmt.Errorf("decode rectified image %d: %w", imageIndex, err)
	}
	return extent, nil
}

// printJSON writes a value as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
