// Statuses command: bulk approval-status listing.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shoretrace/internal/statuscache"
	"github.com/mesh-intelligence/shoretrace/internal/viewsync"
)

var (
	flagStatusStart int
	flagStatusEnd   int
)

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "List shoreline approval statuses",
	Long: `Statuses fetches the approval status of every image from the backend
in one bulk call. With --start/--end, only the window is ensured (cached
entries are reused and only the missing indices are fetched per item).

Example:
  shoretrace statuses
  shoretrace statuses --start 0 --end 19 --json`,
	Args: cobra.NoArgs,
	RunE: runStatuses,
}

func init() {
	statusesCmd.Flags().IntVar(&flagStatusStart, "start", -1, "first image index of the window")
	statusesCmd.Flags().IntVar(&flagStatusEnd, "end", -1, "last image index of the window")
}

func runStatuses(cmd *cobra.Command, args []string) error {
	cache := statuscache.New(cfg.StalenessWindow)
	syncer := viewsync.New(cache, newClient())
	ctx := cmd.Context()

	windowed := flagStatusStart >= 0 && flagStatusEnd >= flagStatusStart
	if windowed {
		if err := syncer.FillWindow(ctx, flagStatusStart, flagStatusEnd); err != nil {
			return fmt.Errorf("fill status window: %w", err)
		}
	} else if err := syncer.EnsureFresh(ctx); err != nil {
		// The cache fell back to "needs review" entries; still surface why.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	statuses := cache.All()
	if windowed {
		statuses = cache.Range(flagStatusStart, flagStatusEnd)
	}

	if flagJSON {
		return printJSON(cmd, statuses)
	}

	indices := make([]int, 0, len(statuses))
	for index := range statuses {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	approved := 0
	for _, index := range indices {
		state := "needs review"
		if statuses[index] {
			state = "approved"
			approved++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", index, state)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d approved\n", approved, len(indices))
	return nil
}
