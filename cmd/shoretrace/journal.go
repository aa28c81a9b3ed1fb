// Journal command: list recorded review actions.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagJournalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent review actions",
	Long: `Journal prints the operator's local review journal, newest first.
The journal records approve, save, and reset actions taken through this CLI;
it is independent of the backend's approval state.`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&flagJournalLimit, "limit", 20, "maximum number of entries to show")
}

func runJournal(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(flagJournalLimit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	if flagJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded actions")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  image %4d  %s\n",
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"), e.ImageIndex, e.Action)
	}
	return nil
}
