package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'lolmetrics parse <timeline.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %9s  %-7s  %s\n", "MATCH", "DURATION", "WINNER", "KILLS")
	fmt.Fprintf(os.Stdout, "%-20s  %9s  %-7s  %s\n", "────────────────────", "─────────", "───────", "─────")
	for _, m := range matches {
		winner := model.SideName(m.WinningTeam)
		kills := fmt.Sprintf("%d-%d", m.BlueKills, m.RedKills)
		fmt.Fprintf(os.Stdout, "%-20s  %8.1fm  %-7s  %s\n", m.MatchID, m.DurationMinutes, winner, kills)
	}
	return nil
}
