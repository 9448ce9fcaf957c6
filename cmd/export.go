package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <match-id-prefix>",
	Short: "Export a stored match as a JSON document",
	Long: `Export the full stats document for a stored match: every accumulator and
time series for all ten participants plus the two team aggregates.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (defaults to <match-id>_stats.json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no match found with id prefix %q", args[0])
	}

	players, err := db.GetParticipantStats(summary.MatchID)
	if err != nil {
		return fmt.Errorf("get participant stats: %w", err)
	}

	stats := make(map[int]*model.ParticipantStats, len(players))
	for _, s := range players {
		stats[s.ParticipantID] = s
	}
	doc := model.ExportDocument{
		MatchID:             summary.MatchID,
		GameDurationMinutes: summary.DurationMinutes,
		Players:             stats,
		Teams:               teamsFromPlayers(players),
	}

	out := exportOut
	if out == "" {
		out = summary.MatchID + "_stats.json"
	}
	if err := writeExport(out, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stats exported to: %s\n", out)
	return nil
}
