package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/storage"
)

var showPlayerID int

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show stored match stats by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showPlayerID, "player", 0, "highlight participant id (1-10)")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	players, err := db.GetParticipantStats(summary.MatchID)
	if err != nil {
		return fmt.Errorf("get participant stats: %w", err)
	}

	focusParticipant = showPlayerID
	printReport(*summary, players, teamsFromPlayers(players))
	return nil
}
