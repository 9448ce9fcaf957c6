package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
	"github.com/pable/go-lol-metrics/internal/timeline"
)

var (
	focusParticipant    int
	parseJSONOut        string
	creditHeraldAssists bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <timeline.json>",
	Short: "Parse a match-timeline document and store metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().IntVar(&focusParticipant, "player", 0, "focus participant id (1-10)")
	parseCmd.Flags().StringVar(&parseJSONOut, "json", "", "also write the full stats document to this path")
	parseCmd.Flags().BoolVar(&creditHeraldAssists, "credit-herald-assists", false,
		"credit assisters for Rift Herald kills (historically only dragon and Baron assists count)")
}

func runParse(cmd *cobra.Command, args []string) error {
	timelinePath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", timelinePath)
	tl, err := timeline.Load(timelinePath)
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}

	exists, err := db.MatchExists(tl.MatchID)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Match %s already stored — showing cached results.\n\n", tl.MatchID)
		return showByMatchID(db, tl.MatchID)
	}

	stats, err := aggregator.Aggregate(tl, aggregator.Options{CreditHeraldAssists: creditHeraldAssists})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	aggregator.Derive(stats, tl.DurationMinutes(), aggregator.TeamTotalKills(stats))
	teams := aggregator.BuildTeamStats(stats)
	summary := aggregator.Summarize(tl, stats)
	players := aggregator.Participants(stats)

	if err := db.InsertMatch(summary); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertParticipantStats(tl.MatchID, players); err != nil {
		return fmt.Errorf("insert participant stats: %w", err)
	}

	printReport(summary, players, teams)

	if parseJSONOut != "" {
		doc := model.ExportDocument{
			MatchID:             summary.MatchID,
			GameDurationMinutes: summary.DurationMinutes,
			Players:             stats,
			Teams:               teams,
		}
		if err := writeExport(parseJSONOut, doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Stats exported to: %s\n", parseJSONOut)
	}
	return nil
}

func printReport(summary model.MatchSummary, players []*model.ParticipantStats, teams map[int]*model.TeamStats) {
	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintOverviewTable(os.Stdout, players, focusParticipant)
	report.PrintCombatTable(os.Stdout, players, focusParticipant)
	report.PrintDamageTable(os.Stdout, players, focusParticipant)
	report.PrintFarmTable(os.Stdout, players, focusParticipant)
	report.PrintVisionTable(os.Stdout, players, focusParticipant)
	report.PrintObjectivesTable(os.Stdout, players, focusParticipant)
	report.PrintItemTable(os.Stdout, players, focusParticipant)
	report.PrintChampionFinalTable(os.Stdout, players, focusParticipant)
	report.PrintTeamComparison(os.Stdout, teams)
}

func showByMatchID(db *storage.DB, matchID string) error {
	summary, err := db.GetMatchByPrefix(matchID)
	if err != nil || summary == nil {
		return fmt.Errorf("match not found: %s", matchID)
	}
	players, err := db.GetParticipantStats(summary.MatchID)
	if err != nil {
		return err
	}
	teams := teamsFromPlayers(players)
	printReport(*summary, players, teams)
	return nil
}

// teamsFromPlayers rebuilds the team rollup from stored participant records.
func teamsFromPlayers(players []*model.ParticipantStats) map[int]*model.TeamStats {
	stats := make(map[int]*model.ParticipantStats, len(players))
	for _, s := range players {
		stats[s.ParticipantID] = s
	}
	return aggregator.BuildTeamStats(stats)
}

func writeExport(path string, doc model.ExportDocument) error {
	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
