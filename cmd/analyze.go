package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends performance analyst. You are given structured data
from a match-timeline analysis tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Metrics glossary:
- KDA: (kills + assists) ÷ deaths, deaths floored to 1. 3.0+ is solid.
- KP%: share of your team's kills you took part in. Carries aim for >60%.
- CS/min: creeps killed per minute. 7+ is strong for a laner, junglers lower.
- CS phases: early <10min, mid 10–25min, late ≥25min of game time.
- Gold efficiency: total gold earned per minion killed. Higher = more income
  from kills/objectives rather than pure farming.
- Dmg/min: damage dealt to champions per minute.
- Vision score: wards placed + 0.5 × wards killed.
- Ward survival %: placed wards that were never destroyed by the enemy.
- Tower participation: towers you killed or assisted on.
- Turret plates: plates taken before 14 minutes, 160 gold each.
- First item / full build (min): minutes to first purchase and sixth item.
- Bounty gold: shutdown gold collected from ending enemy kill streaks.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <match-id-prefix> <question>",
	Short: "Analyze a stored match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("no match found with prefix %q", args[0])
	}
	question := args[1]

	stats, err := db.GetParticipantStats(match.MatchID)
	if err != nil {
		return fmt.Errorf("query match stats: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("no participant stats stored for match %s", match.MatchID)
	}

	contextJSON, err := buildMatchContext(match, stats)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

// buildMatchContext serialises a single match into compact JSON.
func buildMatchContext(match *model.MatchSummary, stats []*model.ParticipantStats) (string, error) {
	type playerEntry struct {
		Participant int     `json:"participant"`
		Side        string  `json:"side"`
		Victory     bool    `json:"victory"`
		Kills       int     `json:"kills"`
		Deaths      int     `json:"deaths"`
		Assists     int     `json:"assists"`
		KDA         float64 `json:"kda"`
		KPPct       float64 `json:"kp_pct"`
		CSPerMin    float64 `json:"cs_per_min"`
		CSEarly     int     `json:"cs_early"`
		CSMid       int     `json:"cs_mid"`
		CSLate      int     `json:"cs_late"`
		TotalGold   int     `json:"total_gold"`
		GoldEff     float64 `json:"gold_efficiency"`
		DmgPerMin   float64 `json:"dmg_per_min"`
		VisionScore float64 `json:"vision_score"`
		WardSurv    string  `json:"ward_survival"`
		Towers      int     `json:"tower_participation"`
		Plates      int     `json:"turret_plates"`
		FirstBlood  bool    `json:"first_blood"`
		MultiKills  string  `json:"multi_kills"`
	}

	players := make([]playerEntry, 0, len(stats))
	for _, s := range stats {
		p := playerEntry{
			Participant: s.ParticipantID,
			Side:        s.TeamSide,
			Victory:     s.Victory,
			Kills:       s.Kills,
			Deaths:      s.Deaths,
			Assists:     s.Assists,
			KDA:         round2(s.KDA),
			KPPct:       round2(s.KillParticipationPct),
			CSPerMin:    round2(s.CSPerMin),
			CSEarly:     s.CSEarly,
			CSMid:       s.CSMid,
			CSLate:      s.CSLate,
			TotalGold:   s.FinalTotalGold(),
			GoldEff:     round2(s.GoldEfficiency),
			DmgPerMin:   round2(s.DamagePerMin),
			VisionScore: round2(s.VisionScore),
			WardSurv:    "—",
			Towers:      s.TowerParticipation,
			Plates:      s.TurretPlatesDestroyed,
			FirstBlood:  s.FirstBlood,
			MultiKills:  multiKillList(s.MultiKills),
		}
		if s.WardSurvivalRate != nil {
			p.WardSurv = fmt.Sprintf("%.0f%%", *s.WardSurvivalRate)
		}
		players = append(players, p)
	}

	doc := map[string]interface{}{
		"subject":      "match",
		"match_id":     match.MatchID,
		"duration_min": round2(match.DurationMinutes),
		"winning_side": model.SideName(match.WinningTeam),
		"score":        fmt.Sprintf("%d-%d", match.BlueKills, match.RedKills),
		"players":      players,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// multiKillList renders multi-kill counts as "DOUBLE×2 TRIPLE×1" or "none".
func multiKillList(mk map[string]int) string {
	if len(mk) == 0 {
		return "none"
	}
	names := make([]string, 0, len(mk))
	for name := range mk {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s×%d", name, mk[name]))
	}
	return strings.Join(parts, " ")
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	// Use integer arithmetic to avoid floating-point drift.
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		// Provide a cleaner error message for common API errors.
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
