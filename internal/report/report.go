package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-lol-metrics/internal/model"
)

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	winner := "unknown"
	if s.WinningTeam != 0 {
		winner = model.SideName(s.WinningTeam)
	}
	fmt.Fprintf(w, "\nMatch: %s  |  Duration: %.2f min  |  Winner: %s  |  Kills: Blue %d – Red %d\n\n",
		s.MatchID, s.DurationMinutes, winner, s.BlueKills, s.RedKills)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// marker returns ">" for the focused participant row, " " otherwise.
func marker(s *model.ParticipantStats, focusID int) string {
	if focusID != 0 && s.ParticipantID == focusID {
		return ">"
	}
	return " "
}

// PrintOverviewTable prints the per-player headline table.
// If focusID is non-zero, that participant's row is marked with ">".
func PrintOverviewTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "SIDE", "RESULT", "LVL", "K/D/A", "KDA", "KP%", "CS", "CS/MIN", "GOLD", "DMG/MIN", "VISION")

	for _, s := range players {
		result := "LOSS"
		if s.Victory {
			result = "WIN"
		}
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			s.TeamSide,
			result,
			strconv.Itoa(s.MaxLevel),
			s.KDADisplay(),
			fmt.Sprintf("%.2f", s.KDA),
			fmt.Sprintf("%.0f%%", s.KillParticipationPct),
			strconv.Itoa(s.TotalCS()),
			fmt.Sprintf("%.1f", s.CSPerMin),
			strconv.Itoa(s.FinalTotalGold()),
			fmt.Sprintf("%.0f", s.DamagePerMin),
			fmt.Sprintf("%.1f", s.VisionScore),
		)
	}
	table.Render()
}

// PrintCombatTable prints kills/deaths/assists detail with first-blood,
// multi-kill, and bounty columns.
func PrintCombatTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "K", "D", "A", "EARLY_K", "EARLY_D", "FB", "MULTI", "BOUNTY", "SHUTDOWN")

	for _, s := range players {
		fb := " "
		switch {
		case s.FirstBlood:
			fb = "KILL"
		case s.FirstBloodVictim:
			fb = "DEATH"
		}
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.Kills),
			strconv.Itoa(s.Deaths),
			strconv.Itoa(s.Assists),
			strconv.Itoa(s.EarlyKills),
			strconv.Itoa(s.EarlyDeaths),
			fb,
			multiKillString(s.MultiKills),
			strconv.Itoa(s.BountyGold),
			strconv.Itoa(s.ShutdownGold),
		)
	}
	table.Render()
}

// PrintDamageTable prints the damage breakdown.
func PrintDamageTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "TOTAL", "TO_CHAMPS", "DMG/MIN", "PHYS", "MAGIC", "TRUE", "TAKEN", "GOLD_EFF")

	for _, s := range players {
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.DamageDealtTotal),
			strconv.Itoa(s.DamageToChampions),
			fmt.Sprintf("%.0f", s.DamagePerMin),
			strconv.Itoa(s.PhysicalDamage),
			strconv.Itoa(s.MagicDamage),
			strconv.Itoa(s.TrueDamage),
			strconv.Itoa(s.DamageTaken),
			fmt.Sprintf("%.2f", s.GoldEfficiency),
		)
	}
	table.Render()
}

// PrintFarmTable prints CS totals and the phase buckets.
func PrintFarmTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "MINIONS", "JUNGLE", "CS", "0-10MIN", "10-25MIN", "25+MIN", "CS/MIN")

	for _, s := range players {
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.MinionsKilled),
			strconv.Itoa(s.JungleKilled),
			strconv.Itoa(s.TotalCS()),
			strconv.Itoa(s.CSEarly),
			strconv.Itoa(s.CSMid),
			strconv.Itoa(s.CSLate),
			fmt.Sprintf("%.1f", s.CSPerMin),
		)
	}
	table.Render()
}

// PrintVisionTable prints warding stats. Ward survival is "—" for players
// who never placed a ward.
func PrintVisionTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "PLACED", "KILLED", "PINK_P", "PINK_K", "SURVIVAL%", "VISION")

	for _, s := range players {
		survival := "—"
		if s.WardSurvivalRate != nil {
			survival = fmt.Sprintf("%.1f%%", *s.WardSurvivalRate)
		}
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.WardsPlaced),
			strconv.Itoa(s.WardsKilled),
			strconv.Itoa(s.PinkWardsPlaced),
			strconv.Itoa(s.PinkWardsKilled),
			survival,
			fmt.Sprintf("%.1f", s.VisionScore),
		)
	}
	table.Render()
}

// PrintObjectivesTable prints structure and monster participation.
func PrintObjectivesTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "PLATES", "TOWERS", "DRAGONS", "BARONS", "HERALDS")

	for _, s := range players {
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.TurretPlatesDestroyed),
			strconv.Itoa(s.TowerParticipation),
			strconv.Itoa(s.DragonParticipation),
			strconv.Itoa(s.BaronParticipation),
			strconv.Itoa(s.HeraldParticipation),
		)
	}
	table.Render()
}

// PrintItemTable prints purchase counts and build timing. Full-build time is
// "—" until a player has made six purchases.
func PrintItemTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "BOUGHT", "SOLD", "DESTROYED", "UNDOS", "FIRST_ITEM", "FULL_BUILD")

	for _, s := range players {
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			strconv.Itoa(s.TotalItemsBought),
			strconv.Itoa(len(s.ItemsSold)),
			strconv.Itoa(len(s.ItemsDestroyed)),
			strconv.Itoa(len(s.ItemUndos)),
			fmtMinutes(s.FirstItemMin),
			fmtMinutes(s.FullBuildMin),
		)
	}
	table.Render()
}

// PrintChampionFinalTable prints each champion's attributes at the last frame.
func PrintChampionFinalTable(w io.Writer, players []*model.ParticipantStats, focusID int) {
	table := newTable(w)
	table.Header(" ", "P", "HP", "AD", "AP", "ARMOR", "MR", "MS", "CC_DEALT")

	for _, s := range players {
		table.Append(
			marker(s, focusID),
			strconv.Itoa(s.ParticipantID),
			lastValue(s.HealthTimeline),
			lastValue(s.AttackDamageTimeline),
			lastValue(s.AbilityPowerTimeline),
			lastValue(s.ArmorTimeline),
			lastValue(s.MagicResistTimeline),
			lastValue(s.MoveSpeedTimeline),
			fmt.Sprintf("%ds", s.TimeEnemyControlled),
		)
	}
	table.Render()
}

// PrintTeamComparison prints the Blue-vs-Red rollup.
func PrintTeamComparison(w io.Writer, teams map[int]*model.TeamStats) {
	blue, red := teams[model.TeamBlue], teams[model.TeamRed]
	if blue == nil || red == nil {
		return
	}

	table := newTable(w)
	table.Header("METRIC", "BLUE (100)", "RED (200)")
	table.Append("Kills", strconv.Itoa(blue.Kills), strconv.Itoa(red.Kills))
	table.Append("Deaths", strconv.Itoa(blue.Deaths), strconv.Itoa(red.Deaths))
	table.Append("KDA", fmt.Sprintf("%.2f", blue.KDA()), fmt.Sprintf("%.2f", red.KDA()))
	table.Append("Total Gold", strconv.Itoa(blue.TotalGold), strconv.Itoa(red.TotalGold))
	table.Append("Total CS", strconv.Itoa(blue.TotalCS), strconv.Itoa(red.TotalCS))
	table.Append("Damage to Champions", strconv.Itoa(blue.DamageToChampions), strconv.Itoa(red.DamageToChampions))
	table.Append("Wards Placed", strconv.Itoa(blue.WardsPlaced), strconv.Itoa(red.WardsPlaced))
	table.Render()
}

// multiKillString renders a multi-kill counter as "DOUBLE×2 TRIPLE×1",
// largest kills first, or "—" when empty.
func multiKillString(mk map[string]int) string {
	if len(mk) == 0 {
		return "—"
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

func fmtMinutes(min *float64) string {
	if min == nil {
		return "—"
	}
	return fmt.Sprintf("%.1fmin", *min)
}

func lastValue(samples []model.Sample) string {
	if len(samples) == 0 {
		return "—"
	}
	return strconv.FormatFloat(samples[len(samples)-1].Value, 'f', 0, 64)
}
