// Package aggregator folds an ordered match timeline into per-participant
// statistics: a single forward pass over the frames (snapshots first, then
// events), followed by a derived-metrics pass that needs the final totals.
package aggregator

import (
	"fmt"

	"github.com/pable/go-lol-metrics/internal/model"
)

// Options tunes aggregation behavior.
type Options struct {
	// CreditHeraldAssists extends assister participation credit to Rift
	// Herald kills. The upstream data historically credits assisters only
	// for dragon and Baron kills; leave false to keep that behavior.
	CreditHeraldAssists bool
}

// game phase boundaries in minutes
type phase int

const (
	phaseEarly phase = iota // < 10 min
	phaseMid                // 10–25 min
	phaseLate               // >= 25 min
)

func phaseOf(tsMS int64) phase {
	minutes := float64(tsMS) / 1000 / 60
	switch {
	case minutes < 10:
		return phaseEarly
	case minutes < 25:
		return phaseMid
	default:
		return phaseLate
	}
}

// Aggregate walks the timeline in frame order and returns one accumulated
// ParticipantStats per known participant id (1..10). Records exist for all
// ten ids even when the timeline never mentions them. Events referencing
// ids outside the known set are ignored; the only error is a nil timeline.
func Aggregate(tl *model.Timeline, opts Options) (map[int]*model.ParticipantStats, error) {
	if tl == nil {
		return nil, fmt.Errorf("nil Timeline")
	}

	stats := make(map[int]*model.ParticipantStats, model.ParticipantCount)
	for id := 1; id <= model.ParticipantCount; id++ {
		stats[id] = model.NewParticipantStats(id)
	}

	p := &pass{stats: stats, opts: opts}
	for _, frame := range tl.Frames {
		for id, snap := range frame.Snapshots {
			if s, ok := stats[id]; ok {
				applySnapshot(s, frame.TimestampMS, snap)
			}
		}
		for _, ev := range frame.Events {
			p.applyEvent(ev)
		}
	}
	return stats, nil
}

// pass carries the cross-frame state of one aggregation run.
type pass struct {
	stats          map[int]*model.ParticipantStats
	opts           Options
	firstBloodSeen bool
}

// applySnapshot appends the frame's time-series samples and refreshes the
// running maxima and the current phase's CS bucket.
func applySnapshot(s *model.ParticipantStats, ts int64, snap model.ParticipantSnapshot) {
	// Gold
	s.GoldTimeline = append(s.GoldTimeline, model.GoldSample{
		TimestampMS: ts,
		CurrentGold: snap.CurrentGold,
		TotalGold:   snap.TotalGold,
	})
	s.GoldPerMin = append(s.GoldPerMin, float64(snap.GoldPerSecond)*60)

	// CS
	cs := snap.MinionsKilled + snap.JungleMinionsKilled
	s.CSTimeline = append(s.CSTimeline, model.Sample{TimestampMS: ts, Value: float64(cs)})
	s.MinionsKilled = maxInt(s.MinionsKilled, snap.MinionsKilled)
	s.JungleKilled = maxInt(s.JungleKilled, snap.JungleMinionsKilled)

	// Phase bucket: the current phase's bucket is rewritten every frame as
	// "cumulative CS minus CS already attributed to earlier phases", so each
	// bucket ends up holding the CS accrued while in that phase.
	switch phaseOf(ts) {
	case phaseEarly:
		s.CSEarly = cs
	case phaseMid:
		s.CSMid = cs - s.CSEarly
	case phaseLate:
		s.CSLate = cs - s.CSEarly - s.CSMid
	}

	// Level and XP
	s.LevelTimeline = append(s.LevelTimeline, model.Sample{TimestampMS: ts, Value: float64(snap.Level)})
	s.XPTimeline = append(s.XPTimeline, model.Sample{TimestampMS: ts, Value: float64(snap.XP)})
	s.MaxLevel = maxInt(s.MaxLevel, snap.Level)

	// Champion attributes
	if c := snap.Champion; c != nil {
		s.HealthTimeline = append(s.HealthTimeline, model.Sample{TimestampMS: ts, Value: float64(c.Health)})
		s.ResourceTimeline = append(s.ResourceTimeline, model.Sample{TimestampMS: ts, Value: float64(c.Power)})
		s.AttackDamageTimeline = append(s.AttackDamageTimeline, model.Sample{TimestampMS: ts, Value: float64(c.AttackDamage)})
		s.AbilityPowerTimeline = append(s.AbilityPowerTimeline, model.Sample{TimestampMS: ts, Value: float64(c.AbilityPower)})
		s.AttackSpeedTimeline = append(s.AttackSpeedTimeline, model.Sample{TimestampMS: ts, Value: float64(c.AttackSpeed)})
		s.ArmorTimeline = append(s.ArmorTimeline, model.Sample{TimestampMS: ts, Value: float64(c.Armor)})
		s.MagicResistTimeline = append(s.MagicResistTimeline, model.Sample{TimestampMS: ts, Value: float64(c.MagicResist)})
		s.MoveSpeedTimeline = append(s.MoveSpeedTimeline, model.Sample{TimestampMS: ts, Value: float64(c.MovementSpeed)})
	}

	// Damage counters
	if d := snap.Damage; d != nil {
		s.PhysicalDamage = maxInt(s.PhysicalDamage, d.PhysicalDone)
		s.MagicDamage = maxInt(s.MagicDamage, d.MagicDone)
		s.TrueDamage = maxInt(s.TrueDamage, d.TrueDone)
		s.DamageDealtTotal = maxInt(s.DamageDealtTotal, d.TotalDone)
		s.DamageToChampions = maxInt(s.DamageToChampions, d.TotalDoneToChampions)
		s.DamageToChampionsTimeline = append(s.DamageToChampionsTimeline,
			model.Sample{TimestampMS: ts, Value: float64(d.TotalDoneToChampions)})

		s.PhysicalDamageTaken = maxInt(s.PhysicalDamageTaken, d.PhysicalTaken)
		s.MagicDamageTaken = maxInt(s.MagicDamageTaken, d.MagicTaken)
		s.TrueDamageTaken = maxInt(s.TrueDamageTaken, d.TrueTaken)
		s.DamageTaken = maxInt(s.DamageTaken, d.TotalTaken)
		s.DamageTakenTimeline = append(s.DamageTakenTimeline,
			model.Sample{TimestampMS: ts, Value: float64(d.TotalTaken)})
	}

	// Position
	if pos := snap.Position; pos != nil {
		s.Positions = append(s.Positions, model.PositionSample{X: pos.X, Y: pos.Y, TimestampMS: ts})
	}

	// Crowd control
	s.TimeEnemyControlled = maxInt(s.TimeEnemyControlled, snap.TimeEnemySpentControlled)
}

// applyEvent dispatches one event to its participants. Multi-participant
// events (kills with assisters) are applied as a single indivisible update.
func (p *pass) applyEvent(ev model.TimelineEvent) {
	switch e := ev.(type) {
	case model.WardPlaced:
		if s, ok := p.stats[e.CreatorID]; ok {
			s.WardsPlaced++
			s.WardsPlacedTimeline = append(s.WardsPlacedTimeline, e.TimestampMS)
			s.WardsByType[e.WardType]++
			if e.WardType == "CONTROL_WARD" {
				s.PinkWardsPlaced++
			}
		}

	case model.WardKill:
		if s, ok := p.stats[e.KillerID]; ok {
			s.WardsKilled++
			s.WardsKilledTimeline = append(s.WardsKilledTimeline, e.TimestampMS)
			if e.WardType == "CONTROL_WARD" {
				s.PinkWardsKilled++
			}
		}

	case model.ChampionKill:
		// The very first kill event consumes the first-blood slot, even when
		// its killer is the 0 sentinel; later kills never touch it.
		if !p.firstBloodSeen {
			p.firstBloodSeen = true
			if s, ok := p.stats[e.KillerID]; ok {
				s.FirstBlood = true
			}
			if s, ok := p.stats[e.VictimID]; ok {
				s.FirstBloodVictim = true
			}
		}

		if s, ok := p.stats[e.KillerID]; ok {
			s.Kills++
			s.KillTimeline = append(s.KillTimeline, e.TimestampMS)
			if e.Bounty > 0 {
				s.BountyGold += e.Bounty
			}
			if phaseOf(e.TimestampMS) == phaseEarly {
				s.EarlyKills++
			}
		}
		if s, ok := p.stats[e.VictimID]; ok {
			s.Deaths++
			s.DeathTimeline = append(s.DeathTimeline, e.TimestampMS)
			if phaseOf(e.TimestampMS) == phaseEarly {
				s.EarlyDeaths++
			}
		}
		for _, id := range e.AssistingIDs {
			if s, ok := p.stats[id]; ok {
				s.Assists++
				s.AssistTimeline = append(s.AssistTimeline, e.TimestampMS)
			}
		}

	case model.ChampionSpecialKill:
		s, ok := p.stats[e.KillerID]
		if !ok {
			return
		}
		if e.KillType == "KILL_FIRST_BLOOD" {
			s.FirstBlood = true
		}
		if e.MultiKillLength >= 2 {
			s.MultiKills[multiKillName(e.MultiKillLength)]++
		}

	case model.LevelUp:
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.LevelUps = append(s.LevelUps, model.LevelUpEntry{TimestampMS: e.TimestampMS, Level: e.Level})
		}

	case model.SkillLevelUp:
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.SkillUps[e.SkillSlot]++
			s.SkillOrder = append(s.SkillOrder, model.SkillUpEntry{TimestampMS: e.TimestampMS, Slot: e.SkillSlot})
		}

	case model.ItemPurchased:
		if e.ItemID <= 0 {
			return // sell/consume marker
		}
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.ItemsPurchased = append(s.ItemsPurchased, e.ItemID)
			s.PurchaseTimeline = append(s.PurchaseTimeline, model.ItemSample{TimestampMS: e.TimestampMS, ItemID: e.ItemID})
			s.TotalItemsBought++
		}

	case model.ItemSold:
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.ItemsSold = append(s.ItemsSold, e.ItemID)
			s.SoldTimeline = append(s.SoldTimeline, model.ItemSample{TimestampMS: e.TimestampMS, ItemID: e.ItemID})
		}

	case model.ItemDestroyed:
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.ItemsDestroyed = append(s.ItemsDestroyed, e.ItemID)
		}

	case model.ItemUndo:
		if s, ok := p.stats[e.ParticipantID]; ok {
			s.ItemUndos = append(s.ItemUndos, model.ItemUndoEntry{
				TimestampMS: e.TimestampMS,
				BeforeID:    e.BeforeID,
				GoldGained:  e.GoldGain,
			})
		}

	case model.TurretPlateDestroyed:
		if s, ok := p.stats[e.KillerID]; ok {
			s.TurretPlatesDestroyed++
		}

	case model.BuildingKill:
		if s, ok := p.stats[e.KillerID]; ok {
			if e.BuildingType == "TOWER_BUILDING" {
				s.TowerParticipation++
			}
			// Structure bounty goes to the killer only.
			if e.Bounty > 0 {
				s.ShutdownGold += e.Bounty
			}
		}
		if e.BuildingType == "TOWER_BUILDING" {
			for _, id := range e.AssistingIDs {
				if s, ok := p.stats[id]; ok {
					s.TowerParticipation++
				}
			}
		}

	case model.EliteMonsterKill:
		if s, ok := p.stats[e.KillerID]; ok {
			switch e.MonsterType {
			case "DRAGON":
				s.DragonParticipation++
			case "BARON_NASHOR":
				s.BaronParticipation++
			case "RIFTHERALD":
				s.HeraldParticipation++
			}
		}
		for _, id := range e.AssistingIDs {
			s, ok := p.stats[id]
			if !ok {
				continue
			}
			switch e.MonsterType {
			case "DRAGON":
				s.DragonParticipation++
			case "BARON_NASHOR":
				s.BaronParticipation++
			case "RIFTHERALD":
				if p.opts.CreditHeraldAssists {
					s.HeraldParticipation++
				}
			}
		}

	case model.GameEnd:
		for _, s := range p.stats {
			s.Victory = s.TeamID == e.WinningTeam
		}
	}
}

// multiKillName maps a multi-kill length to its counter key.
func multiKillName(n int) string {
	switch n {
	case 2:
		return "DOUBLE"
	case 3:
		return "TRIPLE"
	case 4:
		return "QUADRA"
	case 5:
		return "PENTA"
	default:
		return fmt.Sprintf("%dKILL", n)
	}
}

// TeamTotalKills sums kills per team over the finalized participants.
func TeamTotalKills(stats map[int]*model.ParticipantStats) map[int]int {
	totals := map[int]int{model.TeamBlue: 0, model.TeamRed: 0}
	for _, s := range stats {
		totals[s.TeamID] += s.Kills
	}
	return totals
}

// Derive computes the metrics that need global totals unavailable during the
// streaming pass. It mutates the derived fields once; everything else is
// left untouched. This is the last write the stats records ever see.
func Derive(stats map[int]*model.ParticipantStats, durationMin float64, teamKills map[int]int) {
	for _, s := range stats {
		// CS per minute
		if durationMin > 0 {
			s.CSPerMin = s.FinalCS() / durationMin
		}

		// Kill participation
		if tk := teamKills[s.TeamID]; tk > 0 {
			s.KillParticipationPct = float64(s.Kills+s.Assists) / float64(tk) * 100
		}

		// KDA with deaths floored to 1 — a deliberate floor, not rounding.
		deaths := s.Deaths
		if deaths == 0 {
			deaths = 1
		}
		s.KDA = float64(s.Kills+s.Assists) / float64(deaths)

		// Damage dealt per gold earned
		if gold := s.FinalTotalGold(); gold > 0 {
			s.GoldEfficiency = float64(s.DamageToChampions) / float64(gold)
		}

		// Damage to champions per minute
		if n := len(s.DamageToChampionsTimeline); n > 0 && durationMin > 0 {
			s.DamagePerMin = s.DamageToChampionsTimeline[n-1].Value / durationMin
		}

		// Ward survival rate exists only once a ward was placed.
		if s.WardsPlaced > 0 {
			rate := float64(s.WardsPlaced-s.WardsKilled) / float64(s.WardsPlaced) * 100
			s.WardSurvivalRate = &rate
		}

		// Estimated vision score
		s.VisionScore = float64(s.WardsPlaced) + float64(s.WardsKilled)*0.5

		// First purchase / sixth purchase timestamps in minutes
		if len(s.PurchaseTimeline) > 0 {
			t := float64(s.PurchaseTimeline[0].TimestampMS) / 1000 / 60
			s.FirstItemMin = &t
		}
		if len(s.PurchaseTimeline) >= 6 {
			t := float64(s.PurchaseTimeline[5].TimestampMS) / 1000 / 60
			s.FullBuildMin = &t
		}
	}
}

// BuildTeamStats rolls the finalized participants up into the two team
// aggregates. Pure sums; call only after Aggregate and Derive.
func BuildTeamStats(stats map[int]*model.ParticipantStats) map[int]*model.TeamStats {
	teams := map[int]*model.TeamStats{
		model.TeamBlue: {TeamID: model.TeamBlue, Side: model.SideName(model.TeamBlue)},
		model.TeamRed:  {TeamID: model.TeamRed, Side: model.SideName(model.TeamRed)},
	}
	for _, s := range stats {
		t := teams[s.TeamID]
		t.Kills += s.Kills
		t.Deaths += s.Deaths
		t.WardsPlaced += s.WardsPlaced
		t.DamageToChampions += s.DamageToChampions
		t.TotalCS += int(s.FinalCS())
		t.TotalGold += s.FinalTotalGold()
		t.Victory = t.Victory || s.Victory
	}
	return teams
}

// Summarize builds the lightweight match record for storage and listings.
func Summarize(tl *model.Timeline, stats map[int]*model.ParticipantStats) model.MatchSummary {
	teamKills := TeamTotalKills(stats)
	summary := model.MatchSummary{
		MatchID:         tl.MatchID,
		DurationMinutes: tl.DurationMinutes(),
		BlueKills:       teamKills[model.TeamBlue],
		RedKills:        teamKills[model.TeamRed],
	}
	for _, s := range stats {
		if s.Victory {
			summary.WinningTeam = s.TeamID
			break
		}
	}
	return summary
}

// Participants returns the stats records ordered by participant id.
func Participants(stats map[int]*model.ParticipantStats) []*model.ParticipantStats {
	out := make([]*model.ParticipantStats, 0, len(stats))
	for id := 1; id <= model.ParticipantCount; id++ {
		if s, ok := stats[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
