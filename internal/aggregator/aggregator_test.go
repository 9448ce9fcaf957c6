package aggregator

import (
	"testing"

	"github.com/pable/go-lol-metrics/internal/model"
)

// minMS converts minutes of game time to a millisecond timestamp.
func minMS(m float64) int64 {
	return int64(m * 60 * 1000)
}

// csFrame builds a frame with a single participant snapshot carrying the
// given lane/jungle CS split.
func csFrame(ts int64, id, minions, jungle int) model.Frame {
	return model.Frame{
		TimestampMS: ts,
		Snapshots: map[int]model.ParticipantSnapshot{
			id: {MinionsKilled: minions, JungleMinionsKilled: jungle},
		},
	}
}

// eventFrame builds a frame carrying only events.
func eventFrame(ts int64, events ...model.TimelineEvent) model.Frame {
	return model.Frame{TimestampMS: ts, Events: events}
}

func makeTimeline(frames ...model.Frame) *model.Timeline {
	return &model.Timeline{MatchID: "TEST_1", Frames: frames}
}

func mustAggregate(t *testing.T, tl *model.Timeline, opts Options) map[int]*model.ParticipantStats {
	t.Helper()
	stats, err := Aggregate(tl, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return stats
}

// ---- Basic contract ----

func TestAggregate_NilTimeline(t *testing.T) {
	if _, err := Aggregate(nil, Options{}); err == nil {
		t.Error("expected error for nil timeline")
	}
}

func TestAggregate_AllParticipantsSeeded(t *testing.T) {
	stats := mustAggregate(t, makeTimeline(), Options{})
	if len(stats) != model.ParticipantCount {
		t.Fatalf("expected %d participants, got %d", model.ParticipantCount, len(stats))
	}
	for id := 1; id <= model.ParticipantCount; id++ {
		s, ok := stats[id]
		if !ok {
			t.Fatalf("participant %d missing", id)
		}
		want := model.TeamForParticipant(id)
		if s.TeamID != want {
			t.Errorf("participant %d: want team %d, got %d", id, want, s.TeamID)
		}
	}
}

func TestAggregate_UnknownParticipantIgnored(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(5),
		model.ItemPurchased{TimestampMS: minMS(5), ParticipantID: 99, ItemID: 1055},
		model.WardPlaced{TimestampMS: minMS(5), CreatorID: 0, WardType: "YELLOW_TRINKET"},
	))
	stats := mustAggregate(t, tl, Options{})
	for id, s := range stats {
		if s.TotalItemsBought != 0 || s.WardsPlaced != 0 {
			t.Errorf("participant %d: expected no activity, got items=%d wards=%d",
				id, s.TotalItemsBought, s.WardsPlaced)
		}
	}
}

// ---- CS phase buckets ----

// TestPhaseBuckets_Partition: the three buckets must partition final CS,
// with the 10-minute frame landing in mid and the 25-minute frame in late.
func TestPhaseBuckets_Partition(t *testing.T) {
	tl := makeTimeline(
		csFrame(minMS(5), 1, 35, 5),    // early, cs 40
		csFrame(minMS(10), 1, 90, 10),  // exactly 10min → mid
		csFrame(minMS(20), 1, 180, 20), // mid, cs 200
		csFrame(minMS(25), 1, 220, 30), // exactly 25min → late
		csFrame(minMS(30), 1, 260, 40), // late, cs 300
	)
	stats := mustAggregate(t, tl, Options{})
	s := stats[1]

	if s.CSEarly != 40 {
		t.Errorf("CSEarly: want 40, got %d", s.CSEarly)
	}
	if s.CSMid != 160 {
		t.Errorf("CSMid: want 160, got %d", s.CSMid)
	}
	if s.CSLate != 100 {
		t.Errorf("CSLate: want 100, got %d", s.CSLate)
	}
	if sum := s.CSEarly + s.CSMid + s.CSLate; sum != 300 {
		t.Errorf("bucket sum: want 300 (final CS), got %d", sum)
	}
	if s.MinionsKilled != 260 || s.JungleKilled != 40 {
		t.Errorf("CS split: want 260/40, got %d/%d", s.MinionsKilled, s.JungleKilled)
	}
}

// TestPhaseBuckets_EarlyOnly: a game that never leaves the early phase keeps
// everything in the first bucket.
func TestPhaseBuckets_EarlyOnly(t *testing.T) {
	tl := makeTimeline(
		csFrame(minMS(3), 1, 20, 0),
		csFrame(minMS(8), 1, 60, 0),
	)
	s := mustAggregate(t, tl, Options{})[1]
	if s.CSEarly != 60 || s.CSMid != 0 || s.CSLate != 0 {
		t.Errorf("want buckets 60/0/0, got %d/%d/%d", s.CSEarly, s.CSMid, s.CSLate)
	}
}

// ---- Kills, deaths, first blood ----

func TestChampionKill_Accounting(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(8),
		model.ChampionKill{TimestampMS: minMS(8), KillerID: 1, VictimID: 6, AssistingIDs: []int{2, 3}, Bounty: 400},
	))
	stats := mustAggregate(t, tl, Options{})

	if stats[1].Kills != 1 || stats[1].EarlyKills != 1 {
		t.Errorf("killer: want 1 kill / 1 early kill, got %d/%d", stats[1].Kills, stats[1].EarlyKills)
	}
	if stats[1].BountyGold != 400 {
		t.Errorf("killer bounty: want 400, got %d", stats[1].BountyGold)
	}
	if stats[6].Deaths != 1 || stats[6].EarlyDeaths != 1 {
		t.Errorf("victim: want 1 death / 1 early death, got %d/%d", stats[6].Deaths, stats[6].EarlyDeaths)
	}
	for _, id := range []int{2, 3} {
		if stats[id].Assists != 1 {
			t.Errorf("participant %d: want 1 assist, got %d", id, stats[id].Assists)
		}
	}
}

// TestFirstBlood_OnlyFirstKill: only the first kill in the match can award
// first blood.
func TestFirstBlood_OnlyFirstKill(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(4),
		model.ChampionKill{TimestampMS: minMS(4), KillerID: 2, VictimID: 7},
		model.ChampionKill{TimestampMS: minMS(5), KillerID: 3, VictimID: 8},
	))
	stats := mustAggregate(t, tl, Options{})

	if !stats[2].FirstBlood {
		t.Error("participant 2 drew first blood, flag not set")
	}
	if !stats[7].FirstBloodVictim {
		t.Error("participant 7 died first, victim flag not set")
	}
	if stats[3].FirstBlood {
		t.Error("participant 3's later kill must not award first blood")
	}
}

// TestFirstBlood_ExecutionConsumesSlot: an opening kill with no killer (the
// 0 sentinel) still consumes the first-blood slot.
func TestFirstBlood_ExecutionConsumesSlot(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(3),
		model.ChampionKill{TimestampMS: minMS(3), KillerID: 0, VictimID: 4},
		model.ChampionKill{TimestampMS: minMS(4), KillerID: 6, VictimID: 1},
	))
	stats := mustAggregate(t, tl, Options{})

	if !stats[4].FirstBloodVictim {
		t.Error("execution victim should still be the first-blood victim")
	}
	for id, s := range stats {
		if s.FirstBlood {
			t.Errorf("participant %d: no one should hold first blood after an execution opener", id)
		}
	}
}

// ---- Multi-kills ----

func TestMultiKillName(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{2, "DOUBLE"},
		{3, "TRIPLE"},
		{4, "QUADRA"},
		{5, "PENTA"},
		{7, "7KILL"},
	}
	for _, c := range cases {
		if got := multiKillName(c.n); got != c.want {
			t.Errorf("multiKillName(%d): want %q, got %q", c.n, c.want, got)
		}
	}
}

func TestChampionSpecialKill_Counters(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(15),
		model.ChampionSpecialKill{TimestampMS: minMS(15), KillerID: 4, KillType: "KILL_MULTI", MultiKillLength: 3},
		model.ChampionSpecialKill{TimestampMS: minMS(16), KillerID: 4, KillType: "KILL_MULTI", MultiKillLength: 3},
		model.ChampionSpecialKill{TimestampMS: minMS(17), KillerID: 4, KillType: "KILL_FIRST_BLOOD", MultiKillLength: 0},
	))
	s := mustAggregate(t, tl, Options{})[4]

	if s.MultiKills["TRIPLE"] != 2 {
		t.Errorf("TRIPLE count: want 2, got %d", s.MultiKills["TRIPLE"])
	}
	if !s.FirstBlood {
		t.Error("KILL_FIRST_BLOOD special kill should set the first-blood flag")
	}
}

// ---- Items ----

func TestItemPurchased_IgnoresNonPositiveID(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(2),
		model.ItemPurchased{TimestampMS: minMS(2), ParticipantID: 5, ItemID: 0},
		model.ItemPurchased{TimestampMS: minMS(2), ParticipantID: 5, ItemID: -1},
		model.ItemPurchased{TimestampMS: minMS(2), ParticipantID: 5, ItemID: 1055},
	))
	s := mustAggregate(t, tl, Options{})[5]

	if s.TotalItemsBought != 1 {
		t.Errorf("want 1 purchase recorded, got %d", s.TotalItemsBought)
	}
	if len(s.PurchaseTimeline) != 1 || s.PurchaseTimeline[0].ItemID != 1055 {
		t.Errorf("purchase timeline: want single 1055 entry, got %+v", s.PurchaseTimeline)
	}
}

// ---- Buildings and objectives ----

// TestBuildingKill_TowerOnly: participation counts only for tower buildings;
// the structure bounty goes to the killer regardless of type, never to
// assisters.
func TestBuildingKill_TowerOnly(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(22),
		model.BuildingKill{TimestampMS: minMS(22), KillerID: 1, AssistingIDs: []int{2},
			BuildingType: "TOWER_BUILDING", TowerType: "OUTER_TURRET", Bounty: 250},
		model.BuildingKill{TimestampMS: minMS(23), KillerID: 3, AssistingIDs: []int{4},
			BuildingType: "INHIBITOR_BUILDING", Bounty: 50},
	))
	stats := mustAggregate(t, tl, Options{})

	if stats[1].TowerParticipation != 1 || stats[2].TowerParticipation != 1 {
		t.Errorf("tower kill: want killer and assister credited, got %d/%d",
			stats[1].TowerParticipation, stats[2].TowerParticipation)
	}
	if stats[1].ShutdownGold != 250 {
		t.Errorf("tower bounty: want 250 to killer, got %d", stats[1].ShutdownGold)
	}
	if stats[2].ShutdownGold != 0 {
		t.Errorf("assister must not collect structure bounty, got %d", stats[2].ShutdownGold)
	}
	if stats[3].TowerParticipation != 0 || stats[4].TowerParticipation != 0 {
		t.Errorf("inhibitor kill must not count as tower participation, got %d/%d",
			stats[3].TowerParticipation, stats[4].TowerParticipation)
	}
	if stats[3].ShutdownGold != 50 {
		t.Errorf("inhibitor bounty: want 50 to killer, got %d", stats[3].ShutdownGold)
	}
}

// TestEliteMonster_HeraldAssistCredit: assisters are credited for dragon and
// Baron kills; herald assists only when the option is enabled.
func TestEliteMonster_HeraldAssistCredit(t *testing.T) {
	frames := []model.Frame{eventFrame(minMS(20),
		model.EliteMonsterKill{TimestampMS: minMS(12), KillerID: 1, AssistingIDs: []int{2}, MonsterType: "DRAGON"},
		model.EliteMonsterKill{TimestampMS: minMS(14), KillerID: 1, AssistingIDs: []int{2}, MonsterType: "RIFTHERALD"},
		model.EliteMonsterKill{TimestampMS: minMS(20), KillerID: 1, AssistingIDs: []int{2}, MonsterType: "BARON_NASHOR"},
	)}

	stats := mustAggregate(t, makeTimeline(frames...), Options{})
	if stats[1].DragonParticipation != 1 || stats[1].HeraldParticipation != 1 || stats[1].BaronParticipation != 1 {
		t.Errorf("killer: want 1/1/1 objective credit, got %d/%d/%d",
			stats[1].DragonParticipation, stats[1].HeraldParticipation, stats[1].BaronParticipation)
	}
	if stats[2].DragonParticipation != 1 || stats[2].BaronParticipation != 1 {
		t.Errorf("assister: want dragon and Baron credit, got %d/%d",
			stats[2].DragonParticipation, stats[2].BaronParticipation)
	}
	if stats[2].HeraldParticipation != 0 {
		t.Errorf("assister herald credit must default off, got %d", stats[2].HeraldParticipation)
	}

	stats = mustAggregate(t, makeTimeline(frames...), Options{CreditHeraldAssists: true})
	if stats[2].HeraldParticipation != 1 {
		t.Errorf("CreditHeraldAssists: want assister herald credit 1, got %d", stats[2].HeraldParticipation)
	}
}

// ---- Game end ----

func TestGameEnd_SetsVictoryBySide(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(32),
		model.GameEnd{TimestampMS: minMS(32), WinningTeam: model.TeamRed},
	))
	stats := mustAggregate(t, tl, Options{})
	for id := 1; id <= 5; id++ {
		if stats[id].Victory {
			t.Errorf("Blue participant %d marked victorious in a Red win", id)
		}
	}
	for id := 6; id <= 10; id++ {
		if !stats[id].Victory {
			t.Errorf("Red participant %d not marked victorious", id)
		}
	}

	summary := Summarize(tl, stats)
	if summary.WinningTeam != model.TeamRed {
		t.Errorf("summary winning team: want %d, got %d", model.TeamRed, summary.WinningTeam)
	}
}

// ---- Derived metrics ----

func TestDerive_KDAFloorsDeaths(t *testing.T) {
	tl := makeTimeline(eventFrame(minMS(10),
		model.ChampionKill{TimestampMS: minMS(10), KillerID: 1, VictimID: 6, AssistingIDs: []int{2}},
		model.ChampionKill{TimestampMS: minMS(11), KillerID: 1, VictimID: 7},
		model.ChampionKill{TimestampMS: minMS(12), KillerID: 1, VictimID: 8, AssistingIDs: []int{2}},
		model.ChampionKill{TimestampMS: minMS(13), KillerID: 2, VictimID: 9},
	))
	stats := mustAggregate(t, tl, Options{})
	Derive(stats, 30, TeamTotalKills(stats))

	// Participant 1: 3 kills, 0 assists, 0 deaths → deaths floored to 1.
	if stats[1].KDA != 3.0 {
		t.Errorf("deathless KDA: want 3.0, got %f", stats[1].KDA)
	}
	// Participant 2: 1 kill + 2 assists over Blue's 4 team kills → 75%.
	if stats[2].KillParticipationPct != 75.0 {
		t.Errorf("kill participation: want 75.0, got %f", stats[2].KillParticipationPct)
	}
	// Red never scored: participation stays zero, no division by zero.
	if stats[6].KillParticipationPct != 0 {
		t.Errorf("zero-kill team participation: want 0, got %f", stats[6].KillParticipationPct)
	}
}

func TestDerive_RatesFromTimelines(t *testing.T) {
	snap := model.ParticipantSnapshot{
		TotalGold:     10000,
		MinionsKilled: 150,
		Damage:        &model.DamageState{TotalDoneToChampions: 20000, TotalDone: 30000},
	}
	tl := makeTimeline(model.Frame{
		TimestampMS: minMS(30),
		Snapshots:   map[int]model.ParticipantSnapshot{1: snap},
	})
	stats := mustAggregate(t, tl, Options{})
	Derive(stats, tl.DurationMinutes(), TeamTotalKills(stats))
	s := stats[1]

	if s.CSPerMin != 5.0 {
		t.Errorf("CS/min: want 5.0, got %f", s.CSPerMin)
	}
	if s.GoldEfficiency != 2.0 {
		t.Errorf("gold efficiency: want 2.0, got %f", s.GoldEfficiency)
	}
	want := 20000.0 / 30.0
	if s.DamagePerMin != want {
		t.Errorf("dmg/min: want %f, got %f", want, s.DamagePerMin)
	}
}

// TestDerive_WardSurvival: present only once a ward was placed.
func TestDerive_WardSurvival(t *testing.T) {
	events := make([]model.TimelineEvent, 0, 12)
	for i := 0; i < 10; i++ {
		events = append(events, model.WardPlaced{TimestampMS: minMS(1), CreatorID: 3, WardType: "YELLOW_TRINKET"})
	}
	events = append(events,
		model.WardKill{TimestampMS: minMS(5), KillerID: 3, WardType: "YELLOW_TRINKET"},
		model.WardKill{TimestampMS: minMS(6), KillerID: 3, WardType: "CONTROL_WARD"},
	)
	tl := makeTimeline(eventFrame(minMS(6), events...))
	stats := mustAggregate(t, tl, Options{})
	Derive(stats, 30, TeamTotalKills(stats))

	s := stats[3]
	if s.WardSurvivalRate == nil {
		t.Fatal("ward survival should be set once wards were placed")
	}
	if *s.WardSurvivalRate != 80.0 {
		t.Errorf("ward survival: want 80.0, got %f", *s.WardSurvivalRate)
	}
	if s.VisionScore != 11.0 {
		t.Errorf("vision score: want 11.0 (10 + 0.5×2), got %f", s.VisionScore)
	}
	if s.PinkWardsKilled != 1 {
		t.Errorf("pink wards killed: want 1, got %d", s.PinkWardsKilled)
	}

	if stats[4].WardSurvivalRate != nil {
		t.Error("ward survival must stay nil when no wards were placed")
	}
}

func TestDerive_BuildTimings(t *testing.T) {
	events := []model.TimelineEvent{
		model.ItemPurchased{TimestampMS: minMS(1.5), ParticipantID: 2, ItemID: 1001},
	}
	for i := 0; i < 5; i++ {
		events = append(events, model.ItemPurchased{TimestampMS: minMS(float64(4 + i*4)), ParticipantID: 2, ItemID: 3000 + i})
	}
	tl := makeTimeline(eventFrame(minMS(25), events...))
	stats := mustAggregate(t, tl, Options{})
	Derive(stats, 30, TeamTotalKills(stats))

	s := stats[2]
	if s.FirstItemMin == nil || *s.FirstItemMin != 1.5 {
		t.Fatalf("first item: want 1.5min, got %v", s.FirstItemMin)
	}
	if s.FullBuildMin == nil || *s.FullBuildMin != 20.0 {
		t.Fatalf("full build: want 20.0min (sixth purchase), got %v", s.FullBuildMin)
	}

	// Five purchases never complete a build.
	if stats[3].FullBuildMin != nil {
		t.Error("full build must stay nil below six purchases")
	}
}

// ---- Team rollup ----

func TestBuildTeamStats_Rollup(t *testing.T) {
	tl := makeTimeline(
		model.Frame{
			TimestampMS: minMS(30),
			Snapshots: map[int]model.ParticipantSnapshot{
				1: {TotalGold: 12000, MinionsKilled: 200},
				6: {TotalGold: 9000, MinionsKilled: 150},
			},
		},
		eventFrame(minMS(30),
			model.ChampionKill{TimestampMS: minMS(28), KillerID: 1, VictimID: 6},
			model.GameEnd{TimestampMS: minMS(30), WinningTeam: model.TeamBlue},
		),
	)
	stats := mustAggregate(t, tl, Options{})
	Derive(stats, 30, TeamTotalKills(stats))
	teams := BuildTeamStats(stats)

	blue, red := teams[model.TeamBlue], teams[model.TeamRed]
	if blue.Kills != 1 || red.Deaths != 1 {
		t.Errorf("rollup kills/deaths: want 1/1, got %d/%d", blue.Kills, red.Deaths)
	}
	if blue.TotalGold != 12000 || red.TotalGold != 9000 {
		t.Errorf("rollup gold: want 12000/9000, got %d/%d", blue.TotalGold, red.TotalGold)
	}
	if !blue.Victory || red.Victory {
		t.Errorf("rollup victory: want Blue only, got blue=%v red=%v", blue.Victory, red.Victory)
	}
	if blue.KDA() != 1.0 {
		t.Errorf("blue team KDA: want 1.0, got %f", blue.KDA())
	}
}

func TestParticipants_Ordered(t *testing.T) {
	stats := mustAggregate(t, makeTimeline(), Options{})
	players := Participants(stats)
	if len(players) != model.ParticipantCount {
		t.Fatalf("want %d players, got %d", model.ParticipantCount, len(players))
	}
	for i, s := range players {
		if s.ParticipantID != i+1 {
			t.Errorf("position %d: want participant %d, got %d", i, i+1, s.ParticipantID)
		}
	}
}
