package model

import "fmt"

// Team identifiers as they appear in the timeline document.
const (
	TeamBlue = 100
	TeamRed  = 200
)

// ParticipantCount is the fixed size of the participant set; ids 1-5 are
// Blue, 6-10 Red.
const ParticipantCount = 10

// TeamForParticipant maps a participant id to its team identifier.
func TeamForParticipant(id int) int {
	if id <= 5 {
		return TeamBlue
	}
	return TeamRed
}

// SideName returns the display name for a team identifier.
func SideName(team int) string {
	switch team {
	case TeamBlue:
		return "Blue"
	case TeamRed:
		return "Red"
	default:
		return "?"
	}
}

// ---- Timeline input (produced by the timeline loader) ----

// Timeline is the ordered frame sequence for a single match.
type Timeline struct {
	MatchID string
	Frames  []Frame
}

// DurationMS is the timestamp of the last frame, i.e. the game length.
func (t *Timeline) DurationMS() int64 {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[len(t.Frames)-1].TimestampMS
}

// DurationMinutes converts the game length to minutes.
func (t *Timeline) DurationMinutes() float64 {
	return float64(t.DurationMS()) / 1000 / 60
}

// Frame is one periodic snapshot of match state plus the discrete events
// that occurred in the interval ending at its timestamp.
type Frame struct {
	TimestampMS int64
	Snapshots   map[int]ParticipantSnapshot // participant id → state
	Events      []TimelineEvent
}

// ParticipantSnapshot is a participant's instantaneous stat block at a frame
// timestamp. Nested blocks are nil when absent from the document.
type ParticipantSnapshot struct {
	CurrentGold         int
	TotalGold           int
	GoldPerSecond       int
	MinionsKilled       int
	JungleMinionsKilled int
	Level               int
	XP                  int

	Champion *ChampionState
	Damage   *DamageState
	Position *Position

	// Cumulative time the participant's targets spent crowd-controlled.
	TimeEnemySpentControlled int
}

// ChampionState is the champion-attribute block of a snapshot.
type ChampionState struct {
	Health        int
	Power         int // mana or equivalent resource
	AttackDamage  int
	AbilityPower  int
	AttackSpeed   int
	Armor         int
	MagicResist   int
	MovementSpeed int
}

// DamageState is the cumulative damage block of a snapshot.
type DamageState struct {
	PhysicalDone         int
	MagicDone            int
	TrueDone             int
	TotalDone            int
	TotalDoneToChampions int

	PhysicalTaken int
	MagicTaken    int
	TrueTaken     int
	TotalTaken    int
}

// Position is a 2-D map coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ---- Timeline events ----

// TimelineEvent is one discrete, timestamped occurrence within a frame.
// Each recognized event tag has its own concrete type; the aggregator
// dispatches with a type switch.
type TimelineEvent interface {
	EventTimestamp() int64
}

type WardPlaced struct {
	TimestampMS int64
	CreatorID   int
	WardType    string
}

type WardKill struct {
	TimestampMS int64
	KillerID    int
	WardType    string
}

type ChampionKill struct {
	TimestampMS  int64
	KillerID     int // 0 = no killer (execution)
	VictimID     int
	AssistingIDs []int
	Bounty       int
}

type ChampionSpecialKill struct {
	TimestampMS     int64
	KillerID        int
	KillType        string
	MultiKillLength int
}

type LevelUp struct {
	TimestampMS   int64
	ParticipantID int
	Level         int
}

type SkillLevelUp struct {
	TimestampMS   int64
	ParticipantID int
	SkillSlot     int
}

type ItemPurchased struct {
	TimestampMS   int64
	ParticipantID int
	ItemID        int
}

type ItemSold struct {
	TimestampMS   int64
	ParticipantID int
	ItemID        int
}

type ItemDestroyed struct {
	TimestampMS   int64
	ParticipantID int
	ItemID        int
}

type ItemUndo struct {
	TimestampMS   int64
	ParticipantID int
	BeforeID      int
	AfterID       int
	GoldGain      int
}

type TurretPlateDestroyed struct {
	TimestampMS int64
	KillerID    int
	LaneType    string
}

type BuildingKill struct {
	TimestampMS  int64
	KillerID     int
	AssistingIDs []int
	BuildingType string
	TowerType    string
	Bounty       int
}

type EliteMonsterKill struct {
	TimestampMS    int64
	KillerID       int
	AssistingIDs   []int
	MonsterType    string
	MonsterSubType string
}

type GameEnd struct {
	TimestampMS int64
	WinningTeam int
}

func (e WardPlaced) EventTimestamp() int64           { return e.TimestampMS }
func (e WardKill) EventTimestamp() int64             { return e.TimestampMS }
func (e ChampionKill) EventTimestamp() int64         { return e.TimestampMS }
func (e ChampionSpecialKill) EventTimestamp() int64  { return e.TimestampMS }
func (e LevelUp) EventTimestamp() int64              { return e.TimestampMS }
func (e SkillLevelUp) EventTimestamp() int64         { return e.TimestampMS }
func (e ItemPurchased) EventTimestamp() int64        { return e.TimestampMS }
func (e ItemSold) EventTimestamp() int64             { return e.TimestampMS }
func (e ItemDestroyed) EventTimestamp() int64        { return e.TimestampMS }
func (e ItemUndo) EventTimestamp() int64             { return e.TimestampMS }
func (e TurretPlateDestroyed) EventTimestamp() int64 { return e.TimestampMS }
func (e BuildingKill) EventTimestamp() int64         { return e.TimestampMS }
func (e EliteMonsterKill) EventTimestamp() int64     { return e.TimestampMS }
func (e GameEnd) EventTimestamp() int64              { return e.TimestampMS }

// ---- Per-frame metric samples ----

// Sample is one (timestamp, value) point of a metric series.
type Sample struct {
	TimestampMS int64   `json:"timestamp_ms"`
	Value       float64 `json:"value"`
}

// GoldSample keeps both the spendable and cumulative gold at a frame.
type GoldSample struct {
	TimestampMS int64 `json:"timestamp_ms"`
	CurrentGold int   `json:"current_gold"`
	TotalGold   int   `json:"total_gold"`
}

// ItemSample is one timestamped item transaction.
type ItemSample struct {
	TimestampMS int64 `json:"timestamp_ms"`
	ItemID      int   `json:"item_id"`
}

// ItemUndoEntry records a reverted purchase.
type ItemUndoEntry struct {
	TimestampMS int64 `json:"timestamp_ms"`
	BeforeID    int   `json:"before_id"`
	GoldGained  int   `json:"gold_gained"`
}

// LevelUpEntry is one level-up occurrence.
type LevelUpEntry struct {
	TimestampMS int64 `json:"timestamp_ms"`
	Level       int   `json:"level"`
}

// SkillUpEntry is one skill-point allocation.
type SkillUpEntry struct {
	TimestampMS int64 `json:"timestamp_ms"`
	Slot        int   `json:"slot"`
}

// PositionSample is a timestamped map position.
type PositionSample struct {
	X           int   `json:"x"`
	Y           int   `json:"y"`
	TimestampMS int64 `json:"timestamp_ms"`
}

// ---- Aggregated statistics ----

// ParticipantStats is the accumulator and output record for one participant.
// Raw fields are filled by the aggregation pass; derived fields by the
// derived-metrics pass. Cumulative fields track the game's own running
// counters and are monotonically non-decreasing across frames.
type ParticipantStats struct {
	ParticipantID int    `json:"participant_id"`
	TeamID        int    `json:"team"`
	TeamSide      string `json:"team_side"`
	Victory       bool   `json:"victory"`

	// Economy
	GoldTimeline []GoldSample `json:"gold_timeline"`
	GoldPerMin   []float64    `json:"gold_per_min"`
	BountyGold   int          `json:"bounty_gold"`
	ShutdownGold int          `json:"shutdown_gold_earned"`

	// Farm. The three phase buckets partition total CS; they are rewritten
	// from the running cumulative CS until each phase ends, so they are only
	// valid once the whole timeline has been processed, never mid-pass.
	CSTimeline    []Sample `json:"cs_timeline"`
	MinionsKilled int      `json:"minions_killed"`
	JungleKilled  int      `json:"jungle_killed"`
	CSEarly       int      `json:"cs_first_10min"`
	CSMid         int      `json:"cs_10_25min"`
	CSLate        int      `json:"cs_25_plus"`

	// Level and experience
	LevelTimeline []Sample       `json:"level_timeline"`
	XPTimeline    []Sample       `json:"xp_timeline"`
	MaxLevel      int            `json:"max_level"`
	LevelUps      []LevelUpEntry `json:"level_ups"`
	SkillUps      map[int]int    `json:"skill_ups"`
	SkillOrder    []SkillUpEntry `json:"skill_order"`

	// Vision
	WardsPlaced         int            `json:"wards_placed"`
	WardsPlacedTimeline []int64        `json:"wards_placed_timeline"`
	WardsKilled         int            `json:"wards_killed"`
	WardsKilledTimeline []int64        `json:"wards_killed_timeline"`
	WardsByType         map[string]int `json:"wards_by_type"`
	PinkWardsPlaced     int            `json:"pink_wards_placed"`
	PinkWardsKilled     int            `json:"pink_wards_killed"`

	// Combat
	Kills            int            `json:"kills"`
	Deaths           int            `json:"deaths"`
	Assists          int            `json:"assists"`
	KillTimeline     []int64        `json:"kill_timeline"`
	DeathTimeline    []int64        `json:"death_timeline"`
	AssistTimeline   []int64        `json:"assist_timeline"`
	EarlyKills       int            `json:"kills_first_10min"`
	EarlyDeaths      int            `json:"deaths_first_10min"`
	FirstBlood       bool           `json:"first_blood"`
	FirstBloodVictim bool           `json:"first_blood_victim"`
	MultiKills       map[string]int `json:"multi_kills"`

	// Damage (running maxima of the snapshot's cumulative counters)
	DamageDealtTotal          int      `json:"damage_dealt_total"`
	DamageToChampions         int      `json:"damage_dealt_to_champs"`
	DamageToChampionsTimeline []Sample `json:"damage_to_champs_timeline"`
	PhysicalDamage            int      `json:"physical_damage"`
	MagicDamage               int      `json:"magic_damage"`
	TrueDamage                int      `json:"true_damage"`
	DamageTaken               int      `json:"damage_taken"`
	DamageTakenTimeline       []Sample `json:"damage_taken_timeline"`
	PhysicalDamageTaken       int      `json:"physical_damage_taken"`
	MagicDamageTaken          int      `json:"magic_damage_taken"`
	TrueDamageTaken           int      `json:"true_damage_taken"`

	// Champion state over time
	HealthTimeline       []Sample `json:"health_timeline"`
	ResourceTimeline     []Sample `json:"resource_timeline"`
	AttackDamageTimeline []Sample `json:"attack_damage_timeline"`
	AbilityPowerTimeline []Sample `json:"ability_power_timeline"`
	AttackSpeedTimeline  []Sample `json:"attack_speed_timeline"`
	ArmorTimeline        []Sample `json:"armor_timeline"`
	MagicResistTimeline  []Sample `json:"magic_resist_timeline"`
	MoveSpeedTimeline    []Sample `json:"movement_speed_timeline"`

	// Items
	ItemsPurchased   []int           `json:"items_purchased"`
	PurchaseTimeline []ItemSample    `json:"items_purchased_timeline"`
	ItemsSold        []int           `json:"items_sold"`
	SoldTimeline     []ItemSample    `json:"items_sold_timeline"`
	ItemsDestroyed   []int           `json:"items_destroyed"`
	ItemUndos        []ItemUndoEntry `json:"item_undo"`
	TotalItemsBought int             `json:"total_items_bought"`

	// Objectives
	TurretPlatesDestroyed int `json:"turret_plates_destroyed"`
	TowerParticipation    int `json:"tower_participation"`
	DragonParticipation   int `json:"dragon_participation"`
	BaronParticipation    int `json:"baron_participation"`
	HeraldParticipation   int `json:"herald_participation"`

	// Position and crowd control
	Positions           []PositionSample `json:"positions"`
	TimeEnemyControlled int              `json:"time_enemy_spent_controlled"`

	// Derived metrics (written once by the derived-metrics pass)
	CSPerMin             float64  `json:"cs_per_min"`
	KillParticipationPct float64  `json:"kill_participation"`
	KDA                  float64  `json:"kda"`
	GoldEfficiency       float64  `json:"gold_efficiency"`
	DamagePerMin         float64  `json:"damage_per_min"`
	WardSurvivalRate     *float64 `json:"ward_survival_rate,omitempty"` // nil when no wards placed
	VisionScore          float64  `json:"vision_score"`
	FirstItemMin         *float64 `json:"first_item_time_min,omitempty"`
	FullBuildMin         *float64 `json:"full_build_time_min,omitempty"` // nil until 6 purchases
}

// NewParticipantStats creates a zeroed accumulator for one participant id.
func NewParticipantStats(id int) *ParticipantStats {
	team := TeamForParticipant(id)
	return &ParticipantStats{
		ParticipantID: id,
		TeamID:        team,
		TeamSide:      SideName(team),
		SkillUps:      make(map[int]int),
		WardsByType:   make(map[string]int),
		MultiKills:    make(map[string]int),
	}
}

// TotalCS is lane plus jungle creep score.
func (s *ParticipantStats) TotalCS() int {
	return s.MinionsKilled + s.JungleKilled
}

// FinalTotalGold is the cumulative gold at the last frame, 0 with no samples.
func (s *ParticipantStats) FinalTotalGold() int {
	if len(s.GoldTimeline) == 0 {
		return 0
	}
	return s.GoldTimeline[len(s.GoldTimeline)-1].TotalGold
}

// FinalCurrentGold is the spendable gold at the last frame.
func (s *ParticipantStats) FinalCurrentGold() int {
	if len(s.GoldTimeline) == 0 {
		return 0
	}
	return s.GoldTimeline[len(s.GoldTimeline)-1].CurrentGold
}

// FinalCS is the cumulative creep score at the last frame.
func (s *ParticipantStats) FinalCS() float64 {
	if len(s.CSTimeline) == 0 {
		return 0
	}
	return s.CSTimeline[len(s.CSTimeline)-1].Value
}

// KDADisplay formats kills/deaths/assists the usual way.
func (s *ParticipantStats) KDADisplay() string {
	return fmt.Sprintf("%d/%d/%d", s.Kills, s.Deaths, s.Assists)
}

// TeamStats is a read-only rollup over a team's five members, computed after
// all participants are finalized. It owns no independent state.
type TeamStats struct {
	TeamID            int    `json:"team"`
	Side              string `json:"side"`
	Victory           bool   `json:"victory"`
	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	TotalGold         int    `json:"total_gold"`
	TotalCS           int    `json:"total_cs"`
	DamageToChampions int    `json:"damage_to_champions"`
	WardsPlaced       int    `json:"wards_placed"`
}

// KDA is team kills per death, deaths floored to 1.
func (t *TeamStats) KDA() float64 {
	deaths := t.Deaths
	if deaths == 0 {
		deaths = 1
	}
	return float64(t.Kills) / float64(deaths)
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID         string  `json:"match_id"`
	DurationMinutes float64 `json:"game_duration_minutes"`
	WinningTeam     int     `json:"winning_team"`
	BlueKills       int     `json:"blue_kills"`
	RedKills        int     `json:"red_kills"`
}

// ExportDocument is the serialized report: every accumulator and time series
// verbatim, plus the match identifier and duration.
type ExportDocument struct {
	MatchID             string                    `json:"match_id"`
	GameDurationMinutes float64                   `json:"game_duration_minutes"`
	Players             map[int]*ParticipantStats `json:"players"`
	Teams               map[int]*TeamStats        `json:"teams"`
}
