// Package timeline loads a match-timeline document (Riot match-v5 timeline
// JSON) into the in-memory model. A structurally invalid document is the one
// fatal condition of the whole run; missing optional fields decode to zero
// values and unknown event tags are dropped.
package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pable/go-lol-metrics/internal/model"
)

// Load reads and decodes the timeline document at path.
func Load(path string) (*model.Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timeline: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a timeline document from r.
func Decode(r io.Reader) (*model.Timeline, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	if len(doc.Info.Frames) == 0 {
		return nil, fmt.Errorf("timeline has no frames")
	}

	matchID := doc.Metadata.MatchID
	if matchID == "" {
		matchID = "unknown"
	}

	tl := &model.Timeline{
		MatchID: matchID,
		Frames:  make([]model.Frame, 0, len(doc.Info.Frames)),
	}
	for _, fj := range doc.Info.Frames {
		frame := model.Frame{
			TimestampMS: fj.Timestamp,
			Snapshots:   make(map[int]model.ParticipantSnapshot, len(fj.ParticipantFrames)),
		}
		for idStr, pf := range fj.ParticipantFrames {
			id, err := strconv.Atoi(idStr)
			if err != nil {
				continue // non-numeric participant key
			}
			frame.Snapshots[id] = pf.toModel()
		}
		for _, ej := range fj.Events {
			if ev := ej.decode(fj.Timestamp); ev != nil {
				frame.Events = append(frame.Events, ev)
			}
		}
		tl.Frames = append(tl.Frames, frame)
	}
	return tl, nil
}

// ---- Wire format ----

type document struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		Frames []frameJSON `json:"frames"`
	} `json:"info"`
}

type frameJSON struct {
	Timestamp         int64                        `json:"timestamp"`
	ParticipantFrames map[string]participantFrameJSON `json:"participantFrames"`
	Events            []eventJSON                  `json:"events"`
}

type participantFrameJSON struct {
	CurrentGold         int `json:"currentGold"`
	TotalGold           int `json:"totalGold"`
	GoldPerSecond       int `json:"goldPerSecond"`
	MinionsKilled       int `json:"minionsKilled"`
	JungleMinionsKilled int `json:"jungleMinionsKilled"`
	Level               int `json:"level"`
	XP                  int `json:"xp"`

	ChampionStats *championStatsJSON `json:"championStats"`
	DamageStats   *damageStatsJSON   `json:"damageStats"`
	Position      *model.Position    `json:"position"`

	TimeEnemySpentControlled int `json:"timeEnemySpentControlled"`
}

type championStatsJSON struct {
	Health        int `json:"health"`
	Power         int `json:"power"`
	Resource      int `json:"resource"` // older documents use "resource" for mana
	AttackDamage  int `json:"attackDamage"`
	AbilityPower  int `json:"abilityPower"`
	AttackSpeed   int `json:"attackSpeed"`
	Armor         int `json:"armor"`
	MagicResist   int `json:"magicResist"`
	MovementSpeed int `json:"movementSpeed"`
}

type damageStatsJSON struct {
	PhysicalDamageDone         int `json:"physicalDamageDone"`
	MagicDamageDone            int `json:"magicDamageDone"`
	TrueDamageDone             int `json:"trueDamageDone"`
	TotalDamageDone            int `json:"totalDamageDone"`
	TotalDamageDoneToChampions int `json:"totalDamageDoneToChampions"`
	PhysicalDamageTaken        int `json:"physicalDamageTaken"`
	MagicDamageTaken           int `json:"magicDamageTaken"`
	TrueDamageTaken            int `json:"trueDamageTaken"`
	TotalDamageTaken           int `json:"totalDamageTaken"`
}

func (pf participantFrameJSON) toModel() model.ParticipantSnapshot {
	snap := model.ParticipantSnapshot{
		CurrentGold:              pf.CurrentGold,
		TotalGold:                pf.TotalGold,
		GoldPerSecond:            pf.GoldPerSecond,
		MinionsKilled:            pf.MinionsKilled,
		JungleMinionsKilled:      pf.JungleMinionsKilled,
		Level:                    pf.Level,
		XP:                       pf.XP,
		Position:                 pf.Position,
		TimeEnemySpentControlled: pf.TimeEnemySpentControlled,
	}
	if cs := pf.ChampionStats; cs != nil {
		power := cs.Power
		if power == 0 {
			power = cs.Resource
		}
		snap.Champion = &model.ChampionState{
			Health:        cs.Health,
			Power:         power,
			AttackDamage:  cs.AttackDamage,
			AbilityPower:  cs.AbilityPower,
			AttackSpeed:   cs.AttackSpeed,
			Armor:         cs.Armor,
			MagicResist:   cs.MagicResist,
			MovementSpeed: cs.MovementSpeed,
		}
	}
	if ds := pf.DamageStats; ds != nil {
		snap.Damage = &model.DamageState{
			PhysicalDone:         ds.PhysicalDamageDone,
			MagicDone:            ds.MagicDamageDone,
			TrueDone:             ds.TrueDamageDone,
			TotalDone:            ds.TotalDamageDone,
			TotalDoneToChampions: ds.TotalDamageDoneToChampions,
			PhysicalTaken:        ds.PhysicalDamageTaken,
			MagicTaken:           ds.MagicDamageTaken,
			TrueTaken:            ds.TrueDamageTaken,
			TotalTaken:           ds.TotalDamageTaken,
		}
	}
	return snap
}

// eventJSON is the flat union of every recognized event's fields; decode
// narrows it to the matching typed variant.
type eventJSON struct {
	Type      string `json:"type"`
	Timestamp *int64 `json:"timestamp"` // nil inherits the frame timestamp

	ParticipantID           int    `json:"participantId"`
	CreatorID               int    `json:"creatorId"`
	KillerID                int    `json:"killerId"`
	VictimID                int    `json:"victimId"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds"`
	WardType                string `json:"wardType"`
	KillType                string `json:"killType"`
	MultiKillLength         int    `json:"multiKillLength"`
	Level                   int    `json:"level"`
	SkillSlot               int    `json:"skillSlot"`
	ItemID                  int    `json:"itemId"`
	BeforeID                int    `json:"beforeId"`
	AfterID                 int    `json:"afterId"`
	GoldGain                int    `json:"goldGain"`
	Bounty                  int    `json:"bounty"`
	LaneType                string `json:"laneType"`
	BuildingType            string `json:"buildingType"`
	TowerType               string `json:"towerType"`
	MonsterType             string `json:"monsterType"`
	MonsterSubType          string `json:"monsterSubType"`
	WinningTeam             int    `json:"winningTeam"`
}

func (e eventJSON) decode(frameTS int64) model.TimelineEvent {
	ts := frameTS
	if e.Timestamp != nil {
		ts = *e.Timestamp
	}
	switch e.Type {
	case "WARD_PLACED":
		return model.WardPlaced{TimestampMS: ts, CreatorID: e.CreatorID, WardType: wardType(e.WardType)}
	case "WARD_KILL":
		return model.WardKill{TimestampMS: ts, KillerID: e.KillerID, WardType: wardType(e.WardType)}
	case "CHAMPION_KILL":
		return model.ChampionKill{
			TimestampMS:  ts,
			KillerID:     e.KillerID,
			VictimID:     e.VictimID,
			AssistingIDs: e.AssistingParticipantIDs,
			Bounty:       e.Bounty,
		}
	case "CHAMPION_SPECIAL_KILL":
		return model.ChampionSpecialKill{
			TimestampMS:     ts,
			KillerID:        e.KillerID,
			KillType:        e.KillType,
			MultiKillLength: e.MultiKillLength,
		}
	case "LEVEL_UP":
		return model.LevelUp{TimestampMS: ts, ParticipantID: e.ParticipantID, Level: e.Level}
	case "SKILL_LEVEL_UP":
		return model.SkillLevelUp{TimestampMS: ts, ParticipantID: e.ParticipantID, SkillSlot: e.SkillSlot}
	case "ITEM_PURCHASED":
		return model.ItemPurchased{TimestampMS: ts, ParticipantID: e.ParticipantID, ItemID: e.ItemID}
	case "ITEM_SOLD":
		return model.ItemSold{TimestampMS: ts, ParticipantID: e.ParticipantID, ItemID: e.ItemID}
	case "ITEM_DESTROYED":
		return model.ItemDestroyed{TimestampMS: ts, ParticipantID: e.ParticipantID, ItemID: e.ItemID}
	case "ITEM_UNDO":
		return model.ItemUndo{
			TimestampMS:   ts,
			ParticipantID: e.ParticipantID,
			BeforeID:      e.BeforeID,
			AfterID:       e.AfterID,
			GoldGain:      e.GoldGain,
		}
	case "TURRET_PLATE_DESTROYED":
		return model.TurretPlateDestroyed{TimestampMS: ts, KillerID: e.KillerID, LaneType: e.LaneType}
	case "BUILDING_KILL":
		return model.BuildingKill{
			TimestampMS:  ts,
			KillerID:     e.KillerID,
			AssistingIDs: e.AssistingParticipantIDs,
			BuildingType: e.BuildingType,
			TowerType:    e.TowerType,
			Bounty:       e.Bounty,
		}
	case "ELITE_MONSTER_KILL":
		return model.EliteMonsterKill{
			TimestampMS:    ts,
			KillerID:       e.KillerID,
			AssistingIDs:   e.AssistingParticipantIDs,
			MonsterType:    e.MonsterType,
			MonsterSubType: e.MonsterSubType,
		}
	case "GAME_END":
		return model.GameEnd{TimestampMS: ts, WinningTeam: e.WinningTeam}
	default:
		return nil // unrecognized tag — skipped without error
	}
}

func wardType(wt string) string {
	if wt == "" {
		return "UNDEFINED"
	}
	return wt
}
