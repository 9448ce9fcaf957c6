package timeline

import (
	"strings"
	"testing"

	"github.com/pable/go-lol-metrics/internal/model"
)

const sampleDoc = `{
  "metadata": {"matchId": "EUW1_1234567890"},
  "info": {
    "frames": [
      {
        "timestamp": 60000,
        "participantFrames": {
          "1": {
            "currentGold": 350,
            "totalGold": 850,
            "goldPerSecond": 2,
            "minionsKilled": 12,
            "jungleMinionsKilled": 0,
            "level": 3,
            "xp": 740,
            "championStats": {"health": 620, "resource": 280, "attackDamage": 68},
            "damageStats": {"totalDamageDone": 4100, "totalDamageDoneToChampions": 900},
            "position": {"x": 1200, "y": 9800}
          },
          "bad-key": {"totalGold": 1}
        },
        "events": [
          {"type": "ITEM_PURCHASED", "timestamp": 12000, "participantId": 1, "itemId": 1055},
          {"type": "WARD_PLACED", "timestamp": 45000, "creatorId": 2},
          {"type": "PAUSE_END", "timestamp": 1}
        ]
      },
      {
        "timestamp": 120000,
        "participantFrames": {},
        "events": [
          {"type": "CHAMPION_KILL", "killerId": 1, "victimId": 6,
           "assistingParticipantIds": [2, 3], "bounty": 400}
        ]
      }
    ]
  }
}`

func TestDecode_Sample(t *testing.T) {
	tl, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tl.MatchID != "EUW1_1234567890" {
		t.Errorf("match id: want EUW1_1234567890, got %q", tl.MatchID)
	}
	if len(tl.Frames) != 2 {
		t.Fatalf("want 2 frames, got %d", len(tl.Frames))
	}
	if tl.DurationMinutes() != 2.0 {
		t.Errorf("duration: want 2.0min, got %f", tl.DurationMinutes())
	}

	frame := tl.Frames[0]
	if len(frame.Snapshots) != 1 {
		t.Fatalf("want 1 snapshot (non-numeric key dropped), got %d", len(frame.Snapshots))
	}
	snap, ok := frame.Snapshots[1]
	if !ok {
		t.Fatal("participant 1 snapshot missing")
	}
	if snap.TotalGold != 850 || snap.MinionsKilled != 12 || snap.Level != 3 {
		t.Errorf("snapshot scalars: got gold=%d cs=%d level=%d", snap.TotalGold, snap.MinionsKilled, snap.Level)
	}
	if snap.Champion == nil || snap.Champion.Power != 280 {
		t.Errorf("champion resource fallback: want Power=280, got %+v", snap.Champion)
	}
	if snap.Damage == nil || snap.Damage.TotalDoneToChampions != 900 {
		t.Errorf("damage block: want 900 to champions, got %+v", snap.Damage)
	}
	if snap.Position == nil || snap.Position.X != 1200 {
		t.Errorf("position: want x=1200, got %+v", snap.Position)
	}
}

func TestDecode_Events(t *testing.T) {
	tl, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The unrecognized PAUSE_END tag is dropped.
	events := tl.Frames[0].Events
	if len(events) != 2 {
		t.Fatalf("want 2 recognized events, got %d", len(events))
	}

	item, ok := events[0].(model.ItemPurchased)
	if !ok {
		t.Fatalf("want ItemPurchased, got %T", events[0])
	}
	if item.TimestampMS != 12000 || item.ItemID != 1055 {
		t.Errorf("purchase: want ts=12000 item=1055, got ts=%d item=%d", item.TimestampMS, item.ItemID)
	}

	// WardType defaults to UNDEFINED when absent.
	ward, ok := events[1].(model.WardPlaced)
	if !ok {
		t.Fatalf("want WardPlaced, got %T", events[1])
	}
	if ward.WardType != "UNDEFINED" {
		t.Errorf("ward type: want UNDEFINED, got %q", ward.WardType)
	}

	kill, ok := tl.Frames[1].Events[0].(model.ChampionKill)
	if !ok {
		t.Fatalf("want ChampionKill, got %T", tl.Frames[1].Events[0])
	}
	// No event timestamp: inherits the frame's.
	if kill.TimestampMS != 120000 {
		t.Errorf("kill timestamp: want inherited 120000, got %d", kill.TimestampMS)
	}
	if kill.KillerID != 1 || kill.VictimID != 6 || len(kill.AssistingIDs) != 2 || kill.Bounty != 400 {
		t.Errorf("kill fields: got %+v", kill)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not json")); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestDecode_NoFrames(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"metadata": {"matchId": "X"}, "info": {"frames": []}}`))
	if err == nil {
		t.Error("expected error for a timeline without frames")
	}
}

func TestDecode_MissingMatchID(t *testing.T) {
	tl, err := Decode(strings.NewReader(`{"info": {"frames": [{"timestamp": 1000}]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tl.MatchID != "unknown" {
		t.Errorf("match id fallback: want \"unknown\", got %q", tl.MatchID)
	}
}
