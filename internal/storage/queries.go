package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pable/go-lol-metrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(match_id, duration_min, winning_team, blue_kills, red_kills)
		VALUES (?, ?, ?, ?, ?)`,
		summary.MatchID, summary.DurationMinutes, summary.WinningTeam,
		summary.BlueKills, summary.RedKills,
	)
	return err
}

// InsertParticipantStats bulk-inserts participant stats in a transaction.
// The full record (including every time series) is stored as JSON alongside
// the scalar columns used for ad-hoc queries.
func (db *DB) InsertParticipantStats(matchID string, stats []*model.ParticipantStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO participant_stats(
			match_id, participant_id, team, team_side, victory,
			kills, deaths, assists, early_kills, early_deaths,
			first_blood, first_blood_victim,
			minions_killed, jungle_killed, cs_early, cs_mid, cs_late,
			max_level, total_gold, bounty_gold, shutdown_gold,
			damage_total, damage_to_champions, damage_taken,
			wards_placed, wards_killed, pink_wards_placed, pink_wards_killed,
			turret_plates, tower_participation, dragon_participation,
			baron_participation, herald_participation,
			kda, kill_participation, cs_per_min, gold_efficiency,
			damage_per_min, ward_survival_rate, vision_score,
			stats_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		          ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		blob, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal participant %d: %w", s.ParticipantID, err)
		}
		var survival sql.NullFloat64
		if s.WardSurvivalRate != nil {
			survival = sql.NullFloat64{Float64: *s.WardSurvivalRate, Valid: true}
		}
		_, err = stmt.Exec(
			matchID, s.ParticipantID, s.TeamID, s.TeamSide, boolInt(s.Victory),
			s.Kills, s.Deaths, s.Assists, s.EarlyKills, s.EarlyDeaths,
			boolInt(s.FirstBlood), boolInt(s.FirstBloodVictim),
			s.MinionsKilled, s.JungleKilled, s.CSEarly, s.CSMid, s.CSLate,
			s.MaxLevel, s.FinalTotalGold(), s.BountyGold, s.ShutdownGold,
			s.DamageDealtTotal, s.DamageToChampions, s.DamageTaken,
			s.WardsPlaced, s.WardsKilled, s.PinkWardsPlaced, s.PinkWardsKilled,
			s.TurretPlatesDestroyed, s.TowerParticipation, s.DragonParticipation,
			s.BaronParticipation, s.HeraldParticipation,
			s.KDA, s.KillParticipationPct, s.CSPerMin, s.GoldEfficiency,
			s.DamagePerMin, survival, s.VisionScore,
			string(blob),
		)
		if err != nil {
			return fmt.Errorf("insert participant %d: %w", s.ParticipantID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, duration_min, winning_team, blue_kills, red_kills
		FROM matches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.DurationMinutes, &s.WinningTeam,
			&s.BlueKills, &s.RedKills); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds a stored match by id prefix. Returns nil when no
// match starts with the prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT match_id, duration_min, winning_team, blue_kills, red_kills
		FROM matches WHERE match_id LIKE ? LIMIT 1`, prefix+"%").
		Scan(&s.MatchID, &s.DurationMinutes, &s.WinningTeam, &s.BlueKills, &s.RedKills)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetParticipantStats returns the full stats records for a match, ordered by
// participant id, reconstructed from the stored JSON.
func (db *DB) GetParticipantStats(matchID string) ([]*model.ParticipantStats, error) {
	rows, err := db.conn.Query(`
		SELECT stats_json FROM participant_stats
		WHERE match_id = ? ORDER BY participant_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ParticipantStats
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var s model.ParticipantStats
		if err := json.Unmarshal([]byte(blob), &s); err != nil {
			return nil, fmt.Errorf("unmarshal participant stats: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// DeleteMatch removes a match and its participant stats.
func (db *DB) DeleteMatch(matchID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM participant_stats WHERE match_id = ?", matchID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID); err != nil {
		return err
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary query and returns column names plus stringified
// rows, for the sql command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			switch val := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(val)
			default:
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
