// Output rows written by the simulator's writers, with greptime tags
package telemetry

import (
	"os"
	"time"
)

// StateRow is a per-tick snapshot of one game session.
type StateRow struct {
	SessionID        string    `json:"session_id"` // TAG
	Tick             int64     `json:"tick"`
	Wave             int       `json:"wave"`
	Phase            string    `json:"phase"`
	Difficulty       float64   `json:"difficulty"`
	Health           float64   `json:"health"`
	Ammo             int       `json:"ammo"`
	Lives            int       `json:"lives"`
	Score            int       `json:"score"`
	EnemiesAlive     int       `json:"enemies_alive"`
	EnemiesRemaining int       `json:"enemies_remaining"`
	Torpedoes        int       `json:"torpedoes"`
	Pickups          int       `json:"pickups"`
	X                float64   `json:"x"`
	Y                float64   `json:"y"`
	Z                float64   `json:"z"`
	Heading          float64   `json:"heading_deg"`
	GameOver         bool      `json:"game_over"`
	Timestamp        time.Time `json:"ts"` // TIME INDEX
}

// EventRow records one gameplay event.
type EventRow struct {
	SessionID string    `json:"session_id"` // TAG
	Kind      string    `json:"kind"`       // TAG
	EntityID  string    `json:"entity_id,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	Radius    float64   `json:"radius,omitempty"`
	Size      float64   `json:"size,omitempty"`
	Wave      int       `json:"wave,omitempty"`
	Value     float64   `json:"value,omitempty"`
	Message   string    `json:"message,omitempty"`
	GameTime  int64     `json:"game_time_ms"`
	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// ScoreRow is the final result of a finished game.
type ScoreRow struct {
	SessionID       string    `json:"session_id"`  // TAG
	PlayerName      string    `json:"player_name"` // TAG
	Score           int       `json:"score"`
	Wave            int       `json:"wave"`
	HighestWave     int       `json:"highest_wave"`
	Difficulty      float64   `json:"difficulty"`
	PlayTimeSeconds int       `json:"play_time_seconds"`
	GameMode        string    `json:"game_mode"`
	Timestamp       time.Time `json:"ts"` // TIME INDEX
}

func tableName(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// Table names used when writing to GreptimeDB. Each can be overridden via
// its environment variable.
var (
	StateTableName = tableName("GREPTIMEDB_STATE_TABLE", "game_state")
	EventTableName = tableName("GREPTIMEDB_EVENT_TABLE", "game_events")
	ScoreTableName = tableName("GREPTIMEDB_SCORE_TABLE", "game_scores")
)
