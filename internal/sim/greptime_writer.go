package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"submarine-sim/internal/logging"
	"submarine-sim/internal/telemetry"
)

const defaultGreptimePort = 4001

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes game rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client     greptimeClient
	stateTable string
	eventTable string
	scoreTable string
	timeout    time.Duration
	log        *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint (host or host:port) and writes
// into database. Tables are created on first write.
func NewGreptimeDBWriter(endpoint, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{
		client:     client,
		stateTable: telemetry.StateTableName,
		eventTable: telemetry.EventTableName,
		scoreTable: telemetry.ScoreTableName,
		timeout:    5 * time.Second,
		log:        logging.Component(log, "greptime"),
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// No port given.
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log == nil {
		return slog.Default()
	}
	return w.log
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table, rows int) error {
	timeout := w.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.logger().Error("write failed", "table", name, "err", err)
		return err
	}
	w.logger().Debug("wrote rows", "table", name, "rows", rows)
	return nil
}

// WriteState inserts a single state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.StateRow) error {
	return w.WriteStates([]telemetry.StateRow{row})
}

// WriteStates inserts multiple state rows.
func (w *GreptimeDBWriter) WriteStates(rows []telemetry.StateRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddFieldColumn("tick", types.INT64)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("phase", types.STRING)
	tbl.AddFieldColumn("difficulty", types.FLOAT64)
	tbl.AddFieldColumn("health", types.FLOAT64)
	tbl.AddFieldColumn("ammo", types.INT64)
	tbl.AddFieldColumn("lives", types.INT64)
	tbl.AddFieldColumn("score", types.INT64)
	tbl.AddFieldColumn("enemies_alive", types.INT64)
	tbl.AddFieldColumn("enemies_remaining", types.INT64)
	tbl.AddFieldColumn("torpedoes", types.INT64)
	tbl.AddFieldColumn("pickups", types.INT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddFieldColumn("heading_deg", types.FLOAT64)
	tbl.AddFieldColumn("game_over", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(
			r.SessionID, r.Tick, int64(r.Wave), r.Phase, r.Difficulty, r.Health,
			int64(r.Ammo), int64(r.Lives), int64(r.Score),
			int64(r.EnemiesAlive), int64(r.EnemiesRemaining), int64(r.Torpedoes), int64(r.Pickups),
			r.X, r.Y, r.Z, r.Heading, r.GameOver, r.Timestamp,
		); err != nil {
			return err
		}
	}
	return w.write(w.stateTable, tbl, len(rows))
}

// WriteEvent inserts a single event row.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.EventRow) error {
	return w.WriteEvents([]telemetry.EventRow{row})
}

// WriteEvents inserts multiple event rows.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddTagColumn("kind", types.STRING)
	tbl.AddFieldColumn("entity_id", types.STRING)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddFieldColumn("radius", types.FLOAT64)
	tbl.AddFieldColumn("size", types.FLOAT64)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("value", types.FLOAT64)
	tbl.AddFieldColumn("message", types.STRING)
	tbl.AddFieldColumn("game_time_ms", types.INT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(
			r.SessionID, r.Kind, r.EntityID, r.X, r.Y, r.Z, r.Radius, r.Size,
			int64(r.Wave), r.Value, r.Message, r.GameTime, r.Timestamp,
		); err != nil {
			return err
		}
	}
	return w.write(w.eventTable, tbl, len(rows))
}

// WriteScore inserts the final score of a game.
func (w *GreptimeDBWriter) WriteScore(r telemetry.ScoreRow) error {
	tbl, err := table.New(w.scoreTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddTagColumn("player_name", types.STRING)
	tbl.AddFieldColumn("score", types.INT64)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("highest_wave", types.INT64)
	tbl.AddFieldColumn("difficulty", types.FLOAT64)
	tbl.AddFieldColumn("play_time_seconds", types.INT64)
	tbl.AddFieldColumn("game_mode", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(
		r.SessionID, r.PlayerName, int64(r.Score), int64(r.Wave), int64(r.HighestWave),
		r.Difficulty, int64(r.PlayTimeSeconds), r.GameMode, r.Timestamp,
	); err != nil {
		return err
	}
	return w.write(w.scoreTable, tbl, 1)
}
