// Package leaderboard persists finished games to a local SQLite database.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"submarine-sim/internal/logging"
	"submarine-sim/internal/telemetry"
)

const maxNameLen = 32

// Entry is one finished game.
type Entry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       string    `gorm:"size:64;uniqueIndex" json:"session_id"`
	PlayerName      string    `gorm:"size:32;index" json:"player_name"`
	Score           int       `gorm:"index" json:"score"`
	Wave            int       `json:"wave"`
	HighestWave     int       `json:"highest_wave"`
	Difficulty      float64   `gorm:"index" json:"difficulty"`
	PlayTimeSeconds int       `json:"play_time_seconds"`
	GameMode        string    `gorm:"size:16" json:"game_mode"`
	CreatedAt       time.Time `json:"created_at"`
}

// ErrInvalidEntry is returned for rows that cannot be ranked.
var ErrInvalidEntry = errors.New("invalid leaderboard entry")

// Store is a gorm-backed leaderboard.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// Open opens or creates the database at path. An empty path uses an
// in-memory database.
func Open(path string, log *slog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open leaderboard %q: %w", path, err)
	}
	if path == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("leaderboard sql handle: %w", err)
		}
		// each new connection to :memory: is a fresh database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate leaderboard: %w", err)
	}
	l := logging.Component(log, "leaderboard")
	l.Info("leaderboard ready", "path", path)
	return &Store{db: db, log: l}, nil
}

// Submit records a finished game. Names are trimmed and truncated; an empty
// name becomes "Captain".
func (s *Store) Submit(ctx context.Context, row telemetry.ScoreRow) error {
	if row.Score < 0 || row.Wave < 1 {
		return fmt.Errorf("%w: score=%d wave=%d", ErrInvalidEntry, row.Score, row.Wave)
	}
	name := strings.TrimSpace(row.PlayerName)
	if name == "" {
		name = "Captain"
	}
	name = truncateName(name, maxNameLen)
	created := row.Timestamp
	if created.IsZero() {
		created = time.Now()
	}
	e := Entry{
		SessionID:       row.SessionID,
		PlayerName:      name,
		Score:           row.Score,
		Wave:            row.Wave,
		HighestWave:     row.HighestWave,
		Difficulty:      row.Difficulty,
		PlayTimeSeconds: row.PlayTimeSeconds,
		GameMode:        row.GameMode,
		CreatedAt:       created,
	}
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("submit score for %s: %w", name, err)
	}
	s.log.Info("score recorded", "player", name, "score", e.Score, "highest_wave", e.HighestWave)
	return nil
}

// truncateName cuts s to at most limit bytes without splitting a rune.
func truncateName(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	i := limit
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

// Top returns the n best entries, highest score first. difficulty > 0
// restricts the list to games played at that difficulty.
func (s *Store) Top(ctx context.Context, n int, difficulty float64) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	q := s.db.WithContext(ctx).Model(&Entry{})
	if difficulty > 0 {
		q = q.Where("difficulty = ?", difficulty)
	}
	var out []Entry
	if err := q.Order("score DESC").Order("highest_wave DESC").Order("created_at ASC").Limit(n).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query top %d: %w", n, err)
	}
	return out, nil
}

// PlayerBest returns the highest scoring entry for name.
func (s *Store) PlayerBest(ctx context.Context, name string) (Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("player_name = ?", strings.TrimSpace(name)).
		Order("score DESC").
		First(&e).Error
	if err != nil {
		return Entry{}, fmt.Errorf("best score for %s: %w", name, err)
	}
	return e, nil
}

// Count returns the number of recorded games.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
