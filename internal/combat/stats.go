package combat

import (
	"fmt"
	"log/slog"
	"time"

	"submarine-sim/internal/event"
	"submarine-sim/internal/host"
)

// StatsConfig seeds PlayerStats.
type StatsConfig struct {
	MaxHealth float64
	MaxAmmo   int
	Lives     int
}

// StatsSnapshot is a read-only copy of the player's stats.
type StatsSnapshot struct {
	Health      float64 `json:"health"`
	MaxHealth   float64 `json:"max_health"`
	Ammo        int     `json:"ammo"`
	MaxAmmo     int     `json:"max_ammo"`
	Lives       int     `json:"lives"`
	Wave        int     `json:"wave"`
	HighestWave int     `json:"highest_wave"`
	Score       int     `json:"score"`
	GameOver    bool    `json:"game_over"`
}

// PlayerStats owns health, ammo, lives, wave and score for one session and
// pushes every change to the UI host.
type PlayerStats struct {
	cfg         StatsConfig
	health      Health
	ammo        int
	lives       int
	wave        int
	highestWave int
	score       int
	gameOver    bool

	pub event.Publisher
	ui  host.UI
	now func() time.Duration
	log *slog.Logger
}

// NewPlayerStats returns stats at their starting values.
func NewPlayerStats(cfg StatsConfig, pub event.Publisher, ui host.UI, now func() time.Duration, log *slog.Logger) *PlayerStats {
	if pub == nil {
		pub = event.Discard{}
	}
	if ui == nil {
		ui = host.Nop{}
	}
	if now == nil {
		now = func() time.Duration { return 0 }
	}
	if log == nil {
		log = slog.Default()
	}
	s := &PlayerStats{cfg: cfg, pub: pub, ui: ui, now: now, log: log}
	s.Reset()
	return s
}

// Reset restores starting values for a new game.
func (s *PlayerStats) Reset() {
	s.health = NewHealth(s.cfg.MaxHealth)
	s.ammo = s.cfg.MaxAmmo
	s.lives = s.cfg.Lives
	s.wave = 1
	s.highestWave = 1
	s.score = 0
	s.gameOver = false
	s.PushAll()
}

// PushAll sends every stat to the UI.
func (s *PlayerStats) PushAll() {
	s.ui.SetStatValue(host.StatHealth, s.health.Current)
	s.ui.SetStatValue(host.StatAmmo, float64(s.ammo))
	s.ui.SetStatValue(host.StatLives, float64(s.lives))
	s.ui.SetStatValue(host.StatWave, float64(s.wave))
	s.ui.SetStatValue(host.StatScore, float64(s.score))
}

// TakeDamage applies amount to the player. It reports whether the hit cost a
// life. Damage during game over, or of zero, changes nothing.
func (s *PlayerStats) TakeDamage(amount float64) bool {
	if s.gameOver || amount <= 0 {
		return false
	}
	destroyed := s.health.TakeDamage(amount)
	s.ui.SetStatValue(host.StatHealth, s.health.Current)
	s.pub.Publish(event.Event{Kind: event.PlayerDamaged, Time: s.now(), Value: amount})
	if destroyed {
		s.loseLife()
	}
	return destroyed
}

func (s *PlayerStats) loseLife() {
	s.lives--
	s.ui.SetStatValue(host.StatLives, float64(s.lives))
	if s.lives > 0 {
		s.health.Revive()
		s.ui.SetStatValue(host.StatHealth, s.health.Current)
		s.ui.ShowMessage(fmt.Sprintf("Life Lost! %d remaining", s.lives), 3000)
		s.log.Info("player respawned", "lives", s.lives, "wave", s.wave)
		s.pub.Publish(event.Event{Kind: event.PlayerRespawn, Time: s.now(), Wave: s.wave})
		return
	}
	s.gameOver = true
	s.ui.ShowMessage(fmt.Sprintf("GAME OVER! Highest Wave: %d", s.highestWave), 5000)
	s.log.Info("game over", "wave", s.wave, "highest_wave", s.highestWave, "score", s.score)
	s.pub.Publish(event.Event{
		Kind:        event.GameOver,
		Time:        s.now(),
		Wave:        s.wave,
		HighestWave: s.highestWave,
		Value:       float64(s.score),
	})
}

// UseAmmo spends n rounds. It fails without changing anything when fewer
// than n remain.
func (s *PlayerStats) UseAmmo(n int) bool {
	if n <= 0 || s.ammo < n {
		return false
	}
	s.ammo -= n
	s.ui.SetStatValue(host.StatAmmo, float64(s.ammo))
	return true
}

// AddAmmo restocks up to MaxAmmo and returns how many rounds were added.
func (s *PlayerStats) AddAmmo(n int) int {
	if n <= 0 {
		return 0
	}
	before := s.ammo
	s.ammo = min(s.cfg.MaxAmmo, s.ammo+n)
	s.ui.SetStatValue(host.StatAmmo, float64(s.ammo))
	return s.ammo - before
}

// AddHealth heals up to MaxHealth and returns the amount applied.
func (s *PlayerStats) AddHealth(n float64) float64 {
	got := s.health.Heal(n)
	s.ui.SetStatValue(host.StatHealth, s.health.Current)
	return got
}

// SetWave records the current wave and tracks the highest reached.
func (s *PlayerStats) SetWave(n int) {
	s.wave = n
	if n > s.highestWave {
		s.highestWave = n
	}
	s.ui.SetStatValue(host.StatWave, float64(n))
}

// AddScore awards points.
func (s *PlayerStats) AddScore(points int) {
	if points <= 0 || s.gameOver {
		return
	}
	s.score += points
	s.ui.SetStatValue(host.StatScore, float64(s.score))
}

// Health returns the current health.
func (s *PlayerStats) Health() float64 { return s.health.Current }

// MaxHealth returns the health ceiling.
func (s *PlayerStats) MaxHealth() float64 { return s.health.Max }

// HealthRatio returns health as a fraction of MaxHealth.
func (s *PlayerStats) HealthRatio() float64 { return s.health.Ratio() }

// Ammo returns the torpedoes left.
func (s *PlayerStats) Ammo() int { return s.ammo }

// Lives returns the remaining lives, including the current one.
func (s *PlayerStats) Lives() int { return s.lives }

// Wave returns the wave the player is in.
func (s *PlayerStats) Wave() int { return s.wave }

// HighestWave returns the furthest wave reached this game.
func (s *PlayerStats) HighestWave() int { return s.highestWave }

// Score returns the points earned this game.
func (s *PlayerStats) Score() int { return s.score }

// GameOver reports whether the last life has been lost.
func (s *PlayerStats) GameOver() bool { return s.gameOver }

// Snapshot copies the current stats.
func (s *PlayerStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Health:      s.health.Current,
		MaxHealth:   s.health.Max,
		Ammo:        s.ammo,
		MaxAmmo:     s.cfg.MaxAmmo,
		Lives:       s.lives,
		Wave:        s.wave,
		HighestWave: s.highestWave,
		Score:       s.score,
		GameOver:    s.gameOver,
	}
}
