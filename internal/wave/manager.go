// Package wave runs the wave and difficulty progression: it sizes each wave,
// spawns it on a stagger, counts destructions and schedules the next wave.
package wave

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"submarine-sim/internal/clock"
	"submarine-sim/internal/config"
	"submarine-sim/internal/enemy"
	"submarine-sim/internal/event"
	"submarine-sim/internal/host"
)

// ErrNoSpawner is returned when a wave is started before a spawner is set.
var ErrNoSpawner = errors.New("wave: no enemy spawner attached")

// Phase is the state of the wave machine.
type Phase string

const (
	Idle      Phase = "idle"
	Starting  Phase = "starting"
	Active    Phase = "active"
	Ending    Phase = "ending"
	Countdown Phase = "countdown"
	Stopped   Phase = "stopped"
)

// Spawner creates and clears the enemies of a wave.
type Spawner interface {
	Spawn() *enemy.Enemy
	Clear()
}

// Tracker is told which wave is in progress.
type Tracker interface {
	SetWave(n int)
}

// State is a read-only view of the machine.
type State struct {
	Phase            Phase   `json:"phase"`
	Wave             int     `json:"wave"`
	EnemiesRemaining int     `json:"enemies_remaining"`
	Difficulty       float64 `json:"difficulty"`
	Active           bool    `json:"active"`
	CountdownMs      int64   `json:"countdown_ms"`
}

// Manager owns WaveState. Deferred spawns and the next-wave countdown run on
// the game clock and re-check liveness when they fire.
type Manager struct {
	cfg        config.WaveConfig
	startLevel float64

	wave       int
	remaining  int
	difficulty float64
	active     bool
	gameOver   bool
	phase      Phase
	nextAt     time.Duration
	generation int

	spawner Spawner
	tracker Tracker
	clock   *clock.Clock
	pub     event.Publisher
	ui      host.UI
	log     *slog.Logger
}

// NewManager creates a manager at wave 1 with the configured difficulty.
func NewManager(cfg *config.GameConfig, clk *clock.Clock, pub event.Publisher, ui host.UI, tracker Tracker, log *slog.Logger) *Manager {
	if pub == nil {
		pub = event.Discard{}
	}
	if ui == nil {
		ui = host.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cfg:        cfg.Waves,
		startLevel: cfg.Difficulty,
		tracker:    tracker,
		clock:      clk,
		pub:        pub,
		ui:         ui,
		log:        log.With("component", "wave"),
	}
	m.Reset()
	return m
}

// SetSpawner attaches the enemy registry.
func (m *Manager) SetSpawner(s Spawner) { m.spawner = s }

// Attach subscribes the manager to the events that drive it.
func (m *Manager) Attach(bus *event.Bus) {
	bus.Subscribe(event.EnemyDestroyed, func(event.Event) { m.EnemyDestroyed() })
	bus.Subscribe(event.GameOver, func(event.Event) { m.GameOver() })
}

// Reset returns to wave 1 at the starting difficulty. Callbacks scheduled
// before the reset become no-ops.
func (m *Manager) Reset() {
	m.generation++
	m.wave = 1
	m.remaining = 0
	m.difficulty = clampLevel(m.startLevel, m.cfg.MaxDifficulty)
	m.active = false
	m.gameOver = false
	m.phase = Idle
	m.nextAt = 0
}

// StartGame resets and starts wave 1.
func (m *Manager) StartGame() error {
	m.Reset()
	return m.StartWave()
}

// StartWave sizes the current wave, clears the field and schedules the
// staggered spawns.
func (m *Manager) StartWave() error {
	if m.spawner == nil {
		m.log.Error("cannot start wave", "wave", m.wave, "err", ErrNoSpawner)
		return ErrNoSpawner
	}
	m.phase = Starting
	m.remaining = EnemyCount(m.wave, m.difficulty, m.cfg)
	if m.tracker != nil {
		m.tracker.SetWave(m.wave)
	}
	m.active = true
	m.phase = Active

	m.log.Info("wave started", "wave", m.wave, "enemies", m.remaining, "difficulty", m.difficulty)
	m.ui.ShowMessage(fmt.Sprintf("WAVE %d", m.wave), 3000)
	m.ui.SetStatValue(host.StatEnemies, float64(m.remaining))
	m.pub.Publish(event.Event{Kind: event.WaveStarted, Time: m.clock.Now(), Wave: m.wave, Value: float64(m.remaining)})

	m.spawner.Clear()
	gen := m.generation
	stagger := config.Ms(m.cfg.StaggerMs)
	for i := 0; i < m.remaining; i++ {
		m.clock.After(time.Duration(i)*stagger, func() {
			if m.generation != gen || !m.active {
				return
			}
			m.spawner.Spawn()
		})
	}
	return nil
}

// EnemyDestroyed counts one destruction against the active wave and ends
// the wave when none remain.
func (m *Manager) EnemyDestroyed() {
	if !m.active {
		return
	}
	m.remaining--
	if m.remaining < 0 {
		m.remaining = 0
	}
	m.ui.SetStatValue(host.StatEnemies, float64(m.remaining))
	if m.remaining == 0 {
		m.endWave()
	}
}

func (m *Manager) endWave() {
	m.active = false
	m.phase = Ending
	completed := m.wave
	m.wave++
	m.generation++

	if m.cfg.DifficultyEvery > 0 && m.wave%m.cfg.DifficultyEvery == 0 && m.difficulty < m.cfg.MaxDifficulty {
		m.difficulty = math.Min(m.cfg.MaxDifficulty, m.difficulty+m.cfg.DifficultyStep)
		m.log.Info("difficulty increased", "difficulty", m.difficulty)
	}

	m.ui.ShowMessage(fmt.Sprintf("WAVE %d COMPLETE", completed), m.cfg.CountdownMs)
	m.pub.Publish(event.Event{Kind: event.WaveCompleted, Time: m.clock.Now(), Wave: completed})

	m.phase = Countdown
	wait := config.Ms(m.cfg.CountdownMs)
	m.nextAt = m.clock.Now() + wait
	gen := m.generation
	m.clock.After(wait, func() {
		if m.generation != gen || m.gameOver {
			return
		}
		if err := m.StartWave(); err != nil {
			m.log.Error("next wave", "err", err)
		}
	})
}

// Reinforce adds n enemies to the active wave's remaining count so extra
// spawns must also be destroyed before the wave ends. It reports false when
// no wave is active.
func (m *Manager) Reinforce(n int) bool {
	if !m.active || n <= 0 {
		return false
	}
	m.remaining += n
	m.ui.SetStatValue(host.StatEnemies, float64(m.remaining))
	return true
}

// GameOver stops the wave; pending spawns and the countdown are dropped.
func (m *Manager) GameOver() {
	m.active = false
	m.gameOver = true
	m.phase = Stopped
}

// Difficulty returns the current difficulty level.
func (m *Manager) Difficulty() float64 { return m.difficulty }

// Wave returns the current wave number.
func (m *Manager) Wave() int { return m.wave }

// Remaining returns how many enemies of the current wave are left.
func (m *Manager) Remaining() int { return m.remaining }

// Active reports whether a wave is in progress.
func (m *Manager) Active() bool { return m.active }

// NextWaveCountdown returns the time left before the next wave starts, or
// zero outside the countdown.
func (m *Manager) NextWaveCountdown() time.Duration {
	if m.phase != Countdown {
		return 0
	}
	if left := m.nextAt - m.clock.Now(); left > 0 {
		return left
	}
	return 0
}

// NextWaveEnemyCount previews the size of the current (or upcoming) wave.
func (m *Manager) NextWaveEnemyCount() int {
	return EnemyCount(m.wave, m.difficulty, m.cfg)
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	return State{
		Phase:            m.phase,
		Wave:             m.wave,
		EnemiesRemaining: m.remaining,
		Difficulty:       m.difficulty,
		Active:           m.active,
		CountdownMs:      m.NextWaveCountdown().Milliseconds(),
	}
}

// BaseEnemies is the tiered enemy count for a wave before the difficulty
// multiplier.
func BaseEnemies(wave int) float64 {
	switch {
	case wave <= 1:
		return 2
	case wave == 2:
		return 5
	case wave == 3:
		return 9
	case wave <= 5:
		return math.Round(9 * math.Pow(1.5, float64(wave-3)))
	default:
		return float64(20 + 5*(wave-5))
	}
}

// Multiplier returns the multiplier for a difficulty level. Levels are
// floored and clamped onto the table.
func Multiplier(level float64, table []float64) float64 {
	if len(table) == 0 {
		return 1
	}
	i := int(math.Floor(level)) - 1
	if i < 0 {
		i = 0
	}
	if i > len(table)-1 {
		i = len(table) - 1
	}
	return table[i]
}

// EnemyCount sizes a wave. Every wave has at least one enemy.
func EnemyCount(wave int, level float64, cfg config.WaveConfig) int {
	n := int(math.Round(BaseEnemies(wave) * Multiplier(level, cfg.Multipliers)))
	if cfg.MaxEnemies > 0 && n > cfg.MaxEnemies {
		n = cfg.MaxEnemies
	}
	if n < 1 {
		n = 1
	}
	return n
}

func clampLevel(level, max float64) float64 {
	if max <= 0 {
		max = 5
	}
	return math.Max(1, math.Min(max, level))
}
