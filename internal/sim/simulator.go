// Simulator orchestrating one game session and its output rows
package sim

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"submarine-sim/internal/clock"
	"submarine-sim/internal/collision"
	"submarine-sim/internal/combat"
	"submarine-sim/internal/config"
	"submarine-sim/internal/enemy"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/logging"
	"submarine-sim/internal/pickup"
	"submarine-sim/internal/player"
	"submarine-sim/internal/scenario"
	"submarine-sim/internal/telemetry"
	"submarine-sim/internal/torpedo"
	"submarine-sim/internal/wave"
)

// ScoreSubmitter persists the final score of a game. It is called off the
// tick goroutine.
type ScoreSubmitter interface {
	Submit(ctx context.Context, row telemetry.ScoreRow) error
}

// Writers groups the output sinks. Any of them may be nil.
type Writers struct {
	State StateWriter
	Event EventWriter
	Score ScoreWriter
}

// Options tune a Simulator. Zero values fall back to defaults.
type Options struct {
	SessionID      string
	Tick           time.Duration
	Seed           int64
	Scene          host.Scene
	Effects        host.Effects
	UI             host.UI
	Pilot          *scenario.Pilot
	Leaderboard    ScoreSubmitter
	ExitOnGameOver bool
	Now            func() time.Time
	Log            *slog.Logger
}

// PlayerSnapshot is the player's visible state.
type PlayerSnapshot struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
	RotationY    float64 `json:"rotation_y"`
	Speed        float64 `json:"speed"`
	Invulnerable bool    `json:"invulnerable"`
}

// Snapshot is a consistent copy of the whole session, served to the admin UI.
type Snapshot struct {
	SessionID      string               `json:"session_id"`
	Tick           int64                `json:"tick"`
	GameTimeMs     int64                `json:"game_time_ms"`
	Paused         bool                 `json:"paused"`
	Player         PlayerSnapshot       `json:"player"`
	Stats          combat.StatsSnapshot `json:"stats"`
	Wave           wave.State           `json:"wave"`
	Enemies        []enemy.Snapshot     `json:"enemies"`
	Torpedoes      int                  `json:"torpedoes"`
	EnemyTorpedoes int                  `json:"enemy_torpedoes"`
	Pickups        []pickup.Pickup      `json:"pickups"`
}

// Simulator owns one game session: every registry, the event bus and the
// game clock. All mutation happens under mu, from Step.
type Simulator struct {
	cfg     *config.GameConfig
	writers Writers
	opts    Options
	gen     *telemetry.Generator
	rand    *rand.Rand
	scene   host.Scene
	effects host.Effects
	ui      host.UI
	log     *slog.Logger

	clock     *clock.Clock
	bus       *event.Bus
	stats     *combat.PlayerStats
	sub       *player.Submarine
	enemies   *enemy.Engine
	torpedoes *torpedo.Registry
	collide   *collision.Engine
	waves     *wave.Manager
	pickups   *pickup.Registry

	tick      int64
	held      player.Controls
	paused    bool
	finished  bool
	pending   []telemetry.EventRow
	recent    []telemetry.EventRow
	submitted sync.WaitGroup

	mu sync.Mutex
}

// NewSimulator builds a session from cfg and starts wave 1.
func NewSimulator(cfg *config.GameConfig, w Writers, opts Options) *Simulator {
	if opts.SessionID == "" {
		opts.SessionID = uuid.New().String()
	}
	if opts.Tick <= 0 {
		opts.Tick = config.Ms(cfg.TickMs)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	s := &Simulator{
		cfg:     cfg,
		writers: w,
		opts:    opts,
		gen:     telemetry.NewGenerator(opts.SessionID, opts.Now),
		rand:    rand.New(rand.NewSource(opts.Seed)),
		scene:   opts.Scene,
		effects: opts.Effects,
		ui:      opts.UI,
		log:     logging.Component(opts.Log, "simulator"),
	}
	if s.scene == nil {
		s.scene = host.Nop{}
	}
	if s.effects == nil {
		s.effects = host.Nop{}
	}
	if s.ui == nil {
		if ui, ok := w.State.(host.UI); ok {
			s.ui = ui
		} else {
			s.ui = host.Nop{}
		}
	}
	s.mu.Lock()
	s.newGameLocked()
	s.mu.Unlock()
	return s
}

// NewGame discards the current session and starts over at wave 1.
func (s *Simulator) NewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newGameLocked()
}

func (s *Simulator) newGameLocked() {
	if s.enemies != nil {
		s.enemies.Clear()
		s.torpedoes.Clear()
		s.pickups.Clear()
		s.scene.RemoveVisual("player")
	}
	cfg := s.cfg
	s.clock = clock.New()
	s.bus = event.NewBus()
	s.tick = 0
	s.held = player.Controls{}
	s.finished = false
	s.pending = nil
	s.recent = nil

	s.stats = combat.NewPlayerStats(combat.StatsConfig{
		MaxHealth: cfg.Player.MaxHealth,
		MaxAmmo:   cfg.Player.MaxAmmo,
		Lives:     cfg.Player.Lives,
	}, s.bus, s.ui, s.clock.Now, s.log)
	s.sub = player.New(cfg.Player, cfg.World, cfg.Combat.InvulnerabilityMs, s.stats)
	s.enemies = enemy.NewEngine(cfg, s.clock, s.bus, s.scene, s.rand, s.log)
	s.torpedoes = torpedo.NewRegistry(cfg, s.scene, s.effects, s.log)
	s.collide = collision.NewEngine(cfg, s.bus, s.effects, s.log)
	s.waves = wave.NewManager(cfg, s.clock, s.bus, s.ui, s.stats, s.log)
	s.pickups = pickup.NewRegistry(cfg, s.stats, s.scene, s.effects, s.ui, s.bus, s.rand, s.log)

	s.enemies.SetDifficultySource(s.waves.Difficulty)
	s.waves.SetSpawner(s.enemies)
	s.torpedoes.Attach(s.bus)
	s.waves.Attach(s.bus)
	s.bus.Subscribe(event.PlayerRespawn, func(event.Event) { s.sub.Respawn() })
	s.bus.Subscribe(event.EnemyDestroyed, func(event.Event) { s.stats.AddScore(cfg.Score.PerEnemy) })
	s.bus.Subscribe(event.WaveCompleted, func(e event.Event) { s.stats.AddScore(cfg.Score.WaveBonus * e.Wave) })
	s.bus.Subscribe(event.GameOver, s.onGameOver)
	s.bus.SubscribeAll(s.record)
	if s.opts.Pilot != nil {
		s.bus.SubscribeAll(s.opts.Pilot.Observe)
	}

	s.scene.SpawnVisual(host.KindPlayer, "player", s.sub.Body.Position)
	s.pickups.Init(s.clock.Now())
	if err := s.waves.StartGame(); err != nil {
		s.log.Error("start game", "err", err)
	}
	s.log.Info("new game", "session", s.opts.SessionID, "difficulty", cfg.Difficulty, "player", cfg.PlayerName)
	s.flushEvents()
}

func (s *Simulator) record(e event.Event) {
	row := s.gen.Event(e)
	s.pending = append(s.pending, row)
	s.recent = append(s.recent, row)
	if len(s.recent) > maxRecentEvents {
		s.recent = s.recent[len(s.recent)-maxRecentEvents:]
	}
}

func (s *Simulator) onGameOver(e event.Event) {
	s.finished = true
	played := s.clock.Now()
	row := s.gen.Score(s.cfg.PlayerName, s.cfg.GameMode, s.stats.Score(), e.Wave, e.HighestWave, s.waves.Difficulty(), played)
	if s.writers.Score != nil {
		if err := s.writers.Score.WriteScore(row); err != nil {
			s.log.Error("score write failed", "err", err)
		}
	}
	if s.opts.Leaderboard == nil {
		return
	}
	s.submitted.Add(1)
	go func() {
		defer s.submitted.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.opts.Leaderboard.Submit(ctx, row); err != nil {
			s.log.Error("leaderboard submit failed", "err", err)
			return
		}
		s.log.Info("score submitted", "player", row.PlayerName, "score", row.Score)
	}()
}

// Close waits for outstanding leaderboard submissions.
func (s *Simulator) Close() {
	s.submitted.Wait()
}

// SetControls sets the input held until changed. It is ignored while a
// scenario pilot drives the submarine.
func (s *Simulator) SetControls(c player.Controls) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held = c
}

// Pause toggles pausing and returns the new state. Run skips ticks while paused.
func (s *Simulator) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	s.log.Info("pause toggled", "paused", s.paused)
	return s.paused
}

// Paused reports whether ticks are being skipped.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// GameOver reports whether the session has ended.
func (s *Simulator) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// SessionID returns the session identifier stamped on every row.
func (s *Simulator) SessionID() string { return s.opts.SessionID }

// Config returns the game configuration.
func (s *Simulator) Config() *config.GameConfig { return s.cfg }

// SpawnEnemy adds an enemy at pos as a reinforcement of the active wave.
// It reports false when no wave is active.
func (s *Simulator) SpawnEnemy(pos geom.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.waves.Reinforce(1) {
		return false
	}
	s.enemies.SpawnAt(pos)
	return true
}

// Snapshot returns a consistent copy of the session.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.sub.Body
	pickups := make([]pickup.Pickup, 0, len(s.pickups.Pickups))
	for _, p := range s.pickups.Pickups {
		pickups = append(pickups, *p)
	}
	return Snapshot{
		SessionID:  s.opts.SessionID,
		Tick:       s.tick,
		GameTimeMs: s.clock.Now().Milliseconds(),
		Paused:     s.paused,
		Player: PlayerSnapshot{
			X:            b.Position.X,
			Y:            b.Position.Y,
			Z:            b.Position.Z,
			RotationY:    s.sub.RotationY,
			Speed:        b.Velocity.Len(),
			Invulnerable: s.sub.Invulnerable.Active(s.clock.Now()),
		},
		Stats:          s.stats.Snapshot(),
		Wave:           s.waves.Snapshot(),
		Enemies:        s.enemies.Snapshots(),
		Torpedoes:      s.torpedoes.Count(torpedo.Player),
		EnemyTorpedoes: s.torpedoes.Count(torpedo.Enemy),
		Pickups:        pickups,
	}
}

func (s *Simulator) stateRow() telemetry.StateRow {
	p := s.sub.Body.Position
	st := s.waves.Snapshot()
	return telemetry.StateRow{
		SessionID:        s.opts.SessionID,
		Tick:             s.tick,
		Wave:             st.Wave,
		Phase:            string(st.Phase),
		Difficulty:       st.Difficulty,
		Health:           s.stats.Health(),
		Ammo:             s.stats.Ammo(),
		Lives:            s.stats.Lives(),
		Score:            s.stats.Score(),
		EnemiesAlive:     s.enemies.AliveCount(),
		EnemiesRemaining: st.EnemiesRemaining,
		Torpedoes:        len(s.torpedoes.Torpedoes),
		Pickups:          len(s.pickups.Pickups),
		X:                p.X,
		Y:                p.Y,
		Z:                p.Z,
		Heading:          math.Mod(s.sub.RotationY*180/math.Pi, 360),
		GameOver:         s.finished,
		Timestamp:        s.gen.Now(),
	}
}
