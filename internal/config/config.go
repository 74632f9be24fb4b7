// YAML game configuration loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"submarine-sim/internal/geom"
)

// Island is a static circular obstacle in the XZ plane.
type Island struct {
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
	Size float64 `yaml:"size"`
}

// Center returns the island centre at the water line.
func (i Island) Center() geom.Vec3 { return geom.V(i.X, 0, i.Z) }

// PlayerConfig tunes the player submarine.
type PlayerConfig struct {
	MaxHealth     float64   `yaml:"max_health"`
	MaxAmmo       int       `yaml:"max_ammo"`
	Lives         int       `yaml:"lives"`
	Radius        float64   `yaml:"radius"`
	MaxSpeed      float64   `yaml:"max_speed"`
	Acceleration  float64   `yaml:"acceleration"`
	Drag          float64   `yaml:"drag"`
	RotationSpeed float64   `yaml:"rotation_speed"`
	VerticalSpeed float64   `yaml:"vertical_speed"`
	Bounds        float64   `yaml:"bounds"`
	Spawn         geom.Vec3 `yaml:"spawn"`
}

// EnemyConfig tunes enemy submarines.
type EnemyConfig struct {
	MaxHealth            float64 `yaml:"max_health"`
	Radius               float64 `yaml:"radius"`
	Size                 float64 `yaml:"size"`
	MaxSpeed             float64 `yaml:"max_speed"`
	Drag                 float64 `yaml:"drag"`
	Acceleration         float64 `yaml:"acceleration"`
	WanderAcceleration   float64 `yaml:"wander_acceleration"`
	VerticalAcceleration float64 `yaml:"vertical_acceleration"`
	DetectionRange       float64 `yaml:"detection_range"`
	AttackRange          float64 `yaml:"attack_range"`
	SeekBlend            float64 `yaml:"seek_blend"`
	WanderChance         float64 `yaml:"wander_chance"`
	WanderJitter         float64 `yaml:"wander_jitter"`
	FireCooldownMs       int     `yaml:"fire_cooldown_ms"`
	RemovalDelayMs       int     `yaml:"removal_delay_ms"`
	Bounds               float64 `yaml:"bounds"`
	MinDepth             float64 `yaml:"min_depth"`
	MaxDepth             float64 `yaml:"max_depth"`
	DepthRestitution     float64 `yaml:"depth_restitution"`
	SpawnRange           float64 `yaml:"spawn_range"`
	SpawnMinDepth        float64 `yaml:"spawn_min_depth"`
	SpawnMaxDepth        float64 `yaml:"spawn_max_depth"`
}

// TorpedoConfig tunes both torpedo variants.
type TorpedoConfig struct {
	PlayerSpeed  float64 `yaml:"player_speed"`
	EnemySpeed   float64 `yaml:"enemy_speed"`
	Lifetime     int     `yaml:"lifetime"`
	Radius       float64 `yaml:"radius"`
	Drift        float64 `yaml:"drift"`
	AmmoCost     int     `yaml:"ammo_cost"`
	MuzzleOffset float64 `yaml:"muzzle_offset"`
}

// CombatConfig holds damage values and effect sizes.
type CombatConfig struct {
	CollisionDamage        float64 `yaml:"collision_damage"`
	TorpedoDamage          float64 `yaml:"torpedo_damage"`
	EnemyTorpedoDamage     float64 `yaml:"enemy_torpedo_damage"`
	InvulnerabilityMs      int     `yaml:"invulnerability_ms"`
	Knockback              float64 `yaml:"knockback"`
	MaxAccuracyVariance    float64 `yaml:"max_accuracy_variance"`
	MinAccuracyVariance    float64 `yaml:"min_accuracy_variance"`
	CollisionExplosionSize float64 `yaml:"collision_explosion_size"`
	TorpedoExplosionSize   float64 `yaml:"torpedo_explosion_size"`
	FloorExplosionSize     float64 `yaml:"floor_explosion_size"`
	HitRadius              float64 `yaml:"hit_radius"`
}

// WorldConfig describes the static world.
type WorldConfig struct {
	FloorLevel    float64  `yaml:"floor_level"`
	WaterLevel    float64  `yaml:"water_level"`
	SurfaceMargin float64  `yaml:"surface_margin"`
	IslandScale   float64  `yaml:"island_scale"`
	IslandBounce  float64  `yaml:"island_bounce"`
	FloorBounce   float64  `yaml:"floor_bounce"`
	FloorDrag     float64  `yaml:"floor_drag"`
	Islands       []Island `yaml:"islands"`
}

// WaveConfig tunes wave pacing and difficulty growth.
type WaveConfig struct {
	CountdownMs     int       `yaml:"countdown_ms"`
	StaggerMs       int       `yaml:"stagger_ms"`
	MaxEnemies      int       `yaml:"max_enemies"`
	DifficultyStep  float64   `yaml:"difficulty_step"`
	DifficultyEvery int       `yaml:"difficulty_every"`
	MaxDifficulty   float64   `yaml:"max_difficulty"`
	Multipliers     []float64 `yaml:"multipliers"`
}

// PickupConfig tunes pickup spawning.
type PickupConfig struct {
	Max               int     `yaml:"max"`
	IntervalMs        int     `yaml:"interval_ms"`
	Radius            float64 `yaml:"radius"`
	SafeDistance      float64 `yaml:"safe_distance"`
	Attempts          int     `yaml:"attempts"`
	Area              float64 `yaml:"area"`
	HeightAboveFloor  float64 `yaml:"height_above_floor"`
	Policy            string  `yaml:"policy"`
	TargetHealthShare float64 `yaml:"target_health_share"`
	ReactiveThreshold float64 `yaml:"reactive_threshold"`
	MessageMs         int     `yaml:"message_ms"`
}

// ScoreConfig sets score awards.
type ScoreConfig struct {
	PerEnemy  int `yaml:"per_enemy"`
	WaveBonus int `yaml:"wave_bonus"`
}

// GameConfig is the root configuration for a game session.
type GameConfig struct {
	Difficulty float64       `yaml:"difficulty"`
	PlayerName string        `yaml:"player_name"`
	GameMode   string        `yaml:"game_mode"`
	TickMs     int           `yaml:"tick_ms"`
	Player     PlayerConfig  `yaml:"player"`
	Enemy      EnemyConfig   `yaml:"enemy"`
	Torpedo    TorpedoConfig `yaml:"torpedo"`
	Combat     CombatConfig  `yaml:"combat"`
	World      WorldConfig   `yaml:"world"`
	Waves      WaveConfig    `yaml:"waves"`
	Pickups    PickupConfig  `yaml:"pickups"`
	Score      ScoreConfig   `yaml:"score"`
}

// Pickup policies.
const (
	PolicyRatio    = "ratio"
	PolicyReactive = "reactive"
)

// Ms converts a millisecond setting to a Duration.
func Ms(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// DefaultIslands is the stock archipelago.
func DefaultIslands() []Island {
	return []Island{
		{X: -40, Z: -60, Size: 10},
		{X: 50, Z: 30, Size: 8},
		{X: -20, Z: 40, Size: 5},
		{X: 70, Z: -40, Size: 6},
		{X: -80, Z: 15, Size: 7},
		{X: 25, Z: -75, Size: 9},
		{X: 10, Z: 65, Size: 4},
		{X: -55, Z: -25, Size: 8},
		{X: 60, Z: 50, Size: 6},
		{X: -5, Z: 0, Size: 11},
	}
}

// Load loads YAML config and validates it against a CUE schema. An empty
// schemaPath validates against the built-in schema.
func Load(configPath, schemaPath string) (*GameConfig, error) {
	if err := ValidateWithCue(configPath, schemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("loaded configuration", "path", configPath, "difficulty", cfg.Difficulty, "islands", len(cfg.World.Islands))
	return cfg, nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c *GameConfig) Validate() error {
	if c.Difficulty < 1 || c.Difficulty > c.Waves.MaxDifficulty {
		return fmt.Errorf("difficulty %.1f outside [1, %.1f]", c.Difficulty, c.Waves.MaxDifficulty)
	}
	if c.World.FloorLevel >= c.World.WaterLevel-c.World.SurfaceMargin {
		return fmt.Errorf("floor level %.1f must lie below the surface limit", c.World.FloorLevel)
	}
	if c.Enemy.MinDepth > c.Enemy.MaxDepth {
		return fmt.Errorf("enemy depth band [%.1f, %.1f] is inverted", c.Enemy.MinDepth, c.Enemy.MaxDepth)
	}
	if c.Pickups.Policy != PolicyRatio && c.Pickups.Policy != PolicyReactive {
		return fmt.Errorf("unknown pickup policy %q", c.Pickups.Policy)
	}
	if len(c.Waves.Multipliers) == 0 {
		return fmt.Errorf("waves.multipliers must not be empty")
	}
	return nil
}
