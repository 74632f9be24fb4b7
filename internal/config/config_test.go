package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"submarine-sim/internal/geom"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
difficulty: 5
player:
  lives: 2
world:
  islands:
    - {x: 1, z: 2, size: 3}
pickups:
  policy: reactive
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Difficulty != 5 || cfg.Player.Lives != 2 {
		t.Fatalf("unexpected values: difficulty=%v lives=%d", cfg.Difficulty, cfg.Player.Lives)
	}
	if len(cfg.World.Islands) != 1 || cfg.World.Islands[0].Size != 3 {
		t.Fatalf("unexpected islands: %+v", cfg.World.Islands)
	}
	if cfg.Pickups.Policy != PolicyReactive {
		t.Fatalf("policy = %s", cfg.Pickups.Policy)
	}
	// untouched sections fall back to stock values
	if cfg.Enemy.FireCooldownMs != 5000 || cfg.Combat.InvulnerabilityMs != 1000 {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Enemy, cfg.Combat)
	}
}

func TestLoadConfig_RepoFile(t *testing.T) {
	cfg, err := Load("../../config/game.yaml", "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.World.Islands) != 10 {
		t.Fatalf("expected 10 islands, got %d", len(cfg.World.Islands))
	}
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	cases := map[string]string{
		"difficulty range": "difficulty: 7\n",
		"unknown field":    "gravity: 9.8\n",
		"bad policy":       "pickups:\n  policy: random\n",
		"negative lives":   "player:\n  lives: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body), ""); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	if err == nil || !strings.Contains(err.Error(), "cannot read YAML config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Player.Spawn.Y != -5 || cfg.World.FloorLevel != -25 {
		t.Fatalf("unexpected defaults: spawn=%+v floor=%v", cfg.Player.Spawn, cfg.World.FloorLevel)
	}
	if len(cfg.Waves.Multipliers) != 5 {
		t.Fatalf("expected 5 multipliers")
	}
}

func TestValidateInvertedDepthBand(t *testing.T) {
	cfg := Default()
	cfg.Enemy.MinDepth = -1
	cfg.Enemy.MaxDepth = -10
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for inverted depth band")
	}
}

func TestLoadConfig_ExplicitZerosKept(t *testing.T) {
	path := writeConfig(t, `
player:
  max_ammo: 0
  spawn: {x: 0, y: 0, z: 0}
enemy:
  max_depth: 0
torpedo:
  drift: 0
  muzzle_offset: 0
combat:
  invulnerability_ms: 0
  min_accuracy_variance: 0
  knockback: 0
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Player.MaxAmmo != 0 || cfg.Enemy.MaxDepth != 0 {
		t.Fatalf("zeros replaced: max_ammo=%d max_depth=%v", cfg.Player.MaxAmmo, cfg.Enemy.MaxDepth)
	}
	if cfg.Player.Spawn != (geom.Vec3{}) {
		t.Fatalf("spawn at origin rewritten to %+v", cfg.Player.Spawn)
	}
	if cfg.Torpedo.Drift != 0 || cfg.Torpedo.MuzzleOffset != 0 {
		t.Fatalf("torpedo zeros replaced: %+v", cfg.Torpedo)
	}
	c := cfg.Combat
	if c.InvulnerabilityMs != 0 || c.MinAccuracyVariance != 0 || c.Knockback != 0 {
		t.Fatalf("combat zeros replaced: %+v", c)
	}
	// keys absent from the file keep stock values
	if cfg.Player.MaxHealth != 100 || cfg.Enemy.MinDepth != -20 || c.MaxAccuracyVariance != 15 {
		t.Fatalf("stock values lost: %+v %+v", cfg.Player, c)
	}
}

func TestLoadConfig_PartialSpawnKeepsDepth(t *testing.T) {
	path := writeConfig(t, `
player:
  spawn: {x: 10, z: -4}
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Player.Spawn != geom.V(10, -5, -4) {
		t.Fatalf("spawn = %+v", cfg.Player.Spawn)
	}
}
