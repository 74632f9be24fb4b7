package config

import "submarine-sim/internal/geom"

// Default returns a configuration with every tunable at its stock value.
// Load decodes YAML on top of it, so any key present in the file wins,
// including explicit zeros.
func Default() *GameConfig {
	return &GameConfig{
		Difficulty: 3,
		PlayerName: "Captain",
		GameMode:   "single",
		TickMs:     16,
		Player: PlayerConfig{
			MaxHealth:     100,
			MaxAmmo:       100,
			Lives:         3,
			Radius:        3,
			MaxSpeed:      0.2,
			Acceleration:  0.005,
			Drag:          0.99,
			RotationSpeed: 0.02,
			VerticalSpeed: 0.1,
			Bounds:        200,
			Spawn:         geom.V(0, -5, 0),
		},
		Enemy: EnemyConfig{
			MaxHealth:            100,
			Radius:               3,
			Size:                 1,
			MaxSpeed:             0.1,
			Drag:                 0.98,
			Acceleration:         0.005,
			WanderAcceleration:   0.002,
			VerticalAcceleration: 0.002,
			DetectionRange:       50,
			AttackRange:          30,
			SeekBlend:            0.02,
			WanderChance:         0.01,
			WanderJitter:         0.2,
			FireCooldownMs:       5000,
			RemovalDelayMs:       1000,
			Bounds:               150,
			MinDepth:             -20,
			MaxDepth:             -2,
			DepthRestitution:     0.5,
			SpawnRange:           100,
			SpawnMinDepth:        -20,
			SpawnMaxDepth:        -5,
		},
		Torpedo: TorpedoConfig{
			PlayerSpeed:  0.6,
			EnemySpeed:   0.8,
			Lifetime:     100,
			Radius:       1,
			Drift:        0.05,
			AmmoCost:     1,
			MuzzleOffset: 5,
		},
		Combat: CombatConfig{
			CollisionDamage:        10,
			TorpedoDamage:          50,
			EnemyTorpedoDamage:     2,
			InvulnerabilityMs:      1000,
			Knockback:              0.2,
			MaxAccuracyVariance:    15,
			MinAccuracyVariance:    2,
			CollisionExplosionSize: 1.5,
			TorpedoExplosionSize:   2,
			FloorExplosionSize:     0.5,
			HitRadius:              2,
		},
		World: WorldConfig{
			FloorLevel:    -25,
			WaterLevel:    0,
			SurfaceMargin: 1,
			IslandScale:   1.2,
			IslandBounce:  0.5,
			FloorBounce:   0.3,
			FloorDrag:     0.9,
			Islands:       DefaultIslands(),
		},
		Waves: WaveConfig{
			CountdownMs:     3000,
			StaggerMs:       500,
			MaxEnemies:      30,
			DifficultyStep:  0.5,
			DifficultyEvery: 3,
			MaxDifficulty:   5,
			Multipliers:     []float64{0.7, 0.85, 1.0, 1.15, 1.3},
		},
		Pickups: PickupConfig{
			Max:               8,
			IntervalMs:        12000,
			Radius:            3,
			SafeDistance:      15,
			Attempts:          20,
			Area:              100,
			HeightAboveFloor:  1.5,
			Policy:            PolicyRatio,
			TargetHealthShare: 0.4,
			ReactiveThreshold: 0.5,
			MessageMs:         1500,
		},
		Score: ScoreConfig{
			PerEnemy:  100,
			WaveBonus: 50,
		},
	}
}
