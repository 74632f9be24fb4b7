package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"submarine-sim/internal/admin"
	"submarine-sim/internal/config"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/leaderboard"
	"submarine-sim/internal/logging"
	"submarine-sim/internal/scenario"
	"submarine-sim/internal/sim"
)

var (
	simPrintOnly      bool
	simConfigPath     string
	simSchemaPath     string
	simScenario       string
	simOutput         string
	simTick           time.Duration
	simSeed           int64
	simLogFile        string
	simAdminAddr      string
	simLeaderboardDB  string
	simPlayerName     string
	simDifficulty     float64
	simExitOnGameOver bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the submarine game headless",
	Long:  "simulate runs a game session driven by a scenario pilot, emitting state rows, gameplay events and a final score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.Default()

		cfg, err := loadConfig(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if simPlayerName != "" {
			cfg.PlayerName = simPlayerName
		}
		if simDifficulty > 0 {
			cfg.Difficulty = simDifficulty
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		pilot, err := loadPilot(simScenario)
		if err != nil {
			return err
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return fmt.Errorf("invalid TICK_INTERVAL: %w", err)
			}
			tickInterval = d
		}

		writers, tui, cleanup, err := newWriters(cfg, simPrintOnly, simOutput, simLogFile, log)
		if err != nil {
			return err
		}
		defer cleanup()
		if tui != nil {
			log = logging.NewWithWriter(tui, logLevel)
			slog.SetDefault(log)
		}

		var board *leaderboard.Store
		if simLeaderboardDB != "" {
			board, err = leaderboard.Open(simLeaderboardDB, log)
			if err != nil {
				return err
			}
			defer board.Close()
		}

		opts := sim.Options{
			SessionID:      os.Getenv("SESSION_ID"),
			Tick:           tickInterval,
			Seed:           simSeed,
			Pilot:          pilot,
			ExitOnGameOver: simExitOnGameOver,
			Log:            log,
		}
		if board != nil {
			opts.Leaderboard = board
		}
		simulator := sim.NewSimulator(cfg, writers, opts)
		defer simulator.Close()

		ctx, cancel := signal.NotifyContext(logging.NewContext(cmd.Context(), log), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if simAdminAddr != "" {
			var lb admin.Leaderboard
			if board != nil {
				lb = board
			}
			srv := admin.NewServer(simulator, lb, log)
			go func() {
				if err := srv.Start(ctx, simAdminAddr); err != nil {
					log.Error("admin server failed", "err", err)
					if tui != nil {
						tui.SetAdminStatus(false)
					}
				}
			}()
			if tui != nil {
				tui.SetAdminStatus(true)
			}
		}
		if tui != nil {
			tui.SetActions(sim.Actions{
				NewGame:    simulator.NewGame,
				Pause:      func() { simulator.Pause() },
				SpawnEnemy: func(p geom.Vec3) { simulator.SpawnEnemy(p) },
			})
		}

		simulator.Run(ctx)
		log.Info("submarine simulation stopped", "session", simulator.SessionID())
		return nil
	},
}

// loadConfig reads the YAML config, or falls back to defaults when path is empty.
func loadConfig(path, schema string) (*config.GameConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, schema)
}

// loadPilot resolves name as a built-in arc first, then as a YAML file.
// An empty name means no pilot.
func loadPilot(name string) (*scenario.Pilot, error) {
	if name == "" {
		return nil, nil
	}
	if sc, ok := scenario.BuiltIn()[name]; ok {
		return scenario.NewPilot(&sc), nil
	}
	sc, err := scenario.Load(name)
	if err != nil {
		return nil, err
	}
	return scenario.NewPilot(sc), nil
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print output to STDOUT instead of writing to GreptimeDB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/game.yaml", "Path to game configuration YAML (empty for defaults)")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "", "Path to CUE schema file (empty for the built-in schema)")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "hunter", "Built-in arc (patrol, hunter, evasive) or scenario YAML path")
	simulateCmd.Flags().StringVar(&simOutput, "output", outputAuto, "STDOUT mode: auto, json, color or tui")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 0, "Tick interval (e.g. 16ms); defaults to tick_ms from the config")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 picks one from the clock)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export state/event/score logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin HTTP listen address (empty disables)")
	simulateCmd.Flags().StringVar(&simLeaderboardDB, "leaderboard-db", "", "SQLite file for the local leaderboard (empty disables)")
	simulateCmd.Flags().StringVar(&simPlayerName, "player", "", "Player name override")
	simulateCmd.Flags().Float64Var(&simDifficulty, "difficulty", 0, "Starting difficulty override (1-5)")
	simulateCmd.Flags().BoolVar(&simExitOnGameOver, "exit-on-game-over", false, "Stop after the game ends")
}
