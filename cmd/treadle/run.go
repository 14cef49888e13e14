package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/treadle"
	"github.com/aretw0/treadle/internal/logging"
	redisadapter "github.com/aretw0/treadle/pkg/adapters/redis"
	"github.com/aretw0/treadle/pkg/ports"
	"github.com/aretw0/treadle/pkg/scenario"
	"github.com/aretw0/treadle/pkg/state"
)

// runCmd ticks a scenario until every task finishes.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario to completion",
	Long: `Loads the scenario, spawns its tasks, and advances the engine at a
fixed interval until no task is live. With --redis and --snapshot the
store is restored before the run and saved after it, so a scenario can
stop and resume across invocations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		maxTicks, _ := cmd.Flags().GetInt("max-ticks")
		redisAddr, _ := cmd.Flags().GetString("redis")
		snapshotID, _ := cmd.Flags().GetString("snapshot")

		logger := newLogger(cmd)
		sc, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		var snapshots ports.SnapshotStore
		if redisAddr != "" {
			snapshots = redisadapter.New(redisAddr, "", 0)
		}

		store := state.NewStore()
		ctx := context.Background()
		if snapshots != nil && snapshotID != "" {
			snap, err := snapshots.Load(ctx, snapshotID)
			switch {
			case err == nil:
				store.Import(snap)
				logger.Info("snapshot restored", "id", snapshotID)
			case errors.Is(err, ports.ErrSnapshotNotFound):
				logger.Info("no snapshot yet, starting fresh", "id", snapshotID)
			default:
				return err
			}
		}

		eng := treadle.New(treadle.WithLogger(logger), treadle.WithStore(store))
		sc.Start(eng, logger)
		logger.Info("scenario started", "name", sc.Name, "tasks", len(sc.Tasks))

		ticks := tickLoop(eng, interval, maxTicks, nil)
		logger.Info("scenario finished", "ticks", ticks, "live", eng.Live())

		if snapshots != nil && snapshotID != "" {
			if err := snapshots.Save(ctx, snapshotID, eng.Store().Export()); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
			logger.Info("snapshot saved", "id", snapshotID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("interval", 50*time.Millisecond, "Time between ticks")
	runCmd.Flags().Int("max-ticks", 0, "Stop after this many ticks (0 = until idle)")
	runCmd.Flags().String("redis", "", "Redis address for snapshot persistence")
	runCmd.Flags().String("snapshot", "", "Snapshot id to restore before and save after the run")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func loadScenario(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return scenario.Load(data)
}

// tickLoop advances the engine at the interval until no task is live or
// the tick budget runs out. afterTick, if non-nil, runs on the engine
// goroutine after each tick.
func tickLoop(eng *treadle.Engine, interval time.Duration, maxTicks int, afterTick func()) int {
	ticks := 0
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ticks++
		live := eng.Advance()
		if afterTick != nil {
			afterTick()
		}
		if !live {
			break
		}
		if maxTicks > 0 && ticks >= maxTicks {
			break
		}
	}
	return ticks
}
