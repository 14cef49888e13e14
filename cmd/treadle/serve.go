package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/treadle"
	httpadapter "github.com/aretw0/treadle/pkg/adapters/http"
	"github.com/aretw0/treadle/pkg/observability"
)

// serveCmd runs a scenario with the introspection API alongside.
var serveCmd = &cobra.Command{
	Use:   "serve <scenario.yaml>",
	Short: "Run a scenario and expose status, tasks, and metrics over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		interval, _ := cmd.Flags().GetDuration("interval")
		maxTicks, _ := cmd.Flags().GetInt("max-ticks")

		logger := newLogger(cmd)
		sc, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		eng := treadle.New(
			treadle.WithLogger(logger),
			treadle.WithLifecycleHooks(metrics.Hooks()),
		)

		view := httpadapter.NewEngineView()
		handler := httpadapter.NewHandler(view,
			httpadapter.WithLogger(logger),
			httpadapter.WithGatherer(reg),
		)
		go func() {
			logger.Info("introspection listening", "addr", addr)
			if err := http.ListenAndServe(addr, handler); err != nil {
				logger.Error("http server stopped", "err", err)
			}
		}()

		sc.Start(eng, logger)
		view.Update(eng)
		logger.Info("scenario started", "name", sc.Name, "tasks", len(sc.Tasks))

		ticks := tickLoop(eng, interval, maxTicks, func() { view.Update(eng) })
		logger.Info("scenario finished", "ticks", ticks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address for the introspection API")
	serveCmd.Flags().Duration("interval", 50*time.Millisecond, "Time between ticks")
	serveCmd.Flags().Int("max-ticks", 0, "Stop after this many ticks (0 = until idle)")
}
