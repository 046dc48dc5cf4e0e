package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pouria-007/airport-digital-twin/core"
	"github.com/Pouria-007/airport-digital-twin/internal/config"
	"github.com/Pouria-007/airport-digital-twin/internal/logging"
	"github.com/Pouria-007/airport-digital-twin/internal/observability"
	"github.com/Pouria-007/airport-digital-twin/timectrl"
)

func main() {
	configPath := flag.String("config", "", "optional config file (YAML or JSON); SIM_* env vars override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "simulator failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	// ==== Observability ====

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewTowerCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		log.Info(ctx, "metrics listening", logging.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	// ==== Scene ====

	store := core.NewSceneStore()

	f, err := os.Open(cfg.ScenarioPath)
	if err != nil {
		return fmt.Errorf("open scenario %q: %w", cfg.ScenarioPath, err)
	}
	scenario, err := core.LoadScenario(store, f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("path", cfg.ScenarioPath),
		logging.Int("waypoints", len(scenario.Waypoints)),
		logging.Int("antennas", len(scenario.Antennas)),
		logging.Int("towers", len(scenario.TowerIDs)),
		logging.Int("volumes", len(scenario.Volumes)),
		logging.Int("obstacles", len(scenario.Obstacles)),
	)

	// ==== Engines ====

	var interp core.PathInterpolator
	if err := interp.Configure(scenario.Waypoints); err != nil {
		return fmt.Errorf("configure path: %w", err)
	}

	var tester core.OcclusionTester
	if !cfg.DisableOcclusion && len(scenario.Obstacles) > 0 {
		tester = core.NewObstacleTester(scenario.Obstacles)
	}

	tower := core.NewControlTower(core.ControlTowerConfig{
		Scene:       store,
		Presenter:   core.NewLogPresenter(log),
		Log:         log,
		Recorder:    collector,
		AntennaRoot: scenario.AntennaRoot,
		Volumes:     scenario.Volumes,
	})
	if err := tower.Activate(ctx, tester); err != nil {
		return fmt.Errorf("activate control tower: %w", err)
	}

	// ==== Frame loop ====

	mode := timectrl.RealTime
	if cfg.Accelerated {
		mode = timectrl.Accelerated
	}
	ticker := timectrl.NewFrameTicker(time.Now().UTC(), cfg.TickInterval, mode)

	ticker.AddListener(func(frame int, now time.Time) {
		elapsed := time.Duration(frame) * cfg.TickInterval
		progress := progressAt(elapsed, cfg.TaxiDuration, cfg.LoopPath)

		pose := interp.Evaluate(progress)
		if err := store.SetPose(scenario.AircraftID, pose); err != nil {
			log.Warn(ctx, "aircraft pose update failed", logging.String("error", err.Error()))
		}

		tower.Tick(ctx)
	})

	log.Info(ctx, "simulation starting",
		logging.Any("duration", cfg.Duration),
		logging.Any("tick", cfg.TickInterval),
		logging.Any("taxi", cfg.TaxiDuration),
		logging.Any("accelerated", cfg.Accelerated),
	)

	done := ticker.Start(cfg.Duration)
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown requested")
		ticker.Stop()
		<-done
	case <-done:
	}

	log.Info(context.Background(), "simulation complete", logging.Int("frames", ticker.Frame()))
	return nil
}

// progressAt converts elapsed simulation time into a path progress scalar.
// With looping enabled the traversal wraps; otherwise the aircraft parks at
// the final waypoint.
func progressAt(elapsed, taxi time.Duration, loop bool) float64 {
	if taxi <= 0 {
		return 1
	}
	p := elapsed.Seconds() / taxi.Seconds()
	if loop {
		p = math.Mod(p, 1)
	} else if p > 1 {
		p = 1
	}
	return p
}
