// cmd/flightsim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taricsa/tiny-pilots-sub006/pkg/config"
	"github.com/taricsa/tiny-pilots-sub006/pkg/health"
	"github.com/taricsa/tiny-pilots-sub006/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	configPath := flag.String("config", "", "Path to configuration file (JSON or YAML)")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	ticks := flag.Int("ticks", 600, "Number of simulation ticks to run")
	planes := flag.String("planes", "basic:basic", "Airplanes to fly as archetype[:fold], comma separated")
	environment := flag.String("env", "", "Environment preset (defaults to the configured one)")
	tiltX := flag.Float64("tilt-x", 0, "Fixed horizontal tilt input in [-1, 1]")
	tiltY := flag.Float64("tilt-y", 0, "Fixed vertical tilt input in [-1, 1]")
	windAt := flag.Int("wind-at", -1, "Tick at which to start a wind transition (-1 disables)")
	windDir := flag.Float64("wind-dir", 0, "Wind transition target direction in degrees")
	windStrength := flag.Float64("wind-strength", 0, "Wind transition target strength")
	windDuration := flag.Float64("wind-duration", 2, "Wind transition duration in seconds")
	telemetryPath := flag.String("telemetry", "", "Write telemetry snapshots to this path (- for stdout)")
	repairRate := flag.Float64("repair", 0, "Structural integrity restored per second of flight")
	realtime := flag.Bool("realtime", false, "Pace ticks at the configured tick rate")
	healthAddr := flag.String("health-addr", "", "Serve /health and /ready on this address")
	flag.Parse()

	if *createDefault {
		if *configPath == "" {
			logger.Error(ctx, "The -default flag requires -config", nil)
			os.Exit(2)
		}
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}
	if *telemetryPath != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Path = *telemetryPath
	}

	specs, err := parsePlanes(*planes)
	if err != nil {
		logger.Error(ctx, "Invalid -planes value", err, "planes", *planes)
		os.Exit(2)
	}

	opts := options{
		ticks:       *ticks,
		planes:      specs,
		environment: *environment,
		tiltX:       *tiltX,
		tiltY:       *tiltY,
		realtime:    *realtime,
		repairRate:  *repairRate,
		course:      defaultCourse(),
	}
	if *windAt >= 0 {
		opts.wind = &windChange{
			atTick:    uint64(*windAt),
			direction: *windDir,
			strength:  *windStrength,
			duration:  *windDuration,
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := newFlight(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error(ctx, "Failed to set up flight", err)
		os.Exit(1)
	}

	var healthServer *http.Server
	if *healthAddr != "" {
		checker := health.NewChecker()
		for _, check := range f.checks(5 * time.Second) {
			checker.AddCheck(check)
		}
		healthServer = &http.Server{
			Addr:         *healthAddr,
			Handler:      checker.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "Starting health check server", "address", *healthAddr)
			if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
	}

	logger.Info(ctx, "Starting flight",
		"ticks", opts.ticks,
		"airplanes", len(opts.planes),
		"environment", f.sim.Environment(),
		"tick_rate", cfg.TickRate,
	)
	rep, runErr := f.run(ctx)

	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health check server shutdown failed", err)
		}
		cancel()
	}

	if runErr != nil {
		logger.Error(ctx, "Flight aborted", runErr, "tick", rep.Ticks)
		os.Exit(1)
	}
	logger.Info(ctx, "Flight finished",
		"ticks", rep.Ticks,
		"sim_time", rep.Final.SimTime,
		"collisions", rep.Collisions,
		"destroyed", rep.Destroyed,
		"remaining", len(rep.Final.Airplanes),
		"telemetry_published", rep.Telemetry.Published,
		"telemetry_dropped", rep.Telemetry.Dropped,
		"telemetry_failed", rep.Telemetry.Failed,
	)
}
