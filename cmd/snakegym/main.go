package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/trytobebee/snakegym/pkg/agent"
	"github.com/trytobebee/snakegym/pkg/config"
	"github.com/trytobebee/snakegym/pkg/game"
	"github.com/trytobebee/snakegym/pkg/logger"
	"github.com/trytobebee/snakegym/pkg/metrics"
	"github.com/trytobebee/snakegym/pkg/renderer"
	"github.com/trytobebee/snakegym/pkg/runner"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	// Bootstrap logger until the configured one is ready
	if _, err := logger.Init(config.Default().Log); err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.Init(cfg.Log)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	seed := cfg.Agent.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)

	env, err := game.New(
		game.WithGrid(cfg.Grid.Width, cfg.Grid.Height),
		game.WithSeed(seed),
		game.WithLogger(zl.Named("env")),
		game.WithObserver(m),
	)
	if err != nil {
		logger.Log.Fatalf("Failed to create environment: %v", err)
	}

	var controller agent.Controller
	switch cfg.Agent.Kind {
	case config.AgentGreedy:
		controller = agent.NewGreedy(env.Grid())
	default:
		controller = agent.NewRandom(seed + 1)
	}

	r := &runner.Runner{
		Env:        env,
		Controller: controller,
		Logger:     zl.Named("runner"),
		MaxSteps:   cfg.Run.MaxSteps,
	}
	if cfg.Run.Render {
		tr := renderer.NewTerminalRenderer(os.Stdout, env.Grid())
		tr.ClearScreen = true
		tr.HideCursor()
		defer tr.ShowCursor()
		r.Renderer = tr
		r.FrameDelay = cfg.Run.FrameDelay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg)
		errc := make(chan error, 1)
		srv.Start(errc)
		defer srv.Close()
		go func() {
			if err := <-errc; err != nil {
				logger.Log.Errorf("Metrics server failed: %v", err)
				stop()
			}
		}()
		logger.Log.Infof("Serving metrics on %s/metrics", cfg.Metrics.Addr)
	}

	logger.Log.Infow("Starting run",
		"agent", cfg.Agent.Kind,
		"episodes", cfg.Run.Episodes,
		"grid", env.Grid(),
		"seed", seed,
	)

	summaries, err := r.Run(ctx, cfg.Run.Episodes)
	if err != nil && ctx.Err() == nil {
		logger.Log.Errorf("Run failed: %v", err)
		os.Exit(1)
	}

	var total float64
	best := 0
	for _, s := range summaries {
		total += s.Reward
		if s.ApplesEaten > best {
			best = s.ApplesEaten
		}
	}
	mean := 0.0
	if len(summaries) > 0 {
		mean = total / float64(len(summaries))
	}
	zl.Info("run finished",
		zap.Int("episodes", len(summaries)),
		zap.Float64("mean_reward", mean),
		zap.Int("best_apples", best),
	)
}
