package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trytobebee/snakegym/pkg/agent"
	"github.com/trytobebee/snakegym/pkg/config"
	"github.com/trytobebee/snakegym/pkg/game"
	"github.com/trytobebee/snakegym/pkg/input"
	"github.com/trytobebee/snakegym/pkg/logger"
	"github.com/trytobebee/snakegym/pkg/renderer"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer zl.Sync()

	// Initialize input handler
	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	env, err := game.New(
		game.WithGrid(cfg.Grid.Width, cfg.Grid.Height),
		game.WithSeed(uint64(time.Now().UnixNano())),
		game.WithLogger(zl),
	)
	if err != nil {
		fmt.Println("Error creating game:", err)
		return
	}

	render := renderer.NewTerminalRenderer(os.Stdout, env.Grid())
	render.ClearScreen = true
	render.Footer = "Use WASD or Arrow keys to move, P to pause, R to restart, Q to quit"
	render.HideCursor()
	defer render.ShowCursor()

	controller := &agent.Manual{}
	inputChan := inputHandler.GetInputChan()

	interval := cfg.Run.FrameDelay
	if interval <= 0 {
		interval = config.DefaultFrameDelay
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	paused := false
	apples := 0
	_ = render.Render(env.Observation(), env.Status())

	// Main game loop
	for {
		select {
		case ev := <-inputChan:
			if input.IsQuit(ev) {
				fmt.Printf("\n  Apples eaten: %d. Thanks for playing! 👋\n", apples)
				return
			}
			if input.IsRestart(ev) && env.Status() == game.StatusTerminated {
				apples = 0
				paused = false
				_ = render.Render(env.Reset(), env.Status())
			}
			if input.IsPause(ev) && env.Status() == game.StatusActive {
				paused = !paused
			}
			if a, ok := input.ParseAction(ev); ok {
				controller.Set(a)
			}

		case <-ticker.C:
			if paused || env.Status() != game.StatusActive {
				continue
			}
			res, err := env.Step(controller.Act(env.Observation()))
			if err != nil {
				fmt.Println("Error:", err)
				return
			}
			apples = res.Info.ApplesEaten
			_ = render.Render(res.Observation, env.Status())
		}
	}
}
