package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trytobebee/snakegym/pkg/agent"
	"github.com/trytobebee/snakegym/pkg/game"
	"github.com/trytobebee/snakegym/pkg/renderer"
)

// Environment is the reset/step surface the runner drives. *game.Env
// satisfies it.
type Environment interface {
	Reset() game.Observation
	Step(a game.Action) (game.StepResult, error)
	Status() game.Status
}

// Summary describes one finished or truncated episode
type Summary struct {
	ID          string       `json:"id"`
	Steps       int          `json:"steps"`
	Reward      float64      `json:"reward"`
	ApplesEaten int          `json:"applesEaten"`
	Length      int          `json:"length"`
	Outcome     game.Outcome `json:"outcome"`
	Truncated   bool         `json:"truncated"`
}

// Runner plays episodes: reset once, then ask the controller for an action
// and step until the episode ends.
type Runner struct {
	Env        Environment
	Controller agent.Controller
	Renderer   renderer.Renderer // optional
	Logger     *zap.Logger       // optional
	FrameDelay time.Duration     // pause between rendered frames
	MaxSteps   int               // 0 means play until the episode ends
}

// RunEpisode plays a single episode. Cancellation is checked between steps.
func (r *Runner) RunEpisode(ctx context.Context) (Summary, error) {
	log := r.logger()
	sum := Summary{ID: uuid.NewString()}

	obs := r.Env.Reset()
	sum.Length = len(obs.Snake)
	if err := r.render(obs); err != nil {
		return sum, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if r.MaxSteps > 0 && sum.Steps >= r.MaxSteps {
			sum.Truncated = true
			break
		}

		a := r.Controller.Act(obs)
		res, err := r.Env.Step(a)
		if err != nil {
			return sum, fmt.Errorf("episode %s step %d: %w", sum.ID, sum.Steps+1, err)
		}

		sum.Steps++
		sum.Reward += res.Reward
		sum.ApplesEaten = res.Info.ApplesEaten
		sum.Length = res.Info.Length
		sum.Outcome = res.Info.Outcome
		obs = res.Observation

		log.Debug("step",
			zap.String("episode", sum.ID),
			zap.Stringer("action", a),
			zap.Float64("reward", res.Reward),
			zap.Stringer("outcome", res.Info.Outcome),
		)

		if err := r.render(obs); err != nil {
			return sum, err
		}
		if res.Done {
			break
		}
		if err := r.wait(ctx); err != nil {
			return sum, err
		}
	}

	log.Info("episode finished",
		zap.String("episode", sum.ID),
		zap.Int("steps", sum.Steps),
		zap.Float64("reward", sum.Reward),
		zap.Int("apples", sum.ApplesEaten),
		zap.Stringer("outcome", sum.Outcome),
		zap.Bool("truncated", sum.Truncated),
	)
	return sum, nil
}

// Run plays episodes back to back and stops at the first error
func (r *Runner) Run(ctx context.Context, episodes int) ([]Summary, error) {
	summaries := make([]Summary, 0, episodes)
	for i := 0; i < episodes; i++ {
		sum, err := r.RunEpisode(ctx)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func (r *Runner) render(obs game.Observation) error {
	if r.Renderer == nil {
		return nil
	}
	if err := r.Renderer.Render(obs, r.Env.Status()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.FrameDelay <= 0 {
		return nil
	}
	t := time.NewTimer(r.FrameDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
