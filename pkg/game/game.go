package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trytobebee/snakegym/pkg/config"
)

// Env is a single-player snake episode with a reset/step interface.
// It is owned by one caller and is not safe for concurrent use.
type Env struct {
	grid       Grid
	startBody  []Point
	startDir   Direction
	startApple Point
	spawner    AppleSpawner
	logger     *zap.Logger
	observers  []StepObserver

	snake       []Point // head first
	direction   Direction
	apple       Point
	status      Status
	steps       int
	applesEaten int
}

// DefaultStart returns the standard initial body, head first
func DefaultStart() []Point {
	body := make([]Point, config.StartLength)
	for i := range body {
		body[i] = Point{X: config.StartHeadX - i, Y: config.StartHeadY}
	}
	return body
}

// New creates an environment and resets it, so the first Step is valid
// immediately.
func New(opts ...Option) (*Env, error) {
	e := &Env{
		grid:       Grid{Width: config.StandardWidth, Height: config.StandardHeight},
		startBody:  DefaultStart(),
		startDir:   Right,
		startApple: Point{X: config.StartAppleX, Y: config.StartAppleY},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.spawner == nil {
		e.spawner = NewRandomSpawner(uint64(time.Now().UnixNano()))
	}
	if err := e.validate(); err != nil {
		return nil, err
	}

	e.Reset()
	return e, nil
}

func (e *Env) validate() error {
	if e.grid.InteriorCells() == 0 {
		return fmt.Errorf("%w: grid %dx%d has no interior", ErrInvalidConfig, e.grid.Width, e.grid.Height)
	}
	if len(e.startBody) == 0 {
		return fmt.Errorf("%w: empty start body", ErrInvalidConfig)
	}
	if !e.startDir.IsUnit() {
		return fmt.Errorf("%w: start direction %v is not a unit vector", ErrInvalidConfig, e.startDir)
	}
	for i, p := range e.startBody {
		if e.grid.IsOutOfBounds(p) {
			return fmt.Errorf("%w: start segment %v outside the interior", ErrInvalidConfig, p)
		}
		if i > 0 {
			prev := e.startBody[i-1]
			if abs(prev.X-p.X)+abs(prev.Y-p.Y) != 1 {
				return fmt.Errorf("%w: start segments %v and %v are not adjacent", ErrInvalidConfig, prev, p)
			}
		}
	}
	if IsSelfCollision(e.startBody) {
		return fmt.Errorf("%w: start body overlaps itself", ErrInvalidConfig)
	}
	if len(e.startBody) > 1 && e.startBody[0].Add(e.startDir) == e.startBody[1] {
		return fmt.Errorf("%w: start direction %v points into the body", ErrInvalidConfig, e.startDir)
	}
	if e.grid.IsOutOfBounds(e.startApple) || contains(e.startBody, e.startApple) {
		return fmt.Errorf("%w: start apple %v must be a free interior cell", ErrInvalidConfig, e.startApple)
	}
	return nil
}

// Reset restores the initial layout and returns the first observation
func (e *Env) Reset() Observation {
	if r, ok := e.spawner.(spawnerResetter); ok {
		r.Reset()
	}

	e.snake = append(make([]Point, 0, len(e.startBody)+1), e.startBody...)
	e.direction = e.startDir
	e.apple = e.startApple
	e.status = StatusActive
	e.steps = 0
	e.applesEaten = 0

	obs := e.Observation()
	for _, o := range e.observers {
		o.OnReset(obs.Clone())
	}
	return obs
}

// Step advances the snake one cell. Invalid actions and steps after
// termination return an error and leave the state untouched.
func (e *Env) Step(a Action) (StepResult, error) {
	if !a.Valid() {
		return StepResult{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	if e.status == StatusTerminated {
		return StepResult{}, ErrInvalidState
	}

	var prev Observation
	if len(e.observers) > 0 {
		prev = e.Observation()
	}

	// Reversing into the neck is ignored; the snake keeps its heading.
	dir := e.direction
	if cand := a.Direction(); cand != dir.Opposite() {
		dir = cand
	}

	head := e.snake[0].Add(dir)
	snake := make([]Point, 0, len(e.snake)+1)
	snake = append(snake, head)
	snake = append(snake, e.snake...)

	reward := RewardStep
	outcome := OutcomeNone
	apple := e.apple
	ate := head == e.apple

	if ate {
		reward = RewardApple
		outcome = OutcomeAteApple
		next, err := e.spawner.Spawn(e.grid, snake)
		switch {
		case err == nil:
			apple = next
		case errors.Is(err, ErrApplePlacementExhausted):
			outcome = OutcomeBoardFull
		default:
			return StepResult{}, fmt.Errorf("failed to place apple: %w", err)
		}
	} else {
		snake = snake[:len(snake)-1]
	}

	if outcome != OutcomeBoardFull {
		if e.grid.IsOutOfBounds(head) {
			outcome = OutcomeWall
		} else if IsSelfCollision(snake) {
			outcome = OutcomeSelf
		}
		if outcome == OutcomeWall || outcome == OutcomeSelf {
			reward = RewardCollision
		}
	}

	e.direction = dir
	e.snake = snake
	e.apple = apple
	e.steps++
	if ate {
		e.applesEaten++
	}
	done := outcome.Terminal()
	if done {
		e.status = StatusTerminated
		e.logger.Debug("episode terminated",
			zap.Stringer("outcome", outcome),
			zap.Int("steps", e.steps),
			zap.Int("length", len(e.snake)),
			zap.Stringer("head", head),
		)
	}

	res := StepResult{
		Observation: e.Observation(),
		Reward:      reward,
		Done:        done,
		Info: Info{
			Outcome:     outcome,
			Steps:       e.steps,
			ApplesEaten: e.applesEaten,
			Length:      len(e.snake),
		},
	}
	for _, o := range e.observers {
		o.OnStep(prev, a, StepResult{
			Observation: res.Observation.Clone(),
			Reward:      res.Reward,
			Done:        res.Done,
			Info:        res.Info,
		})
	}
	return res, nil
}

// Observation returns a copy of the current state
func (e *Env) Observation() Observation {
	return Observation{
		Snake:     e.Snake(),
		Direction: e.direction,
		Apple:     e.apple,
	}
}

// Snake returns the occupied cells, head first
func (e *Env) Snake() []Point {
	return append([]Point(nil), e.snake...)
}

func (e *Env) Apple() Point { return e.apple }

func (e *Env) Direction() Direction { return e.direction }

func (e *Env) Status() Status { return e.status }

func (e *Env) Grid() Grid { return e.grid }

// Steps returns the number of steps taken since the last Reset
func (e *Env) Steps() int { return e.steps }

func (e *Env) ApplesEaten() int { return e.applesEaten }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
