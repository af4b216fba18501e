package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()
	opts = append([]Option{WithSpawner(NewSequenceSpawner(Point{X: 12, Y: 12}, Point{X: 3, Y: 10}))}, opts...)
	env, err := New(opts...)
	require.NoError(t, err)
	return env
}

// TestNewStartsActive checks the default layout after construction
func TestNewStartsActive(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, StatusActive, env.Status())
	assert.Equal(t, []Point{{X: 5, Y: 4}, {X: 4, Y: 4}}, env.Snake())
	assert.Equal(t, Right, env.Direction())
	assert.Equal(t, Point{X: 10, Y: 4}, env.Apple())
	assert.Equal(t, Grid{Width: 25, Height: 25}, env.Grid())
	assert.Zero(t, env.Steps())
}

// TestResetIdempotent tests that back-to-back resets produce the same observation
func TestResetIdempotent(t *testing.T) {
	env := newTestEnv(t)

	first := env.Reset()
	second := env.Reset()
	assert.Equal(t, first, second)

	// Reset after some play restores the same layout
	for i := 0; i < 3; i++ {
		_, err := env.Step(ActionUp)
		require.NoError(t, err)
	}
	assert.Equal(t, first, env.Reset())
	assert.Zero(t, env.Steps())
	assert.Zero(t, env.ApplesEaten())
}

func TestStepMovesHead(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantDir Direction
		head    Point
	}{
		{"straight", ActionRight, Right, Point{X: 6, Y: 4}},
		{"turn up", ActionUp, Up, Point{X: 5, Y: 5}},
		{"turn down", ActionDown, Down, Point{X: 5, Y: 3}},
		{"reverse ignored", ActionLeft, Right, Point{X: 6, Y: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			res, err := env.Step(tt.action)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDir, env.Direction())
			assert.Equal(t, tt.wantDir, res.Observation.Direction)
			assert.Equal(t, tt.head, res.Observation.Head())
			assert.Equal(t, []Point{tt.head, {X: 5, Y: 4}}, res.Observation.Snake)
			assert.Equal(t, RewardStep, res.Reward)
			assert.False(t, res.Done)
			assert.Equal(t, OutcomeNone, res.Info.Outcome)
			assert.Equal(t, 1, res.Info.Steps)
			assert.Equal(t, 2, res.Info.Length)
		})
	}
}

// TestWallCollision covers the one-cell margin on the left edge
func TestWallCollision(t *testing.T) {
	env := newTestEnv(t, WithStart([]Point{{X: 1, Y: 4}, {X: 2, Y: 4}}, Left))

	res, err := env.Step(ActionLeft)
	require.NoError(t, err)

	assert.Equal(t, RewardCollision, res.Reward)
	assert.True(t, res.Done)
	assert.Equal(t, OutcomeWall, res.Info.Outcome)
	assert.Equal(t, StatusTerminated, env.Status())
	assert.Equal(t, Point{X: 0, Y: 4}, res.Observation.Head())
}

func TestWallCollisionAllSides(t *testing.T) {
	tests := []struct {
		name   string
		body   []Point
		dir    Direction
		action Action
	}{
		{"left", []Point{{X: 1, Y: 10}}, Left, ActionLeft},
		{"right", []Point{{X: 23, Y: 10}}, Right, ActionRight},
		{"bottom", []Point{{X: 10, Y: 1}}, Down, ActionDown},
		{"top", []Point{{X: 10, Y: 23}}, Up, ActionUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, WithStart(tt.body, tt.dir))
			res, err := env.Step(tt.action)
			require.NoError(t, err)
			assert.True(t, res.Done)
			assert.Equal(t, OutcomeWall, res.Info.Outcome)
		})
	}
}

func TestSelfCollision(t *testing.T) {
	body := []Point{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 4}, {X: 4, Y: 4}, {X: 3, Y: 4}}
	env := newTestEnv(t, WithStart(body, Left))

	res, err := env.Step(ActionDown)
	require.NoError(t, err)

	assert.True(t, res.Done)
	assert.Equal(t, RewardCollision, res.Reward)
	assert.Equal(t, OutcomeSelf, res.Info.Outcome)
	assert.Equal(t, StatusTerminated, env.Status())
	assert.True(t, IsSelfCollision(res.Observation.Snake))
}

// TestChaseTail checks that the head may enter the cell the tail leaves
func TestChaseTail(t *testing.T) {
	body := []Point{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 4}, {X: 4, Y: 4}}
	env := newTestEnv(t, WithStart(body, Left))

	res, err := env.Step(ActionDown)
	require.NoError(t, err)

	assert.False(t, res.Done)
	assert.Equal(t, []Point{{X: 4, Y: 4}, {X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 4}}, res.Observation.Snake)
}

func TestAppleConsumption(t *testing.T) {
	env := newTestEnv(t, WithApple(Point{X: 6, Y: 4}))
	before := len(env.Snake())

	res, err := env.Step(ActionRight)
	require.NoError(t, err)

	assert.Equal(t, RewardApple, res.Reward)
	assert.False(t, res.Done)
	assert.Equal(t, OutcomeAteApple, res.Info.Outcome)
	assert.Len(t, res.Observation.Snake, before+1)
	assert.Equal(t, 1, res.Info.ApplesEaten)
	assert.Equal(t, Point{X: 12, Y: 12}, res.Observation.Apple)
	assert.NotContains(t, res.Observation.Snake, res.Observation.Apple)
	assert.Equal(t, StatusActive, env.Status())
}

// TestBoardFull fills a two-cell interior and expects a winning terminal step
func TestBoardFull(t *testing.T) {
	env, err := New(
		WithGrid(4, 3),
		WithStart([]Point{{X: 1, Y: 1}}, Right),
		WithApple(Point{X: 2, Y: 1}),
		WithSeed(7),
	)
	require.NoError(t, err)

	res, err := env.Step(ActionRight)
	require.NoError(t, err)

	assert.True(t, res.Done)
	assert.Equal(t, RewardApple, res.Reward)
	assert.Equal(t, OutcomeBoardFull, res.Info.Outcome)
	assert.Equal(t, StatusTerminated, env.Status())
	assert.Equal(t, []Point{{X: 2, Y: 1}, {X: 1, Y: 1}}, res.Observation.Snake)
	assert.Equal(t, 1, env.ApplesEaten())
}

func TestInvalidActionDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	before := env.Observation()

	for _, a := range []Action{-1, 4, 5, 100} {
		_, err := env.Step(a)
		assert.ErrorIs(t, err, ErrInvalidAction, "action %d", a)
	}

	assert.Equal(t, before, env.Observation())
	assert.Zero(t, env.Steps())
	assert.Equal(t, StatusActive, env.Status())
}

func TestStepAfterTermination(t *testing.T) {
	env := newTestEnv(t, WithStart([]Point{{X: 1, Y: 4}}, Left))

	res, err := env.Step(ActionLeft)
	require.NoError(t, err)
	require.True(t, res.Done)
	final := env.Observation()

	_, err = env.Step(ActionUp)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, final, env.Observation())
	assert.Equal(t, 1, env.Steps())

	// An invalid action still reports the action error first
	_, err = env.Step(9)
	assert.ErrorIs(t, err, ErrInvalidAction)

	env.Reset()
	_, err = env.Step(ActionUp)
	assert.NoError(t, err)
}

// TestDeterministicReplay checks that fixed apple placement makes episodes repeatable
func TestDeterministicReplay(t *testing.T) {
	env := newTestEnv(t)
	actions := []Action{
		ActionRight, ActionRight, ActionRight, ActionRight, ActionRight, // eat (10,4)
		ActionUp, ActionUp, ActionRight, ActionRight, ActionUp,
		ActionLeft, ActionUp, ActionUp, ActionUp, ActionDown,
	}

	play := func() []StepResult {
		env.Reset()
		var out []StepResult
		for _, a := range actions {
			res, err := env.Step(a)
			require.NoError(t, err)
			out = append(out, res)
			if res.Done {
				break
			}
		}
		return out
	}

	first := play()
	second := play()
	assert.Equal(t, first, second)
	assert.Equal(t, RewardApple, first[4].Reward)
}

// TestRandomPlayInvariants drives the env with random actions and checks
// that an active snake never overlaps itself and grows only by eating.
func TestRandomPlayInvariants(t *testing.T) {
	env, err := New(WithGrid(10, 10), WithStart([]Point{{X: 5, Y: 4}, {X: 4, Y: 4}}, Right),
		WithApple(Point{X: 7, Y: 4}), WithSeed(42))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	for episode := 0; episode < 50; episode++ {
		obs := env.Reset()
		for {
			a := Actions[rng.Intn(NumActions)]
			res, err := env.Step(a)
			require.NoError(t, err)

			if !res.Done {
				assert.False(t, IsSelfCollision(res.Observation.Snake))
				assert.False(t, env.Grid().IsOutOfBounds(res.Observation.Head()))
				assert.NotContains(t, res.Observation.Snake, res.Observation.Apple)
				switch res.Info.Outcome {
				case OutcomeAteApple:
					assert.Len(t, res.Observation.Snake, len(obs.Snake)+1)
				default:
					assert.Len(t, res.Observation.Snake, len(obs.Snake))
				}
			}
			obs = res.Observation
			if res.Done {
				break
			}
		}
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no interior", []Option{WithGrid(2, 10)}},
		{"empty body", []Option{WithStart(nil, Right)}},
		{"zero direction", []Option{WithStart([]Point{{X: 5, Y: 5}}, Direction{})}},
		{"diagonal direction", []Option{WithStart([]Point{{X: 5, Y: 5}}, Direction{X: 1, Y: 1})}},
		{"body on wall", []Option{WithStart([]Point{{X: 0, Y: 5}}, Right)}},
		{"body gap", []Option{WithStart([]Point{{X: 5, Y: 5}, {X: 3, Y: 5}}, Right)}},
		{"body overlap", []Option{WithStart([]Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 5, Y: 5}}, Up)}},
		{"facing neck", []Option{WithStart([]Point{{X: 5, Y: 5}, {X: 4, Y: 5}}, Left)}},
		{"apple on body", []Option{WithApple(Point{X: 4, Y: 4})}},
		{"apple on wall", []Option{WithApple(Point{X: 24, Y: 4})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := New(tt.opts...)
			assert.Nil(t, env)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestObserversSeeCommittedState(t *testing.T) {
	var resets, steps int
	var lastPrev Observation
	var lastAction Action
	obs := ObserverFuncs{
		Reset: func(Observation) { resets++ },
		Step: func(prev Observation, a Action, res StepResult) {
			steps++
			lastPrev = prev
			lastAction = a
		},
	}

	env := newTestEnv(t, WithObserver(obs))
	assert.Equal(t, 1, resets)

	before := env.Observation()
	_, err := env.Step(ActionUp)
	require.NoError(t, err)

	assert.Equal(t, 1, steps)
	assert.Equal(t, before, lastPrev)
	assert.Equal(t, ActionUp, lastAction)

	// Rejected steps are not reported
	_, err = env.Step(7)
	require.Error(t, err)
	assert.Equal(t, 1, steps)
}

type failingSpawner struct{}

func (failingSpawner) Spawn(Grid, []Point) (Point, error) {
	return Point{}, errors.New("boom")
}

func TestSpawnerFailureLeavesStateUntouched(t *testing.T) {
	env, err := New(WithApple(Point{X: 6, Y: 4}), WithSpawner(failingSpawner{}))
	require.NoError(t, err)
	before := env.Observation()

	_, err = env.Step(ActionRight)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrApplePlacementExhausted)
	assert.Equal(t, before, env.Observation())
	assert.Zero(t, env.Steps())
}

func TestObservationIsACopy(t *testing.T) {
	env := newTestEnv(t)

	snake := env.Snake()
	snake[0] = Point{X: 99, Y: 99}
	obs := env.Observation()
	obs.Snake[1] = Point{X: 98, Y: 98}

	assert.Equal(t, []Point{{X: 5, Y: 4}, {X: 4, Y: 4}}, env.Snake())
}
