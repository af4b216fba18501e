package agent

import (
	"golang.org/x/exp/rand"

	"github.com/trytobebee/snakegym/pkg/game"
)

// Controller defines the brain of a player (human, random or heuristic)
type Controller interface {
	Act(obs game.Observation) game.Action
}

// ControllerFunc adapts a function to Controller
type ControllerFunc func(obs game.Observation) game.Action

func (f ControllerFunc) Act(obs game.Observation) game.Action {
	return f(obs)
}

// --- Implementation: Manual Controller (Human) ---

// Manual replays the last direction requested by a human. Without a pending
// request the snake keeps going straight.
type Manual struct {
	pending *game.Action
}

// Set queues an action for the next Act call
func (c *Manual) Set(a game.Action) {
	c.pending = &a
}

func (c *Manual) Act(obs game.Observation) game.Action {
	if c.pending != nil {
		a := *c.pending
		c.pending = nil
		return a
	}
	return straight(obs)
}

// --- Implementation: Random Controller ---

// Random samples uniformly over the four actions, like the reference driver
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random controller with its own seeded generator
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (c *Random) Act(game.Observation) game.Action {
	return game.Actions[c.rng.Intn(game.NumActions)]
}

// straight returns the action matching the current heading
func straight(obs game.Observation) game.Action {
	if a, ok := game.ActionFor(obs.Direction); ok {
		return a
	}
	return game.ActionRight
}
