package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Point represents a cell on the game board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell one move away from p in direction d
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit vector the snake head travels along each step
type Direction struct {
	X int `json:"dx"`
	Y int `json:"dy"`
}

var (
	Right = Direction{X: 1, Y: 0}
	Left  = Direction{X: -1, Y: 0}
	Up    = Direction{X: 0, Y: 1}
	Down  = Direction{X: 0, Y: -1}
)

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// IsUnit reports whether d is one of Right, Left, Up or Down
func (d Direction) IsUnit() bool {
	return d == Right || d == Left || d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("dir(%d,%d)", d.X, d.Y)
}

// Action is the integer an agent submits to Step
type Action int

const (
	ActionRight Action = iota
	ActionLeft
	ActionUp
	ActionDown
)

// NumActions is the size of the discrete action space
const NumActions = 4

// Actions lists every valid action in index order
var Actions = [NumActions]Action{ActionRight, ActionLeft, ActionUp, ActionDown}

var actionDirections = [NumActions]Direction{Right, Left, Up, Down}

// Valid reports whether a is inside the action space
func (a Action) Valid() bool {
	return a >= 0 && int(a) < NumActions
}

// Direction maps an action to its movement vector; invalid actions map to
// the zero vector.
func (a Action) Direction() Direction {
	if !a.Valid() {
		return Direction{}
	}
	return actionDirections[a]
}

func (a Action) String() string {
	if !a.Valid() {
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionDirections[a].String()
}

// ActionFor returns the action that requests direction d
func ActionFor(d Direction) (Action, bool) {
	for i, ad := range actionDirections {
		if ad == d {
			return Action(i), true
		}
	}
	return 0, false
}

// ParseAction accepts either an action index ("0".."3") or a direction name
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		a := Action(n)
		if !a.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidAction, n)
		}
		return a, nil
	}
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Status is the episode lifecycle state
type Status int

const (
	StatusActive Status = iota
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusTerminated:
		return "terminated"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Outcome describes what a single step did
type Outcome int

const (
	OutcomeNone      Outcome = iota // Ordinary move
	OutcomeAteApple                 // Head landed on the apple
	OutcomeWall                     // Head left the playable interior
	OutcomeSelf                     // Head ran into the body
	OutcomeBoardFull                // Snake covers every interior cell
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAteApple:
		return "ate_apple"
	case OutcomeWall:
		return "wall"
	case OutcomeSelf:
		return "self"
	case OutcomeBoardFull:
		return "board_full"
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// Terminal reports whether the outcome ends the episode
func (o Outcome) Terminal() bool {
	return o == OutcomeWall || o == OutcomeSelf || o == OutcomeBoardFull
}

// Observation is the snapshot handed to agents and renderers
type Observation struct {
	Snake     []Point   `json:"snake"`
	Direction Direction `json:"direction"`
	Apple     Point     `json:"apple"`
}

// Head returns the first snake segment
func (o Observation) Head() Point {
	return o.Snake[0]
}

// Clone returns a deep copy of the observation
func (o Observation) Clone() Observation {
	o.Snake = append([]Point(nil), o.Snake...)
	return o
}

// Info carries per-step diagnostics
type Info struct {
	Outcome     Outcome `json:"outcome"`
	Steps       int     `json:"steps"`
	ApplesEaten int     `json:"applesEaten"`
	Length      int     `json:"length"`
}

// StepResult is returned by Env.Step
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Done        bool        `json:"done"`
	Info        Info        `json:"info"`
}

// Reward values
const (
	RewardStep      = 0.0
	RewardApple     = 1.0
	RewardCollision = -1.0
)
