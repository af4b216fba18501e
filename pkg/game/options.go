package game

import (
	"go.uber.org/zap"
)

// Option customizes an Env created by New
type Option func(*Env)

// WithGrid sets the board size. Both sides must be at least 3 so an interior exists.
func WithGrid(width, height int) Option {
	return func(e *Env) {
		e.grid = Grid{Width: width, Height: height}
	}
}

// WithStart sets the body (head first) and heading restored by Reset
func WithStart(body []Point, dir Direction) Option {
	return func(e *Env) {
		e.startBody = append([]Point(nil), body...)
		e.startDir = dir
	}
}

// WithApple sets the apple cell restored by Reset
func WithApple(p Point) Option {
	return func(e *Env) {
		e.startApple = p
	}
}

// WithSpawner replaces the apple placement strategy
func WithSpawner(s AppleSpawner) Option {
	return func(e *Env) {
		e.spawner = s
	}
}

// WithSeed uses a RandomSpawner seeded with seed
func WithSeed(seed uint64) Option {
	return func(e *Env) {
		e.spawner = NewRandomSpawner(seed)
	}
}

// WithLogger attaches a logger; the default discards everything
func WithLogger(l *zap.Logger) Option {
	return func(e *Env) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a hook called after every Reset and Step
func WithObserver(o StepObserver) Option {
	return func(e *Env) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}
