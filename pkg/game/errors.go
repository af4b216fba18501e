package game

import "errors"

var (
	// ErrInvalidAction is returned when an action is outside 0..3
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidState is returned when Step is called on a terminated episode
	ErrInvalidState = errors.New("episode is terminated, call Reset")
	// ErrApplePlacementExhausted is returned by spawners when no free interior cell remains
	ErrApplePlacementExhausted = errors.New("no free cell left for apple")
	// ErrInvalidConfig is returned by New for an unusable grid or start layout
	ErrInvalidConfig = errors.New("invalid game configuration")
)
