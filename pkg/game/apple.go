package game

import (
	"golang.org/x/exp/rand"
)

// AppleSpawner picks the next apple cell. It must return a cell inside the
// grid interior that is not in occupied, or ErrApplePlacementExhausted.
type AppleSpawner interface {
	Spawn(grid Grid, occupied []Point) (Point, error)
}

// spawnerResetter is implemented by spawners that restart with each episode
type spawnerResetter interface {
	Reset()
}

// maxSpawnAttempts bounds rejection sampling before falling back to an
// explicit scan of the free cells.
const maxSpawnAttempts = 100

// RandomSpawner places apples uniformly over free interior cells
type RandomSpawner struct {
	rng *rand.Rand
}

// NewRandomSpawner creates a spawner with its own seeded generator
func NewRandomSpawner(seed uint64) *RandomSpawner {
	return &RandomSpawner{rng: rand.New(rand.NewSource(seed))}
}

// Spawn samples interior cells until one is free. On crowded boards it
// switches to picking from the enumerated free cells so it always ends.
func (s *RandomSpawner) Spawn(grid Grid, occupied []Point) (Point, error) {
	if grid.InteriorCells() == 0 {
		return Point{}, ErrApplePlacementExhausted
	}

	for attempts := 0; attempts < maxSpawnAttempts; attempts++ {
		p := Point{
			X: s.rng.Intn(grid.Width-2) + 1,
			Y: s.rng.Intn(grid.Height-2) + 1,
		}
		if !contains(occupied, p) {
			return p, nil
		}
	}

	free := grid.FreeCells(occupied)
	if len(free) == 0 {
		return Point{}, ErrApplePlacementExhausted
	}
	return free[s.rng.Intn(len(free))], nil
}

// SequenceSpawner hands out a fixed list of cells in order, wrapping around.
// Cells that are occupied or outside the interior are skipped; if every
// listed cell is unusable the first free interior cell is used.
type SequenceSpawner struct {
	Points []Point
	next   int
}

// NewSequenceSpawner creates a spawner cycling through points
func NewSequenceSpawner(points ...Point) *SequenceSpawner {
	return &SequenceSpawner{Points: points}
}

// Reset rewinds the sequence; Env calls it on every Reset so episodes replay
func (s *SequenceSpawner) Reset() {
	s.next = 0
}

func (s *SequenceSpawner) Spawn(grid Grid, occupied []Point) (Point, error) {
	for i := 0; i < len(s.Points); i++ {
		p := s.Points[s.next%len(s.Points)]
		s.next++
		if !grid.IsOutOfBounds(p) && !contains(occupied, p) {
			return p, nil
		}
	}

	free := grid.FreeCells(occupied)
	if len(free) == 0 {
		return Point{}, ErrApplePlacementExhausted
	}
	return free[0], nil
}
