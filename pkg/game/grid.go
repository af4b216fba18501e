package game

// Grid is the fixed rectangular board. The outermost ring of cells is wall;
// the playable interior is [1, Width-2] x [1, Height-2].
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsOutOfBounds reports whether p lies on the wall ring or outside the board
func (g Grid) IsOutOfBounds(p Point) bool {
	return p.X <= 0 || p.X >= g.Width-1 || p.Y <= 0 || p.Y >= g.Height-1
}

// InteriorCells returns the number of playable cells
func (g Grid) InteriorCells() int {
	if g.Width < 3 || g.Height < 3 {
		return 0
	}
	return (g.Width - 2) * (g.Height - 2)
}

// FreeCells lists interior cells not covered by occupied, row by row
func (g Grid) FreeCells(occupied []Point) []Point {
	taken := make(map[Point]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}
	free := make([]Point, 0, g.InteriorCells())
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			p := Point{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				free = append(free, p)
			}
		}
	}
	return free
}

// IsSelfCollision reports whether any two segments share a cell
func IsSelfCollision(snake []Point) bool {
	seen := make(map[Point]struct{}, len(snake))
	for _, p := range snake {
		if _, dup := seen[p]; dup {
			return true
		}
		seen[p] = struct{}{}
	}
	return false
}

func contains(snake []Point, p Point) bool {
	for _, s := range snake {
		if s == p {
			return true
		}
	}
	return false
}
