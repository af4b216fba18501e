package agent

import (
	"github.com/trytobebee/snakegym/pkg/game"
)

// Greedy steers toward the apple along the shortest Manhattan route while
// refusing moves that hit a wall or the body. Among safe moves it prefers
// those that leave at least a body length of reachable space.
type Greedy struct {
	Grid game.Grid
}

// NewGreedy creates a greedy controller for the given board
func NewGreedy(grid game.Grid) *Greedy {
	return &Greedy{Grid: grid}
}

type candidate struct {
	action game.Action
	dist   int
	space  int
}

func (c *Greedy) Act(obs game.Observation) game.Action {
	if len(obs.Snake) == 0 {
		return game.ActionRight
	}

	head := obs.Head()
	var best *candidate
	for _, a := range game.Actions {
		d := a.Direction()
		if d == obs.Direction.Opposite() {
			continue // the env would ignore it anyway
		}
		next := head.Add(d)
		body := c.bodyAfter(obs, next)
		if !c.isSafe(next, body[1:]) {
			continue
		}

		cand := candidate{
			action: a,
			dist:   manhattan(next, obs.Apple),
			space:  c.countReachableSpace(next, body, len(obs.Snake)+1),
		}
		if best == nil || better(cand, *best, len(obs.Snake)) {
			best = &cand
		}
	}

	if best == nil {
		return straight(obs)
	}
	return best.action
}

// better ranks roomy moves first, then apple distance, then space
func better(a, b candidate, length int) bool {
	aRoomy, bRoomy := a.space > length, b.space > length
	if aRoomy != bRoomy {
		return aRoomy
	}
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.space > b.space
}

// bodyAfter returns the snake after moving its head to next. The tail only
// stays in place when next is the apple.
func (c *Greedy) bodyAfter(obs game.Observation, next game.Point) []game.Point {
	keep := len(obs.Snake) - 1
	if next == obs.Apple {
		keep = len(obs.Snake)
	}
	body := make([]game.Point, 0, keep+1)
	body = append(body, next)
	return append(body, obs.Snake[:keep]...)
}

// isSafe checks if a position is not a wall or an occupied cell
func (c *Greedy) isSafe(p game.Point, occupied []game.Point) bool {
	if c.Grid.IsOutOfBounds(p) {
		return false
	}
	for _, s := range occupied {
		if s == p {
			return false
		}
	}
	return true
}

// countReachableSpace flood-fills free interior cells from start, stopping
// once limit cells have been found.
func (c *Greedy) countReachableSpace(start game.Point, body []game.Point, limit int) int {
	occupied := make(map[game.Point]bool, len(body))
	for _, p := range body[1:] {
		occupied[p] = true
	}

	visited := map[game.Point]bool{start: true}
	queue := []game.Point{start}
	count := 0
	dirs := []game.Direction{game.Up, game.Down, game.Right, game.Left}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		count++
		if count >= limit {
			return count
		}

		for _, d := range dirs {
			next := curr.Add(d)
			if visited[next] || occupied[next] || c.Grid.IsOutOfBounds(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return count
}

func manhattan(a, b game.Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
