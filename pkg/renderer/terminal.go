package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/trytobebee/snakegym/pkg/config"
	"github.com/trytobebee/snakegym/pkg/game"
)

// Renderer draws frames from observations. It never touches the env.
type Renderer interface {
	Render(obs game.Observation, status game.Status) error
}

// TerminalRenderer handles terminal-based rendering
type TerminalRenderer struct {
	out    io.Writer
	grid   game.Grid
	board  [][]int
	buffer strings.Builder

	// ClearScreen emits ANSI clear codes before each frame
	ClearScreen bool
	// Footer is printed under the board, e.g. key help
	Footer string
}

// Cell types for the board
const (
	cellEmpty = iota
	cellWall
	cellHead
	cellBody
	cellApple
	cellCrash
)

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer(out io.Writer, grid game.Grid) *TerminalRenderer {
	// Pre-allocate board to reduce GC pressure
	board := make([][]int, grid.Height)
	for i := range board {
		board[i] = make([]int, grid.Width)
	}

	return &TerminalRenderer{
		out:   out,
		grid:  grid,
		board: board,
	}
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Render draws one frame. Rows are printed top-down with the highest y
// first, so Up moves the head toward the top of the screen.
func (r *TerminalRenderer) Render(obs game.Observation, status game.Status) error {
	r.buffer.Reset()
	if r.ClearScreen {
		r.buffer.WriteString("\033[H\033[2J\033[3J")
	}

	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cellEmpty
		}
	}

	// Draw walls
	w, h := r.grid.Width, r.grid.Height
	for x := 0; x < w; x++ {
		r.board[0][x] = cellWall
		r.board[h-1][x] = cellWall
	}
	for y := 0; y < h; y++ {
		r.board[y][0] = cellWall
		r.board[y][w-1] = cellWall
	}

	r.set(obs.Apple, cellApple)
	for i := len(obs.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			r.set(obs.Snake[i], cellHead)
		} else {
			r.set(obs.Snake[i], cellBody)
		}
	}
	if status == game.StatusTerminated && len(obs.Snake) > 0 {
		r.set(obs.Head(), cellCrash)
	}

	r.buffer.WriteString("\n  🐍 SNAKE 🐍\n")
	fmt.Fprintf(&r.buffer, "  Length: %d  |  Heading: %s  |  Apple: %v  |  %s\n\n",
		len(obs.Snake), obs.Direction, obs.Apple, status)

	for y := h - 1; y >= 0; y-- {
		r.buffer.WriteString("  ")
		for _, cell := range r.board[y] {
			switch cell {
			case cellEmpty:
				r.buffer.WriteString(config.CharEmpty)
			case cellWall:
				r.buffer.WriteString(config.CharWall)
			case cellHead:
				r.buffer.WriteString(config.CharHead)
			case cellBody:
				r.buffer.WriteString(config.CharBody)
			case cellApple:
				r.buffer.WriteString(config.CharApple)
			case cellCrash:
				r.buffer.WriteString(config.CharCrash)
			}
		}
		r.buffer.WriteString("\n")
	}

	if r.Footer != "" {
		r.buffer.WriteString("\n  " + r.Footer + "\n")
	}
	if status == game.StatusTerminated {
		r.buffer.WriteString("\n  💀 GAME OVER!\n")
	}

	_, err := io.WriteString(r.out, r.buffer.String())
	return err
}

// set marks a cell, ignoring points off the board (a head that crashed
// through the wall ring).
func (r *TerminalRenderer) set(p game.Point, cell int) {
	if p.X < 0 || p.X >= r.grid.Width || p.Y < 0 || p.Y >= r.grid.Height {
		return
	}
	r.board[p.Y][p.X] = cell
}
