// Package motion tracks per-cell brightness changes between consecutive
// frames.
//
// Cells are keyed by their lattice coordinates, so a key keeps its meaning
// when the spacing or the resolution changes. The moving flag seen by
// effects is sticky for one extra frame: a cell that moved on the previous
// tick still reads as moving on this one.
package motion

import (
	"errors"
	"math"

	"github.com/gogpu/camfx/internal/grid"
)

// DefaultThreshold is the brightness delta above which a cell is moving.
const DefaultThreshold = 20

// ErrDimensionMismatch is returned by Update when the previous frame has a
// different size than the current one.
var ErrDimensionMismatch = errors.New("motion: frame dimensions changed")

// Key identifies a lattice cell by its top-left pixel.
type Key struct {
	X, Y int
}

// State holds the raw moving flags computed on one tick. The zero value is
// the first-tick state.
type State struct {
	moving map[Key]bool
}

// Len returns the number of cells flagged as moving.
func (s State) Len() int {
	return len(s.moving)
}

// Moving reports the raw flag recorded for k.
func (s State) Moving(k Key) bool {
	return s.moving[k]
}

// Flags is the view effects read during a tick.
type Flags struct {
	prev State
	now  State
}

// Moving reports whether k moved on this tick or the one before it.
func (f Flags) Moving(k Key) bool {
	return f.prev.moving[k] || f.now.moving[k]
}

// MovingNow reports whether k moved on this tick.
func (f Flags) MovingNow(k Key) bool {
	return f.now.moving[k]
}

// Update compares cur against prev on the spacing lattice. It returns the
// state to keep for the next tick and the flags to render this tick with.
//
// A nil prev yields no motion. A prev of a different size also yields no
// motion, drops prevState and returns ErrDimensionMismatch alongside the
// valid fresh state.
func Update(cur grid.Buffer, prev *grid.Buffer, spacing int, threshold float64, prevState State) (State, Flags, error) {
	if prev == nil {
		return State{}, Flags{}, nil
	}
	if !cur.SameSize(*prev) {
		return State{}, Flags{}, ErrDimensionMismatch
	}

	next := State{moving: make(map[Key]bool)}
	grid.Traverse(cur, spacing, func(s grid.Sample) {
		before := grid.Brightness(*prev, s.X, s.Y)
		if math.Abs(s.Brightness-before) > threshold {
			next.moving[Key{X: s.X, Y: s.Y}] = true
		}
	})

	return next, Flags{prev: prevState, now: next}, nil
}

// Point is a remembered cell position.
type Point struct {
	X, Y float64
}

// Positions maps each cell to the position it was drawn at on the previous
// tick.
type Positions map[Key]Point

// Lookup returns the remembered position of k, or k itself when none was
// recorded.
func (p Positions) Lookup(k Key) Point {
	if pt, ok := p[k]; ok {
		return pt
	}
	return Point{X: float64(k.X), Y: float64(k.Y)}
}
