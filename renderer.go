package camfx

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/compose"
	"github.com/gogpu/camfx/internal/effects"
	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/motion"
)

// State is threaded from one tick to the next. The zero value is the state
// before the first frame.
type State struct {
	// Previous is the frame rendered on the last tick, or nil.
	Previous *Frame

	// Motion holds the raw motion flags computed on the last tick.
	Motion motion.State

	// Positions are the cell positions recorded by motion blur.
	Positions motion.Positions

	// Trail is the previous motion blur output. Tick never writes into the
	// trail it is given; trail pixmaps are recycled two ticks later.
	Trail *gg.Pixmap

	// Effect is the effect rendered on the last tick.
	Effect Effect

	// Ticks counts successful ticks.
	Ticks uint64
}

// Counts are the drawing commands issued during one tick.
type Counts = compose.Counts

// RenderStats describe the most recent ticks of a Renderer.
type RenderStats struct {
	Ticks           uint64
	OverBudget      uint64
	DimensionResets uint64

	// LastCommands are the drawing commands of the last tick.
	LastCommands Counts

	// LastDuration is the render time of the last tick.
	LastDuration time.Duration
}

// compositor is the part of *compose.Compositor the renderer drives.
type compositor interface {
	effects.Canvas

	Begin(w, h int)
	Err() error
	Counts() compose.Counts
	Snapshot(dst *gg.Pixmap) *gg.Pixmap
	Surface() *gg.Pixmap
}

// Renderer turns frames into stylized output on a reusable surface.
// Tick must not be called concurrently; Stats may be.
type Renderer struct {
	comp   compositor
	engine *effects.Engine

	// trails double-buffers motion blur snapshots.
	trails [2]*gg.Pixmap

	now    func() time.Time
	rand   *rand.Rand
	budget time.Duration

	mu    sync.Mutex
	stats RenderStats
}

// NewRenderer creates a renderer. It fails only when the glyph font cannot
// be loaded.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var copts []compose.Option
	if o.fonts != nil {
		copts = append(copts, compose.WithFontSource(o.fonts))
	}
	comp, err := compose.New(copts...)
	if err != nil {
		return nil, fmt.Errorf("camfx: create compositor: %w", err)
	}

	return &Renderer{
		comp:   comp,
		engine: effects.NewEngine(),
		now:    o.now,
		rand:   o.rand,
		budget: o.budget,
	}, nil
}

// Tick renders f with p and returns the state for the next tick.
//
// Invalid parameters or an invalid frame abort the tick and return st
// unchanged. A frame whose size differs from the previous one restarts
// motion detection and is rendered normally.
func (r *Renderer) Tick(st State, f *Frame, p Params) (State, error) {
	if err := p.Validate(); err != nil {
		return st, err
	}
	if err := f.Validate(); err != nil {
		return st, err
	}

	start := time.Now()
	log := Logger()

	positions, trail := st.Positions, st.Trail
	if p.Effect != st.Effect {
		log.Debug("camfx: effect changed", "from", st.Effect, "to", p.Effect)
		positions, trail = nil, nil
	}

	cur := f.buffer()
	var prev *grid.Buffer
	if st.Previous != nil {
		b := st.Previous.buffer()
		prev = &b
	}

	moving, flags, err := motion.Update(cur, prev, p.Spacing, p.Effect.Threshold(), st.Motion)
	resized := errors.Is(err, motion.ErrDimensionMismatch)
	if resized {
		log.Warn("camfx: frame size changed, motion reset",
			"from", fmt.Sprintf("%dx%d", st.Previous.Width, st.Previous.Height),
			"to", fmt.Sprintf("%dx%d", f.Width, f.Height))
		positions, trail = nil, nil
	}

	r.comp.Begin(f.Width, f.Height)
	out := r.engine.Render(p.Effect, effects.Input{
		Frame:        cur,
		TriangleSize: p.TriangleSize,
		Spacing:      p.Spacing,
		Flags:        flags,
		Positions:    positions,
		Trail:        trail,
		Now:          r.now(),
		Rand:         r.rand,
	}, r.comp)
	if err := r.comp.Err(); err != nil {
		return st, fmt.Errorf("camfx: render %s: %w", p.Effect, err)
	}

	next := State{
		Previous:  f,
		Motion:    moving,
		Positions: out.Positions,
		Effect:    p.Effect,
		Ticks:     st.Ticks + 1,
	}
	if p.Effect == EffectMotionBlur && !f.Empty() {
		next.Trail = r.snapshotTrail(st.Trail)
	}

	elapsed := time.Since(start)
	over := r.budget > 0 && elapsed > r.budget
	if over {
		log.Debug("camfx: tick over budget", "effect", p.Effect, "elapsed", elapsed, "budget", r.budget)
	}

	r.mu.Lock()
	r.stats.Ticks++
	if over {
		r.stats.OverBudget++
	}
	if resized {
		r.stats.DimensionResets++
	}
	r.stats.LastCommands = r.comp.Counts()
	r.stats.LastDuration = elapsed
	r.mu.Unlock()

	return next, nil
}

// snapshotTrail copies the surface into whichever trail buffer is not in
// use as prev.
func (r *Renderer) snapshotTrail(prev *gg.Pixmap) *gg.Pixmap {
	i := 0
	if r.trails[0] != nil && r.trails[0] == prev {
		i = 1
	}
	r.trails[i] = r.comp.Snapshot(r.trails[i])
	return r.trails[i]
}

// Surface returns the output of the last tick, or nil before the first.
// It is overwritten by the next Tick.
func (r *Renderer) Surface() *gg.Pixmap {
	return r.comp.Surface()
}

// Image returns a copy of the last output.
func (r *Renderer) Image() *image.RGBA {
	s := r.comp.Surface()
	if s == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return s.ToImage()
}

// Stats returns a snapshot of the render statistics.
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
