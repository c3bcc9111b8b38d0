package camfx

import (
	"fmt"
	"sync"
)

// Controls is the external control surface. Setters may be called from any
// goroutine; the Runner reads a Snapshot at the start of each tick, so a
// change takes effect on the next tick, never mid-frame.
type Controls struct {
	mu sync.Mutex
	p  Params
}

// NewControls creates a control surface holding p. Invalid values in p are
// replaced by their defaults.
func NewControls(p Params) *Controls {
	d := DefaultParams()
	if !p.Effect.Valid() {
		p.Effect = d.Effect
	}
	if checkRange("", p.TriangleSize) != nil {
		p.TriangleSize = d.TriangleSize
	}
	if checkRange("", p.Spacing) != nil {
		p.Spacing = d.Spacing
	}
	return &Controls{p: p}
}

// Snapshot returns the current parameters.
func (c *Controls) Snapshot() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p
}

// SetEffect selects e.
func (c *Controls) SetEffect(e Effect) error {
	if !e.Valid() {
		return fmt.Errorf("%w: effect %d", ErrInvalidParameter, e)
	}
	c.mu.Lock()
	c.p.Effect = e
	c.mu.Unlock()
	return nil
}

// SetEffectName selects the effect called name.
func (c *Controls) SetEffectName(name string) error {
	e, err := ParseEffect(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return c.SetEffect(e)
}

// NextEffect selects the effect after the current one and returns it.
func (c *Controls) NextEffect() Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p.Effect = c.p.Effect.Next()
	return c.p.Effect
}

// PrevEffect selects the effect before the current one and returns it.
func (c *Controls) PrevEffect() Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p.Effect = c.p.Effect.Prev()
	return c.p.Effect
}

// SetTriangleSize sets the triangle size, 1 to 20.
func (c *Controls) SetTriangleSize(v int) error {
	if err := checkRange("triangle size", v); err != nil {
		return err
	}
	c.mu.Lock()
	c.p.TriangleSize = v
	c.mu.Unlock()
	return nil
}

// SetSpacing sets the lattice spacing, 1 to 20.
func (c *Controls) SetSpacing(v int) error {
	if err := checkRange("spacing", v); err != nil {
		return err
	}
	c.mu.Lock()
	c.p.Spacing = v
	c.mu.Unlock()
	return nil
}

// AdjustTriangleSize adds delta to the triangle size, saturating at the
// range limits, and returns the new value.
func (c *Controls) AdjustTriangleSize(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p.TriangleSize = saturate(c.p.TriangleSize + delta)
	return c.p.TriangleSize
}

// AdjustSpacing adds delta to the spacing, saturating at the range limits,
// and returns the new value.
func (c *Controls) AdjustSpacing(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p.Spacing = saturate(c.p.Spacing + delta)
	return c.p.Spacing
}

func saturate(v int) int {
	return min(max(v, MinParam), MaxParam)
}
