package camfx

import (
	"fmt"

	"github.com/gogpu/camfx/internal/effects"
)

// Effect selects one stylization effect.
type Effect = effects.Kind

// Effects, in the order NextEffect cycles through them.
const (
	EffectDefault      = effects.Default
	EffectMotionBlur   = effects.MotionBlur
	EffectPixelate     = effects.Pixelate
	EffectKaleidoscope = effects.Kaleidoscope
	EffectWaterRipple  = effects.WaterRipple
	EffectASCIIArt     = effects.ASCIIArt
	EffectNeon         = effects.Neon
	EffectGlitch       = effects.Glitch
	EffectVintage      = effects.Vintage
	EffectMatrix       = effects.Matrix
	EffectCircles      = effects.Circles
)

// Effects returns every effect in cycling order.
func Effects() []Effect {
	return effects.All()
}

// ParseEffect looks up an effect by identifier, e.g. "waterRipple".
func ParseEffect(name string) (Effect, error) {
	k, ok := effects.Parse(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return k, nil
}

// Parameter limits shared by TriangleSize and Spacing.
const (
	MinParam = 1
	MaxParam = 20
)

// Default parameter values.
const (
	DefaultTriangleSize = 4
	DefaultSpacing      = 5
)

// Params are the user-controlled knobs read at the start of every tick.
type Params struct {
	Effect Effect

	// TriangleSize scales every brightness-derived primitive.
	TriangleSize int

	// Spacing is the sampling lattice step in pixels.
	Spacing int
}

// DefaultParams returns the parameters a fresh control surface starts with.
func DefaultParams() Params {
	return Params{
		Effect:       EffectDefault,
		TriangleSize: DefaultTriangleSize,
		Spacing:      DefaultSpacing,
	}
}

// Validate reports ErrInvalidParameter for out-of-range values.
func (p Params) Validate() error {
	if !p.Effect.Valid() {
		return fmt.Errorf("%w: effect %d", ErrInvalidParameter, p.Effect)
	}
	if err := checkRange("triangle size", p.TriangleSize); err != nil {
		return err
	}
	return checkRange("spacing", p.Spacing)
}

func checkRange(name string, v int) error {
	if v < MinParam || v > MaxParam {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrInvalidParameter, name, v, MinParam, MaxParam)
	}
	return nil
}
