package effects

import "github.com/gogpu/camfx/internal/motion"

// Kind selects one effect.
type Kind uint8

// Effect variants, in control-bar cycling order.
const (
	Default Kind = iota
	MotionBlur
	Pixelate
	Kaleidoscope
	WaterRipple
	ASCIIArt
	Neon
	Glitch
	Vintage
	Matrix
	Circles

	numKinds
)

// Category groups effects the way the control bar does.
type Category uint8

const (
	CategoryBasic Category = iota
	CategoryCreative
	CategoryDigital
	CategoryRetro
)

func (c Category) String() string {
	switch c {
	case CategoryBasic:
		return "Basic"
	case CategoryCreative:
		return "Creative"
	case CategoryDigital:
		return "Digital"
	case CategoryRetro:
		return "Retro"
	default:
		return "Unknown"
	}
}

type kindInfo struct {
	id        string
	display   string
	category  Category
	threshold float64
}

var kinds = [numKinds]kindInfo{
	Default:      {"default", "Normal", CategoryBasic, motion.DefaultThreshold},
	MotionBlur:   {"motionBlur", "Motion", CategoryBasic, motion.DefaultThreshold},
	Pixelate:     {"pixelate", "Pixel", CategoryBasic, motion.DefaultThreshold},
	Kaleidoscope: {"kaleidoscope", "Kaleido", CategoryCreative, motion.DefaultThreshold},
	WaterRipple:  {"waterRipple", "Ripple", CategoryCreative, motion.DefaultThreshold},
	ASCIIArt:     {"asciiArt", "ASCII", CategoryDigital, motion.DefaultThreshold},
	Neon:         {"neon", "Neon", CategoryCreative, motion.DefaultThreshold},
	Glitch:       {"glitch", "Glitch", CategoryDigital, motion.DefaultThreshold},
	Vintage:      {"vintage", "Vintage", CategoryRetro, motion.DefaultThreshold},
	Matrix:       {"matrix", "Matrix", CategoryDigital, motion.DefaultThreshold},
	Circles:      {"circles", "Circles", CategoryBasic, 30},
}

// Valid reports whether k is a known variant.
func (k Kind) Valid() bool {
	return k < numKinds
}

// String returns the identifier used on the command line and by Parse.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].id
}

// DisplayName returns the short control-bar label.
func (k Kind) DisplayName() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kinds[k].display
}

// Category returns the control-bar group.
func (k Kind) Category() Category {
	if !k.Valid() {
		return CategoryBasic
	}
	return kinds[k].category
}

// Threshold returns the brightness delta above which a cell counts as
// moving while k is selected.
func (k Kind) Threshold() float64 {
	if !k.Valid() {
		return motion.DefaultThreshold
	}
	return kinds[k].threshold
}

// Next returns the variant after k, wrapping around.
func (k Kind) Next() Kind {
	return (k + 1) % numKinds
}

// Prev returns the variant before k, wrapping around.
func (k Kind) Prev() Kind {
	return (k + numKinds - 1) % numKinds
}

// Parse looks up a variant by identifier.
func Parse(s string) (Kind, bool) {
	for k := range numKinds {
		if kinds[k].id == s {
			return k, true
		}
	}
	return 0, false
}

// All returns every variant in cycling order.
func All() []Kind {
	out := make([]Kind, numKinds)
	for k := range numKinds {
		out[k] = k
	}
	return out
}
