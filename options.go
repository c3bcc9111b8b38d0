package camfx

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gogpu/gg/text"
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Reproducible output for golden tests
//	r, err := camfx.NewRenderer(
//	    camfx.WithClock(func() time.Time { return t0 }),
//	    camfx.WithRand(rand.New(rand.NewPCG(1, 2))),
//	)
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	now    func() time.Time
	rand   *rand.Rand
	fonts  *text.FontSource
	budget time.Duration
}

// DefaultFrameBudget is one frame at 60 Hz.
const DefaultFrameBudget = time.Second / 60

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		now:    time.Now,
		budget: DefaultFrameBudget,
	}
}

// WithClock sets the time source read once per tick. Hue cycling, glitch
// offsets and ripple phases follow it.
func WithClock(now func() time.Time) RendererOption {
	return func(o *rendererOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRand sets the random source used by glitch, vintage and matrix.
// The Renderer is not safe for concurrent ticks, so the source is never
// shared between goroutines.
func WithRand(r *rand.Rand) RendererOption {
	return func(o *rendererOptions) {
		o.rand = r
	}
}

// WithFontSource sets the font used for ASCII and matrix glyphs.
// The default is Go Mono.
func WithFontSource(src *text.FontSource) RendererOption {
	return func(o *rendererOptions) {
		o.fonts = src
	}
}

// WithFrameBudget sets the render duration above which a tick is logged as
// over budget. Zero disables the check.
func WithFrameBudget(d time.Duration) RendererOption {
	return func(o *rendererOptions) {
		o.budget = d
	}
}

// RunnerOption configures a Runner during creation.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	fps    float64
	ticker func(time.Duration) Ticker
	logger *slog.Logger
}

// DefaultFPS is the default tick rate, matching a 60 Hz display refresh.
const DefaultFPS = 60

func defaultRunnerOptions() runnerOptions {
	return runnerOptions{
		fps:    DefaultFPS,
		ticker: newTimeTicker,
	}
}

// WithFPS sets the tick rate. Non-positive values keep the default.
func WithFPS(fps float64) RunnerOption {
	return func(o *runnerOptions) {
		if fps > 0 {
			o.fps = fps
		}
	}
}

// WithTicker replaces the time.Ticker driving the loop. Tests use it to
// step the runner by hand.
func WithTicker(newTicker func(period time.Duration) Ticker) RunnerOption {
	return func(o *runnerOptions) {
		if newTicker != nil {
			o.ticker = newTicker
		}
	}
}

// WithRunnerLogger sets the logger for one runner instead of the package
// logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(o *runnerOptions) {
		o.logger = l
	}
}
