package camfx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// FrameSource produces frames on demand.
//
// Next returns ErrSourceUnavailable when no frame is ready and io.EOF when
// the stream has ended. A returned frame must not be modified afterwards:
// the renderer keeps it as the previous frame for motion detection.
type FrameSource interface {
	Next(ctx context.Context) (*Frame, error)
}

// Sink consumes rendered surfaces. The surface is only valid until Present
// returns. Returning io.EOF stops the runner.
type Sink interface {
	Present(surface *gg.Pixmap, p Params) error
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// RunnerStats are cumulative runner counters.
type RunnerStats struct {
	Ticks           uint64
	Rendered        uint64
	Skipped         uint64
	Failed          uint64
	DimensionResets uint64
}

type runnerStats struct {
	ticks    atomic.Uint64
	rendered atomic.Uint64
	skipped  atomic.Uint64
	failed   atomic.Uint64
}

// Runner drives source, renderer and sink from one goroutine at a fixed
// rate. Ticks are never queued: a tick that overruns its period drops the
// ticks it missed.
type Runner struct {
	src      FrameSource
	renderer *Renderer
	controls *Controls
	sink     Sink
	opts     runnerOptions

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}

	// state is owned by the loop goroutine.
	state State
	stats runnerStats
}

// NewRunner creates a runner. A nil sink discards output.
func NewRunner(src FrameSource, r *Renderer, ctl *Controls, sink Sink, opts ...RunnerOption) *Runner {
	o := defaultRunnerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if ctl == nil {
		ctl = NewControls(DefaultParams())
	}
	if sink == nil {
		sink = discard{}
	}
	return &Runner{
		src:      src,
		renderer: r,
		controls: ctl,
		sink:     sink,
		opts:     o,
		done:     make(chan struct{}),
	}
}

type discard struct{}

func (discard) Present(*gg.Pixmap, Params) error { return nil }

// Start launches the loop. It returns ErrRunnerStarted if the runner was
// started before, even if it has since stopped.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRunnerStarted
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)

	log := r.opts.logger
	if log == nil {
		log = Logger()
	}
	log = log.With("session", uuid.NewString())

	r.wg.Add(1)
	go r.loop(ctx, log)
	return nil
}

// Stop cancels the loop and waits for it to exit. After Stop returns no
// tick runs and no sink call is made. Stop is idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Done is closed when the loop exits.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Stats returns a snapshot of the counters.
func (r *Runner) Stats() RunnerStats {
	return RunnerStats{
		Ticks:           r.stats.ticks.Load(),
		Rendered:        r.stats.rendered.Load(),
		Skipped:         r.stats.skipped.Load(),
		Failed:          r.stats.failed.Load(),
		DimensionResets: r.renderer.Stats().DimensionResets,
	}
}

func (r *Runner) loop(ctx context.Context, log *slog.Logger) {
	defer r.wg.Done()
	defer close(r.done)

	period := time.Duration(float64(time.Second) / r.opts.fps)
	t := r.opts.ticker(period)
	defer t.Stop()

	log.Info("camfx: runner started", "fps", r.opts.fps)
	defer func() {
		log.Info("camfx: runner stopped",
			"ticks", r.stats.ticks.Load(),
			"rendered", r.stats.rendered.Load(),
			"skipped", r.stats.skipped.Load(),
			"failed", r.stats.failed.Load())
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
		}
		if ctx.Err() != nil || !r.step(ctx, log) {
			return
		}
	}
}

// step runs one tick and reports whether the loop should continue.
func (r *Runner) step(ctx context.Context, log *slog.Logger) bool {
	r.stats.ticks.Add(1)
	p := r.controls.Snapshot()

	f, err := r.src.Next(ctx)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		log.Info("camfx: source ended")
		return false
	case ctx.Err() != nil:
		return false
	case errors.Is(err, ErrSourceUnavailable):
		r.stats.skipped.Add(1)
		log.Debug("camfx: no frame, tick skipped")
		return true
	default:
		r.stats.skipped.Add(1)
		log.Warn("camfx: source error, tick skipped", "err", err)
		return true
	}

	st, err := r.renderer.Tick(r.state, f, p)
	if err != nil {
		r.stats.failed.Add(1)
		log.Warn("camfx: tick failed", "effect", p.Effect, "err", err)
		return true
	}
	r.state = st
	r.stats.rendered.Add(1)

	if ctx.Err() != nil {
		return false
	}
	if err := r.sink.Present(r.renderer.Surface(), p); err != nil {
		if errors.Is(err, io.EOF) {
			log.Info("camfx: sink closed")
			return false
		}
		log.Warn("camfx: present failed", "err", err)
	}
	return true
}
