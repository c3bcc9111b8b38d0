// Command camfx renders a live video source through the camfx effects.
//
// Usage:
//
//	camfx -source pattern -view term -effect neon
//	camfx -source webcam -device 0 -view sdl
//	camfx -source gst -pipeline "v4l2src device=/dev/video0" -view term
//	camfx -source images -images a.png,b.jpg -view png -frames 30 -output out.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/gg"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/camfx"
	"github.com/gogpu/camfx/internal/capture"
	"github.com/gogpu/camfx/internal/capture/cvsource"
	"github.com/gogpu/camfx/internal/capture/gstsource"
	"github.com/gogpu/camfx/internal/display/sdlview"
	"github.com/gogpu/camfx/internal/display/termview"
)

type config struct {
	source   string
	device   int
	pipeline string
	images   string
	mirror   bool
	width    int
	height   int
	fps      float64
	effect   string
	size     int
	spacing  int
	view     string
	frames   int
	output   string
	debug    bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.source, "source", "pattern", "frame source: pattern, images, webcam or gst")
	flag.IntVar(&cfg.device, "device", 0, "camera index for -source webcam")
	flag.StringVar(&cfg.pipeline, "pipeline", "videotestsrc is-live=true", "GStreamer producer for -source gst")
	flag.StringVar(&cfg.images, "images", "", "comma-separated PNG/JPEG files for -source images")
	flag.BoolVar(&cfg.mirror, "mirror", false, "flip frames horizontally")
	flag.IntVar(&cfg.width, "width", capture.DefaultWidth, "capture width")
	flag.IntVar(&cfg.height, "height", capture.DefaultHeight, "capture height")
	flag.Float64Var(&cfg.fps, "fps", camfx.DefaultFPS, "ticks per second")
	flag.StringVar(&cfg.effect, "effect", "default", "initial effect")
	flag.IntVar(&cfg.size, "size", camfx.DefaultTriangleSize, "triangle size, 1-20")
	flag.IntVar(&cfg.spacing, "spacing", camfx.DefaultSpacing, "sampling spacing, 1-20")
	flag.StringVar(&cfg.view, "view", "term", "output: term, sdl or png")
	flag.IntVar(&cfg.frames, "frames", 1, "frames to render for -view png")
	flag.StringVar(&cfg.output, "output", "camfx.png", "output file for -view png")
	flag.BoolVar(&cfg.debug, "debug", false, "log to stderr at debug level")
	flag.Parse()

	if cfg.debug {
		camfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var err error
	if cfg.view == "sdl" {
		sdl.Main(func() { err = run(cfg) })
	} else {
		err = run(cfg)
	}
	if err != nil {
		log.Fatalf("camfx: %v", err)
	}
}

func run(cfg config) error {
	if cfg.fps <= 0 {
		cfg.fps = camfx.DefaultFPS
	}

	ctl := camfx.NewControls(camfx.DefaultParams())
	if err := ctl.SetEffectName(cfg.effect); err != nil {
		return err
	}
	if err := ctl.SetTriangleSize(cfg.size); err != nil {
		return err
	}
	if err := ctl.SetSpacing(cfg.spacing); err != nil {
		return err
	}

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSrc(); err != nil {
			camfx.Logger().Warn("camfx: close source", "err", err)
		}
	}()

	r, err := camfx.NewRenderer(camfx.WithFrameBudget(time.Duration(float64(time.Second) / cfg.fps)))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch cfg.view {
	case "term":
		return runTerm(ctx, cancel, cfg, src, r, ctl)
	case "sdl":
		return runSDL(ctx, cfg, src, r, ctl)
	case "png":
		return runPNG(ctx, cfg, src, r, ctl)
	default:
		return fmt.Errorf("unknown view %q", cfg.view)
	}
}

func openSource(cfg config) (camfx.FrameSource, func() error, error) {
	var (
		src     camfx.FrameSource
		closeFn = func() error { return nil }
	)

	switch cfg.source {
	case "pattern":
		src = capture.NewPattern(cfg.width, cfg.height)
	case "images":
		if cfg.images == "" {
			return nil, nil, errors.New("-source images needs -images")
		}
		imgs, err := capture.LoadImages(strings.Split(cfg.images, ","), cfg.width, cfg.height, true)
		if err != nil {
			return nil, nil, err
		}
		src = imgs
	case "webcam":
		cam, err := cvsource.Open(cfg.device, cfg.width, cfg.height)
		if err != nil {
			return nil, nil, err
		}
		src, closeFn = cam, cam.Close
	case "gst":
		gs, err := gstsource.Open(cfg.pipeline, cfg.width, cfg.height)
		if err != nil {
			return nil, nil, err
		}
		src, closeFn = gs, gs.Close
	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.source)
	}

	if cfg.mirror {
		src = capture.NewMirror(src)
	}
	return src, closeFn, nil
}

// wait blocks until ctx is done or the runner exits, then stops it.
func wait(ctx context.Context, runner *camfx.Runner) {
	select {
	case <-ctx.Done():
	case <-runner.Done():
	}
	runner.Stop()
}

func runTerm(ctx context.Context, cancel context.CancelFunc, cfg config, src camfx.FrameSource, r *camfx.Renderer, ctl *camfx.Controls) error {
	view, err := termview.New(ctl, r.Stats, cancel)
	if err != nil {
		return err
	}
	defer view.Close()

	runner := camfx.NewRunner(src, r, ctl, view, camfx.WithFPS(cfg.fps))
	if err := runner.Start(ctx); err != nil {
		return err
	}
	wait(ctx, runner)
	return nil
}

func runSDL(ctx context.Context, cfg config, src camfx.FrameSource, r *camfx.Renderer, ctl *camfx.Controls) error {
	view, err := sdlview.New("camfx", cfg.width, cfg.height, ctl, r.Stats)
	if err != nil {
		return err
	}
	defer view.Close()

	runner := camfx.NewRunner(src, r, ctl, view, camfx.WithFPS(cfg.fps))
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer runner.Stop()

	// SDL events must be pumped from the main thread.
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for view.PollEvents() {
		select {
		case <-ctx.Done():
			return nil
		case <-runner.Done():
			return nil
		case <-t.C:
		}
	}
	return nil
}

// pngSink keeps a copy of the last surface and closes after n frames.
type pngSink struct {
	n    int
	last *gg.Pixmap
}

func (s *pngSink) Present(surface *gg.Pixmap, _ camfx.Params) error {
	if s.last == nil || s.last.Width() != surface.Width() || s.last.Height() != surface.Height() {
		s.last = gg.NewPixmap(surface.Width(), surface.Height())
	}
	copy(s.last.Data(), surface.Data())
	s.n--
	if s.n <= 0 {
		return io.EOF
	}
	return nil
}

func runPNG(ctx context.Context, cfg config, src camfx.FrameSource, r *camfx.Renderer, ctl *camfx.Controls) error {
	sink := &pngSink{n: max(cfg.frames, 1)}
	runner := camfx.NewRunner(src, r, ctl, sink, camfx.WithFPS(cfg.fps))
	if err := runner.Start(ctx); err != nil {
		return err
	}
	wait(ctx, runner)

	if sink.last == nil {
		return errors.New("no frame rendered")
	}
	if err := sink.last.SavePNG(cfg.output); err != nil {
		return err
	}
	stats := runner.Stats()
	log.Printf("camfx: saved %s (%dx%d) after %d ticks, %d skipped",
		cfg.output, sink.last.Width(), sink.last.Height(), stats.Ticks, stats.Skipped)
	return nil
}
