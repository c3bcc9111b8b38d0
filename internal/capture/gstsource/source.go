// Package gstsource reads frames from a GStreamer pipeline.
//
// The caller supplies the producing half of a launch line, for example
// "v4l2src device=/dev/video0" or "rtspsrc location=rtsp://cam/stream !
// decodebin". The source appends a converter, a fixed-size RGBA caps filter
// and an appsink that keeps only the newest buffer.
package gstsource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/gogpu/camfx"
)

const sinkName = "camfxsink"

// Stats are cumulative source counters.
type Stats struct {
	Received uint64
	Dropped  uint64
	Bytes    uint64
}

// Source is a frame source fed by an appsink callback. Next never blocks:
// when no new sample arrived since the last call it reports
// ErrSourceUnavailable.
type Source struct {
	width, height int

	pipeline *gst.Pipeline
	frames   chan *camfx.Frame

	seq      atomic.Uint64
	received atomic.Uint64
	dropped  atomic.Uint64
	bytes    atomic.Uint64

	closeOnce sync.Once
}

// Launch returns the full launch line used for producer at w x h.
func Launch(producer string, w, h int) string {
	return fmt.Sprintf("%s ! videoconvert ! videoscale ! video/x-raw,format=RGBA,width=%d,height=%d ! "+
		"appsink name=%s sync=false max-buffers=1 drop=true", producer, w, h, sinkName)
}

// Open builds and starts the pipeline.
func Open(producer string, w, h int) (*Source, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", camfx.ErrInvalidParameter, w, h)
	}

	gst.Init(nil)

	launch := Launch(producer, w, h)
	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("%w: parse pipeline: %w", camfx.ErrSourceUnavailable, err)
	}

	elem, err := pipeline.GetElementByName(sinkName)
	if err != nil {
		return nil, fmt.Errorf("gstsource: find appsink: %w", err)
	}

	s := &Source{
		width:    w,
		height:   h,
		pipeline: pipeline,
		frames:   make(chan *camfx.Frame, 1),
	}

	app.SinkFromElement(elem).SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("%w: start pipeline: %w", camfx.ErrSourceUnavailable, err)
	}

	camfx.Logger().Info("gstsource: pipeline started", "launch", launch)
	return s, nil
}

// onSample copies the newest buffer out of GStreamer.
func (s *Source) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		camfx.Logger().Warn("gstsource: failed to pull sample, skipping")
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	want := s.width * s.height * 4
	if len(data) < want {
		buffer.Unmap()
		camfx.Logger().Warn("gstsource: short buffer", "bytes", len(data), "want", want)
		return gst.FlowOK
	}
	pix := make([]byte, want)
	copy(pix, data)
	buffer.Unmap()

	s.received.Add(1)
	s.bytes.Add(uint64(want))

	f := &camfx.Frame{
		Width:     s.width,
		Height:    s.height,
		Pix:       pix,
		Seq:       s.seq.Add(1),
		Timestamp: time.Now(),
		TraceID:   uuid.NewString(),
	}

	s.offer(f)
	return gst.FlowOK
}

// offer queues f, replacing a frame the runner has not picked up yet.
func (s *Source) offer(f *camfx.Frame) {
	select {
	case s.frames <- f:
		return
	default:
	}
	select {
	case <-s.frames:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.frames <- f:
	default:
		s.dropped.Add(1)
	}
}

// Next returns the newest frame, or ErrSourceUnavailable when none arrived
// since the previous call.
func (s *Source) Next(ctx context.Context) (*camfx.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case f := <-s.frames:
		return f, nil
	default:
		return nil, camfx.ErrSourceUnavailable
	}
}

// Stats returns the source counters.
func (s *Source) Stats() Stats {
	return Stats{
		Received: s.received.Load(),
		Dropped:  s.dropped.Load(),
		Bytes:    s.bytes.Load(),
	}
}

// Close stops the pipeline.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if serr := s.pipeline.SetState(gst.StateNull); serr != nil {
			err = fmt.Errorf("gstsource: stop pipeline: %w", serr)
		}
		camfx.Logger().Info("gstsource: pipeline stopped",
			"received", s.received.Load(), "dropped", s.dropped.Load())
	})
	return err
}
