// Package cvsource reads frames from a local camera through OpenCV.
package cvsource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/gogpu/camfx"
)

// Webcam is a frame source backed by an OpenCV VideoCapture.
type Webcam struct {
	mu   sync.Mutex
	cap  *gocv.VideoCapture
	bgr  gocv.Mat
	rgba gocv.Mat
	seq  uint64
}

// Open opens camera device and asks for a w x h stream. The driver may pick
// a different size; frames report what was actually delivered.
func Open(device, w, h int) (*Webcam, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w: open device %d: %w", camfx.ErrSourceUnavailable, device, err)
	}
	if w > 0 && h > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(w))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(h))
	}

	camfx.Logger().Info("cvsource: camera opened",
		"device", device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight))

	return &Webcam{
		cap:  vc,
		bgr:  gocv.NewMat(),
		rgba: gocv.NewMat(),
	}, nil
}

// Next reads one frame. An empty read reports ErrSourceUnavailable so the
// runner skips the tick.
func (c *Webcam) Next(ctx context.Context) (*camfx.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil, fmt.Errorf("%w: camera closed", camfx.ErrSourceUnavailable)
	}
	if ok := c.cap.Read(&c.bgr); !ok || c.bgr.Empty() {
		return nil, fmt.Errorf("%w: empty read", camfx.ErrSourceUnavailable)
	}
	if err := gocv.CvtColor(c.bgr, &c.rgba, gocv.ColorBGRToRGBA); err != nil {
		return nil, fmt.Errorf("cvsource: convert to RGBA: %w", err)
	}

	c.seq++
	f, err := camfx.NewFrame(c.rgba.Cols(), c.rgba.Rows(), c.rgba.ToBytes())
	if err != nil {
		return nil, fmt.Errorf("cvsource: %w", err)
	}
	f.Seq = c.seq
	f.Timestamp = time.Now()
	f.TraceID = uuid.NewString()
	return f, nil
}

// Close releases the camera and the conversion buffers.
func (c *Webcam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil
	}
	err := c.cap.Close()
	c.cap = nil
	if cerr := c.bgr.Close(); err == nil {
		err = cerr
	}
	if cerr := c.rgba.Close(); err == nil {
		err = cerr
	}
	return err
}
