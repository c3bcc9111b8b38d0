package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/camfx"
)

// Images plays a fixed list of still images as video.
type Images struct {
	mu     sync.Mutex
	frames []*camfx.Frame
	next   int
	seq    uint64
	loop   bool
	now    func() time.Time
}

// NewImages scales every image to w x h and returns a source that plays
// them in order. A zero w or h keeps each image's own size. With loop set
// the sequence repeats forever, otherwise Next returns io.EOF at the end.
func NewImages(imgs []image.Image, w, h int, loop bool) *Images {
	frames := make([]*camfx.Frame, 0, len(imgs))
	for _, img := range imgs {
		frames = append(frames, camfx.FrameFromImage(scale(img, w, h)))
	}
	return &Images{frames: frames, loop: loop, now: time.Now}
}

// LoadImages decodes PNG or JPEG files and calls NewImages.
func LoadImages(paths []string, w, h int, loop bool) (*Images, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	camfx.Logger().Info("capture: images loaded", "count", len(imgs))
	return NewImages(imgs, w, h, loop), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("capture: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("capture: decode %s: %w", path, err)
	}
	return img, nil
}

// scale resamples img to w x h with Catmull-Rom.
func scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Len returns the number of images.
func (s *Images) Len() int {
	return len(s.frames)
}

// Next returns the next image. Frames share pixel storage across loops;
// the pipeline never writes to them.
func (s *Images) Next(ctx context.Context) (*camfx.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return nil, io.EOF
		}
		s.next = 0
	}

	f := *s.frames[s.next]
	s.next++
	s.seq++
	f.Seq = s.seq
	f.Timestamp = s.now()
	f.TraceID = uuid.NewString()
	return &f, nil
}
