package gstsource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/camfx"
)

func TestLaunch(t *testing.T) {
	got := Launch("videotestsrc", 320, 240)

	for _, part := range []string{
		"videotestsrc ! videoconvert",
		"video/x-raw,format=RGBA,width=320,height=240",
		"appsink name=" + sinkName,
		"max-buffers=1 drop=true",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Launch() = %q, missing %q", got, part)
		}
	}
}

func TestOpenRejectsSize(t *testing.T) {
	if _, err := Open("videotestsrc", 0, 240); !errors.Is(err, camfx.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestNextWithoutSample(t *testing.T) {
	s := &Source{frames: make(chan *camfx.Frame, 1)}
	if _, err := s.Next(context.Background()); !errors.Is(err, camfx.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestOfferKeepsNewest(t *testing.T) {
	s := &Source{frames: make(chan *camfx.Frame, 1)}
	for seq := uint64(1); seq <= 3; seq++ {
		s.offer(&camfx.Frame{Seq: seq})
	}

	f, err := s.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if f.Seq != 3 {
		t.Errorf("Seq = %d, want the newest (3)", f.Seq)
	}
	if got := s.Stats().Dropped; got != 2 {
		t.Errorf("Dropped = %d, want 2", got)
	}
	if _, err := s.Next(context.Background()); !errors.Is(err, camfx.ErrSourceUnavailable) {
		t.Errorf("second Next err = %v, want ErrSourceUnavailable", err)
	}
}
