// Package termview shows the rendered surface in a terminal and turns key
// presses into control changes.
//
// Each terminal cell holds two vertically stacked pixels drawn as an upper
// half block: the foreground is the top pixel, the background the bottom
// one. The last row is a status line.
package termview

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/camfx"
	"github.com/gogpu/camfx/internal/display"
)

const upperHalf = '▀'

// View is a camfx.Sink backed by a tcell screen.
type View struct {
	screen tcell.Screen
	ctl    *camfx.Controls
	stats  func() camfx.RenderStats
	quit   func()

	closeOnce sync.Once
	done      chan struct{}
}

// New opens the terminal. quit is called once when the user asks to leave;
// stats may be nil.
func New(ctl *camfx.Controls, stats func() camfx.RenderStats, quit func()) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, ctl, stats, quit)
}

// NewWithScreen is New over an existing screen, such as a simulation
// screen in tests.
func NewWithScreen(screen tcell.Screen, ctl *camfx.Controls, stats func() camfx.RenderStats, quit func()) (*View, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	if stats == nil {
		stats = func() camfx.RenderStats { return camfx.RenderStats{} }
	}
	if quit == nil {
		quit = func() {}
	}

	v := &View{
		screen: screen,
		ctl:    ctl,
		stats:  stats,
		quit:   quit,
		done:   make(chan struct{}),
	}
	go v.events()
	return v, nil
}

// events runs until the screen is finalized.
func (v *View) events() {
	defer close(v.done)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if v.handle(ev) == display.Quit {
			v.quit()
		}
	}
}

func (v *View) handle(ev tcell.Event) display.Result {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return display.Quit
		case tcell.KeyLeft:
			return display.HandleRune(v.ctl, 'h')
		case tcell.KeyRight:
			return display.HandleRune(v.ctl, 'l')
		case tcell.KeyUp:
			return display.HandleRune(v.ctl, '+')
		case tcell.KeyDown:
			return display.HandleRune(v.ctl, '-')
		case tcell.KeyRune:
			return display.HandleRune(v.ctl, ev.Rune())
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return display.Ignored
}

// Present draws surface scaled to the terminal, then the status line.
func (v *View) Present(surface *gg.Pixmap, p camfx.Params) error {
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}

	if surface != nil && rows > 1 {
		drawHalfBlocks(v.screen, surface, cols, rows-1)
	}
	drawStatus(v.screen, display.Status(p, v.stats()), cols, rows-1)

	v.screen.Show()
	return nil
}

// drawHalfBlocks samples surface nearest-neighbour onto a cols x rows cell
// area, two pixels per cell.
func drawHalfBlocks(screen tcell.Screen, surface *gg.Pixmap, cols, rows int) {
	pw, ph := surface.Width(), surface.Height()
	if pw <= 0 || ph <= 0 {
		return
	}
	data := surface.Data()

	at := func(px, py int) tcell.Color {
		sx := min(px*pw/cols, pw-1)
		sy := min(py*ph/(rows*2), ph-1)
		i := (sy*pw + sx) * 4
		return tcell.NewRGBColor(int32(data[i]), int32(data[i+1]), int32(data[i+2]))
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.
				Foreground(at(x, y*2)).
				Background(at(x, y*2+1))
			screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
}

// drawStatus writes s on row y, truncated to cols display columns.
func drawStatus(screen tcell.Screen, s string, cols, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	s = runewidth.Truncate(s, cols, "…")

	x := 0
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < cols; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// Close restores the terminal and waits for the event loop to exit.
func (v *View) Close() error {
	v.closeOnce.Do(func() {
		v.screen.Fini()
		<-v.done
	})
	return nil
}
