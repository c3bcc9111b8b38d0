// Package sdlview shows the rendered surface in an SDL2 window.
//
// SDL must be driven from the main OS thread. Run the program inside
// sdl.Main; every SDL call here goes through sdl.Do.
package sdlview

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gg"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/camfx"
	"github.com/gogpu/camfx/internal/display"
)

// View is a camfx.Sink backed by an SDL window with a streaming texture.
type View struct {
	ctl   *camfx.Controls
	stats func() camfx.RenderStats

	mu       sync.Mutex
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int32
	texH     int32
	closed   bool
}

// New opens a w x h window.
func New(title string, w, h int, ctl *camfx.Controls, stats func() camfx.RenderStats) (*View, error) {
	if stats == nil {
		stats = func() camfx.RenderStats { return camfx.RenderStats{} }
	}
	v := &View{ctl: ctl, stats: stats}

	var err error
	sdl.Do(func() {
		if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
			err = fmt.Errorf("sdlview: init: %w", err)
			return
		}
		v.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
			int32(w), int32(h), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
		if err != nil {
			err = fmt.Errorf("sdlview: create window: %w", err)
			return
		}
		v.renderer, err = sdl.CreateRenderer(v.window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
		if err != nil {
			err = fmt.Errorf("sdlview: create renderer: %w", err)
		}
	})
	if err != nil {
		v.destroy()
		return nil, err
	}

	camfx.Logger().Info("sdlview: window opened", "width", w, "height", h)
	return v, nil
}

// Present uploads surface into the streaming texture and shows it. The
// texture is recreated when the surface size changes.
func (v *View) Present(surface *gg.Pixmap, p camfx.Params) error {
	if surface == nil || surface.Width() <= 0 || surface.Height() <= 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}

	status := display.Status(p, v.stats())
	w, h := int32(surface.Width()), int32(surface.Height())
	data := surface.Data()

	var err error
	sdl.Do(func() {
		if v.texture == nil || w != v.texW || h != v.texH {
			if v.texture != nil {
				_ = v.texture.Destroy()
			}
			// ABGR8888 is R,G,B,A in memory order on little-endian hosts.
			v.texture, err = v.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, w, h)
			if err != nil {
				v.texture = nil
				return
			}
			v.texW, v.texH = w, h
		}
		if err = v.texture.Update(nil, unsafe.Pointer(&data[0]), int(w)*4); err != nil {
			return
		}
		if err = v.renderer.Clear(); err != nil {
			return
		}
		if err = v.renderer.Copy(v.texture, nil, nil); err != nil {
			return
		}
		v.renderer.Present()
		v.window.SetTitle("camfx  " + status)
	})
	if err != nil {
		return fmt.Errorf("sdlview: present: %w", err)
	}
	return nil
}

// PollEvents drains pending SDL events, applying key bindings. It returns
// false once the window was closed or the user asked to quit.
func (v *View) PollEvents() bool {
	running := true
	sdl.Do(func() {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if ev.Type != sdl.KEYDOWN {
					continue
				}
				if handleKey(v.ctl, ev.Keysym.Sym) == display.Quit {
					running = false
				}
			}
		}
	})
	return running
}

// handleKey maps an SDL keycode onto the shared bindings.
func handleKey(ctl *camfx.Controls, sym sdl.Keycode) display.Result {
	switch sym {
	case sdl.K_ESCAPE:
		return display.Quit
	case sdl.K_LEFT:
		return display.HandleRune(ctl, 'h')
	case sdl.K_RIGHT:
		return display.HandleRune(ctl, 'l')
	case sdl.K_UP:
		return display.HandleRune(ctl, '+')
	case sdl.K_DOWN:
		return display.HandleRune(ctl, '-')
	case sdl.K_KP_PLUS:
		return display.HandleRune(ctl, '+')
	case sdl.K_KP_MINUS:
		return display.HandleRune(ctl, '-')
	}
	// Printable keys use their ASCII code as keycode.
	if sym >= 0x20 && sym < 0x7f {
		return display.HandleRune(ctl, rune(sym))
	}
	return display.Ignored
}

// Close destroys the window and shuts SDL down.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	v.destroy()
	return nil
}

func (v *View) destroy() {
	sdl.Do(func() {
		if v.texture != nil {
			_ = v.texture.Destroy()
		}
		if v.renderer != nil {
			_ = v.renderer.Destroy()
		}
		if v.window != nil {
			_ = v.window.Destroy()
		}
		sdl.Quit()
	})
}
