// Package camfx renders a live video stream through real-time stylization
// effects.
//
// # Overview
//
// Every tick a [Renderer] samples the current [Frame] on a regular lattice,
// derives brightness, color and motion per cell and composites primitives
// (triangles, rectangles, circles, glyphs, clipped pastes) onto a reusable
// gg surface. Effects that remember the past read it from the [State]
// threaded between ticks, never from globals.
//
// # Quick Start
//
//	r, err := camfx.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var st camfx.State
//	for frame := range frames {
//	    st, err = r.Tick(st, frame, camfx.Params{
//	        Effect:       camfx.EffectNeon,
//	        TriangleSize: 4,
//	        Spacing:      5,
//	    })
//	    if err != nil {
//	        continue
//	    }
//	    show(r.Surface())
//	}
//
// # Scheduling
//
// [Runner] owns the loop: it reads [Controls] once per tick, pulls a frame
// from a [FrameSource], renders it and hands the surface to a [Sink]. It
// never queues frames, so a slow tick drops the ticks it overran.
//
// # Effects
//
//	default       brightness-scaled white triangles
//	motionBlur    ghosted previous output, hue-cycled moving cells with echoes
//	pixelate      flat color blocks of twice the spacing
//	kaleidoscope  one wedge of the frame mirrored eight times around the center
//	waterRipple   displaced triangles over a blue wash, reflected and blurred
//	asciiArt      brightness mapped to a glyph ramp
//	neon          hue-by-column triangles on bright cells with a cyan glow
//	glitch        triangles with random horizontal row offsets
//	vintage       jittered sepia-toned triangles
//	matrix        green binary digits on bright cells
//	circles       brightness-scaled circles that grow and cycle hue when moving
//
// # Logging
//
// camfx is silent by default. Call [SetLogger] to receive structured logs.
package camfx
