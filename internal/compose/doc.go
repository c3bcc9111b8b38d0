// Package compose owns the output surface and is the only path by which
// effects draw.
//
// A [Compositor] wraps a [gg.Context] bound to a reusable [gg.Pixmap]. Every
// primitive it exposes is counted, which lets tests and the renderer's stats
// see exactly which render commands a tick issued. Scratch and glow layers
// are pooled: they are reallocated only when the frame size changes.
//
// Drawing errors are sticky in the manner of bufio.Writer: the first one is
// kept, later primitives become no-ops, and [Compositor.Err] reports it.
package compose
