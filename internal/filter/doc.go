// Package filter provides the surface-level post-filters used by the effect
// library.
//
// All filters operate directly on a [gg.Pixmap] and are safe to run with the
// same pixmap as source and destination:
//   - Gaussian blur (separable, O(n) per radius)
//   - Glow (blurred, tinted alpha halo composited under a layer)
//   - Color matrix transformations (sepia, contrast, brightness)
//
// Performance targets (1280x720):
//   - Blur (r=2): <4ms
//   - Glow (r=7.5): <12ms
//   - Color Matrix: <2ms
package filter
