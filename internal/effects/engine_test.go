package effects

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/camfx/internal/compose"
	"github.com/gogpu/camfx/internal/grid"
	"github.com/gogpu/camfx/internal/motion"
)

var tick = time.UnixMilli(1_700_000_000_000)

func input(frame grid.Buffer, size, spacing int) Input {
	return Input{
		Frame:        frame,
		TriangleSize: size,
		Spacing:      spacing,
		Now:          tick,
		Rand:         rand.New(rand.NewPCG(1, 2)),
	}
}

func render(t *testing.T, k Kind, in Input) *recorder {
	t.Helper()
	r := &recorder{}
	NewEngine().Render(k, in, r)
	return r
}

// polygonWidth returns the base width of a recorded triangle.
func polygonWidth(o op) float64 {
	return o.pts[2].X - o.pts[1].X
}

func TestRenderClearsFirst(t *testing.T) {
	frame := uniformFrame(20, 20, 200)
	for _, k := range All() {
		t.Run(k.String(), func(t *testing.T) {
			r := render(t, k, input(frame, 4, 5))
			if len(r.ops) == 0 || r.ops[0].name != "clear" || r.ops[0].col != gg.Black {
				t.Fatalf("ops = %+v, want clear black first", r.ops)
			}
			if r.count("clear") != 1 {
				t.Errorf("clear issued %d times", r.count("clear"))
			}
		})
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	for _, k := range All() {
		t.Run(k.String(), func(t *testing.T) {
			r := render(t, k, input(grid.Buffer{Width: 0, Height: 10}, 4, 5))
			if len(r.ops) != 1 {
				t.Errorf("ops = %d, want only the clear", len(r.ops))
			}
		})
	}
}

func TestRenderUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Render did not panic on an unknown kind")
		}
	}()
	render(t, Kind(99), input(uniformFrame(4, 4, 0), 4, 5))
}

func TestDefaultWhite(t *testing.T) {
	r := render(t, Default, input(uniformFrame(10, 10, 255), 4, 5))

	polys := r.only("polygon")
	if len(polys) != 4 {
		t.Fatalf("triangles = %d, want 4", len(polys))
	}
	want := [][2]float64{{0, 0}, {5, 0}, {0, 5}, {5, 5}}
	for i, p := range polys {
		if math.Abs(polygonWidth(p)-4) > 1e-9 {
			t.Errorf("triangle %d width = %v, want 4", i, polygonWidth(p))
		}
		if p.pts[0].X != want[i][0] {
			t.Errorf("triangle %d at x=%v, want %v", i, p.pts[0].X, want[i][0])
		}
		if p.col != gg.RGBA2(1, 1, 1, 1) {
			t.Errorf("triangle %d color = %v, want white", i, p.col)
		}
	}
}

func TestDefaultBlackIsDegenerate(t *testing.T) {
	r := render(t, Default, input(uniformFrame(10, 10, 0), 4, 5))

	if r.count("polygon") != 0 {
		t.Errorf("black frame drew %d triangles", r.count("polygon"))
	}
	rects := r.only("rect")
	if len(rects) != 4 {
		t.Fatalf("rects = %d, want 4", len(rects))
	}
	for _, o := range rects {
		if o.w != 1 || o.h != 1 || o.col != gg.RGBA2(0, 0, 0, 1) {
			t.Errorf("degenerate rect = %+v, want 1x1 black", o)
		}
	}
}

func TestMotionBlurStill(t *testing.T) {
	in := input(uniformFrame(10, 10, 255), 4, 5)
	r := &recorder{}
	out := NewEngine().Render(MotionBlur, in, r)

	if r.count("blend") != 0 {
		t.Error("blend without a trail")
	}
	if r.count("polygon") != 4 {
		t.Errorf("triangles = %d, want 4 (no echoes)", r.count("polygon"))
	}
	if len(out.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(out.Positions))
	}
	if got := out.Positions[motion.Key{X: 5, Y: 0}]; got != (motion.Point{X: 5, Y: 0}) {
		t.Errorf("position = %v", got)
	}
}

func TestMotionBlurMoving(t *testing.T) {
	before := uniformFrame(10, 10, 0)
	after := uniformFrame(10, 10, 255)
	_, flags, err := motion.Update(after, &before, 5, motion.DefaultThreshold, motion.State{})
	if err != nil {
		t.Fatal(err)
	}

	in := input(after, 4, 5)
	in.Flags = flags
	in.Trail = gg.NewPixmap(10, 10)

	r := render(t, MotionBlur, in)

	blends := r.only("blend")
	if len(blends) != 1 || blends[0].r != 0.8 {
		t.Fatalf("blend ops = %+v, want one at 0.8", blends)
	}
	if r.ops[1].name != "blend" {
		t.Error("trail must be blended before drawing")
	}

	polys := r.only("polygon")
	if len(polys) != 16 {
		t.Fatalf("triangles = %d, want 4 cells x (1 + 3 echoes)", len(polys))
	}

	main := polys[0]
	if math.Abs(polygonWidth(main)-4*1.3) > 1e-9 {
		t.Errorf("moving width = %v, want 5.2", polygonWidth(main))
	}
	wantAlpha := []float64{0.8, 0.6, 0.4}
	for i, echo := range polys[1:4] {
		if math.Abs(polygonWidth(echo)-4*1.3*0.8) > 1e-9 {
			t.Errorf("echo %d width = %v", i, polygonWidth(echo))
		}
		if math.Abs(echo.col.A-wantAlpha[i]) > 1e-9 {
			t.Errorf("echo %d alpha = %v, want %v", i, echo.col.A, wantAlpha[i])
		}
	}
}

func TestMotionBlurEchoFollowsDisplacement(t *testing.T) {
	before := uniformFrame(10, 10, 0)
	after := uniformFrame(10, 10, 255)
	_, flags, _ := motion.Update(after, &before, 5, motion.DefaultThreshold, motion.State{})

	in := input(after, 4, 5)
	in.Flags = flags
	in.Positions = motion.Positions{{X: 0, Y: 0}: {X: -2, Y: -2}}

	polys := render(t, MotionBlur, in).only("polygon")

	// Cell (0,0) moved by (2,2): echo i sits at (-i, -2*i*i) from it.
	for i := 1; i <= 3; i++ {
		apex := polys[i].pts[0]
		fi := float64(i)
		h := 4 * 1.3 * 0.8 * math.Sqrt(3) / 2
		if math.Abs(apex.X-(-fi)) > 1e-9 || math.Abs(apex.Y-(-2*fi*fi*0.5-h/2)) > 1e-9 {
			t.Errorf("echo %d apex = %v", i, apex)
		}
	}
}

func TestPixelateBlocks(t *testing.T) {
	r := render(t, Pixelate, input(uniformFrame(12, 8, 90), 4, 2))

	rects := r.only("rect")
	if len(rects) != 3*2 {
		t.Fatalf("blocks = %d, want 6", len(rects))
	}
	for _, o := range rects {
		if o.w != 4 || o.h != 4 {
			t.Errorf("block size = %vx%v, want 4x4", o.w, o.h)
		}
		if int(o.x)%4 != 0 || int(o.y)%4 != 0 {
			t.Errorf("block at (%v,%v) not aligned", o.x, o.y)
		}
	}
}

func TestPixelateSurface(t *testing.T) {
	const w, h = 16, 12
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = uint8(x*15), uint8(y*20), uint8(x+y), 255
		}
	}
	frame := grid.Buffer{Width: w, Height: h, Pix: pix}

	c, err := compose.New()
	if err != nil {
		t.Fatal(err)
	}
	c.Begin(w, h)
	NewEngine().Render(Pixelate, input(frame, 4, 2), c)

	out := c.Surface().Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			s := ((y/4*4)*w + x/4*4) * 4
			for ch := 0; ch < 3; ch++ {
				if d := int(out[o+ch]) - int(pix[s+ch]); d < -2 || d > 2 {
					t.Fatalf("pixel (%d,%d) ch %d = %d, want block color %d", x, y, ch, out[o+ch], pix[s+ch])
				}
			}
		}
	}
}

func TestIdempotentEffects(t *testing.T) {
	frame := uniformFrame(24, 24, 180)
	for _, k := range []Kind{Default, Pixelate, ASCIIArt} {
		t.Run(k.String(), func(t *testing.T) {
			c, err := compose.New()
			if err != nil {
				t.Fatal(err)
			}
			e := NewEngine()

			c.Begin(24, 24)
			e.Render(k, input(frame, 6, 6), c)
			first := c.Snapshot(nil)

			c.Begin(24, 24)
			e.Render(k, input(frame, 6, 6), c)

			if string(first.Data()) != string(c.Surface().Data()) {
				t.Error("second render differs")
			}
		})
	}
}

func TestKaleidoscope(t *testing.T) {
	r := render(t, Kaleidoscope, input(uniformFrame(40, 30, 100), 4, 5))

	if r.count("load") != 1 {
		t.Errorf("scratch loads = %d, want 1", r.count("load"))
	}
	pastes := r.only("paste")
	if len(pastes) != 8 {
		t.Fatalf("pastes = %d, want 8", len(pastes))
	}
	for i, p := range pastes {
		if len(p.pts) != 3 || p.pts[0] != (gg.Point{X: 20, Y: 15}) {
			t.Errorf("wedge %d = %v, want a triangle from the center", i, p.pts)
		}
	}
}

func TestKaleidoscopeSymmetry(t *testing.T) {
	const size = 101
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = uint8(x*2), uint8(y*2), 0, 255
		}
	}
	c, err := compose.New()
	if err != nil {
		t.Fatal(err)
	}
	c.Begin(size, size)
	NewEngine().Render(Kaleidoscope, input(grid.Buffer{Width: size, Height: size, Pix: pix}, 4, 5), c)

	at := func(angle, r float64) [3]int {
		x := int(50.5 + r*math.Cos(angle))
		y := int(50.5 + r*math.Sin(angle))
		i := (y*size + x) * 4
		d := c.Surface().Data()
		return [3]int{int(d[i]), int(d[i+1]), int(d[i+2])}
	}

	// The same offset inside two different wedges shows the same source.
	step := 2 * math.Pi / 8
	a := at(0.1, 30)
	b := at(0.1+3*step, 30)
	for ch := range a {
		if d := a[ch] - b[ch]; d < -8 || d > 8 {
			t.Errorf("wedges differ: %v vs %v", a, b)
			break
		}
	}

	// Corners lie outside every wedge and stay black.
	if got := at(math.Pi/4, 70); got != [3]int{0, 0, 0} {
		t.Errorf("corner = %v, want black", got)
	}
}

func TestWaterRipple(t *testing.T) {
	// Spacing is fixed at 5 whatever the parameter says.
	r := render(t, WaterRipple, input(uniformFrame(20, 10, 200), 4, 17))

	if r.ops[1].name != "load" {
		t.Errorf("op 1 = %s, want scratch load", r.ops[1].name)
	}
	wash := r.ops[2]
	if wash.name != "rect" || wash.w != 20 || wash.h != 10 || wash.col != rippleWash {
		t.Errorf("op 2 = %+v, want the blue wash", wash)
	}
	last := r.ops[len(r.ops)-1]
	if last.name != "blur" || last.r != 2 {
		t.Errorf("last op = %+v, want blur 2", last)
	}

	cells := r.count("polygon") + r.count("rect") - 1
	if cells != 4*2 {
		t.Errorf("cells = %d, want 8", cells)
	}
	for _, p := range r.only("polygon") {
		if p.col.A < 0.1-1e-9 || p.col.A > 1 {
			t.Errorf("alpha %v outside [0.1, 1]", p.col.A)
		}
		if p.col.B < p.col.R {
			t.Errorf("color %v not blue-shifted", p.col)
		}
	}
}

func TestWaterRippleAlphaStaysInRange(t *testing.T) {
	// The two waves add up past 1 for part of every period.
	for ms := int64(0); ms < 80*250; ms += 250 {
		in := input(uniformFrame(40, 40, 128), 4, 5)
		in.Now = time.UnixMilli(ms)
		r := render(t, WaterRipple, in)
		for _, p := range r.only("polygon") {
			if p.col.A < 0 || p.col.A > 1 {
				t.Fatalf("t=%dms: alpha %v outside [0, 1]", ms, p.col.A)
			}
		}
	}
}

func TestWaterRippleTinyFrame(t *testing.T) {
	// Displacements reach far outside a 3x3 frame; reads must clamp.
	for _, ms := range []int64{0, 1234, 99999} {
		in := input(uniformFrame(3, 3, 50), 4, 5)
		in.Now = time.UnixMilli(ms)
		render(t, WaterRipple, in)
	}
}

func TestASCIIArt(t *testing.T) {
	tests := []struct {
		v    uint8
		want string
	}{
		{0, "@"},
		{128, "*"},
		{255, "."},
	}
	for _, tt := range tests {
		r := render(t, ASCIIArt, input(uniformFrame(12, 12, tt.v), 4, 6))
		glyphs := r.only("glyph")
		if len(glyphs) != 4 {
			t.Fatalf("glyphs = %d, want 4", len(glyphs))
		}
		for _, g := range glyphs {
			if g.text != tt.want {
				t.Errorf("brightness %d drew %q, want %q", tt.v, g.text, tt.want)
			}
			if g.r != 6 || g.col != gg.White {
				t.Errorf("glyph size %v color %v", g.r, g.col)
			}
		}
		if glyphs[0].y != 6 {
			t.Errorf("baseline = %v, want bottom of the cell", glyphs[0].y)
		}
	}
}

func TestNeon(t *testing.T) {
	// Left half dark, right half bright.
	frame := uniformFrame(20, 10, 0)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			i := (y*20 + x) * 4
			frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2] = 255, 255, 255
		}
	}
	r := render(t, Neon, input(frame, 4, 5))

	if r.ops[1].name != "beginGlow" || r.ops[1].r != 15 || r.ops[1].col != neonGlowColor {
		t.Errorf("op 1 = %+v, want beginGlow 15", r.ops[1])
	}
	if r.ops[len(r.ops)-1].name != "endGlow" || r.depth != 0 {
		t.Error("glow not closed")
	}

	polys := r.only("polygon")
	if len(polys) != 4 {
		t.Fatalf("triangles = %d, want only the 4 bright cells", len(polys))
	}
	for _, p := range polys {
		if p.pts[0].X < 10 {
			t.Errorf("dark cell at x=%v drawn", p.pts[0].X)
		}
		if math.Abs(p.col.A-0.8) > 1e-9 {
			t.Errorf("alpha = %v, want 0.8", p.col.A)
		}
	}
	// x=10 of 20 is hue 180: cyan at 70% lightness.
	if c := polys[0].col; math.Abs(c.R-0.4) > 1e-6 || math.Abs(c.G-1) > 1e-6 || math.Abs(c.B-1) > 1e-6 {
		t.Errorf("hue color = %v, want (0.4,1,1)", c)
	}
}

func TestGlitchDistribution(t *testing.T) {
	in := input(uniformFrame(200, 200, 128), 4, 2)
	r := render(t, Glitch, in)

	cells := 100 * 100
	rects := r.count("rect")
	tris := r.count("polygon")
	if rects%3 != 0 {
		t.Fatalf("glitch rects = %d, not a multiple of 3", rects)
	}
	if got := rects/3 + tris; got != cells {
		t.Fatalf("cells drawn = %d, want %d", got, cells)
	}
	frac := float64(rects/3) / float64(cells)
	if frac < 0.03 || frac > 0.07 {
		t.Errorf("glitch fraction = %.3f, want ~0.05", frac)
	}

	// A glitched cell is red, green then blue, all spacing-sized.
	for i, o := range r.ops {
		if o.name != "rect" {
			continue
		}
		red, green, blue := r.ops[i], r.ops[i+1], r.ops[i+2]
		if red.col.G != 0 || green.col.R != 0 || blue.col.R != 0 || blue.col.G != 0 {
			t.Errorf("channel split = %v %v %v", red.col, green.col, blue.col)
		}
		if red.w != 2 || green.y != red.y || blue.y != red.y {
			t.Errorf("rect geometry = %+v %+v", red, green)
		}
		if math.Abs((red.x-blue.x)+(green.x-blue.x)) > 1e-9 {
			t.Errorf("red and green offsets not mirrored: %v %v %v", red.x, green.x, blue.x)
		}
		break
	}
}

func TestVintage(t *testing.T) {
	r := render(t, Vintage, input(uniformFrame(100, 100, 255), 10, 5))

	last := r.ops[len(r.ops)-1]
	if last.name != "matrix" || last.filter == nil {
		t.Fatalf("last op = %+v, want the tone matrix", last)
	}

	polys := r.only("polygon")
	if len(polys) != 400 {
		t.Fatalf("triangles = %d, want 400", len(polys))
	}
	distinct := map[float64]bool{}
	for _, p := range polys {
		w := polygonWidth(p)
		if w < 8-1e-9 || w > 10+1e-9 {
			t.Errorf("jittered size %v outside [8, 10]", w)
		}
		if math.Abs(p.col.A-0.7) > 1e-9 {
			t.Errorf("alpha = %v, want 0.7", p.col.A)
		}
		distinct[w] = true
	}
	if len(distinct) < 100 {
		t.Errorf("only %d distinct sizes, jitter looks correlated", len(distinct))
	}
}

func TestMatrix(t *testing.T) {
	frame := uniformFrame(100, 100, 40)
	for y := 0; y < 100; y++ {
		for x := 50; x < 100; x++ {
			i := (y*100 + x) * 4
			frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2] = 204, 204, 204
		}
	}
	r := render(t, Matrix, input(frame, 4, 5))

	glyphs := r.only("glyph")
	if len(glyphs) != 200 {
		t.Fatalf("glyphs = %d, want 200 (bright half only)", len(glyphs))
	}
	var digits strings.Builder
	for _, g := range glyphs {
		if g.x < 50 {
			t.Errorf("dim cell at x=%v drawn", g.x)
		}
		if g.col.R != 0 || g.col.G != 1 || math.Abs(g.col.A-0.8) > 1e-9 {
			t.Errorf("glyph color = %v, want green at 0.8", g.col)
		}
		digits.WriteString(g.text)
	}
	s := digits.String()
	if strings.Trim(s, "01") != "" || !strings.Contains(s, "0") || !strings.Contains(s, "1") {
		t.Errorf("digits = %q, want a mix of 0 and 1", s)
	}
}

func TestCircles(t *testing.T) {
	r := render(t, Circles, input(uniformFrame(24, 24, 255), 4, 12))

	circles := r.only("circle")
	if len(circles) != 4 {
		t.Fatalf("circles = %d, want 4", len(circles))
	}
	for _, c := range circles {
		if math.Abs(c.r-5) > 1e-9 || c.col != gg.White {
			t.Errorf("still circle = %+v, want radius 5 white", c)
		}
	}

	before := uniformFrame(24, 24, 0)
	after := uniformFrame(24, 24, 255)
	_, flags, _ := motion.Update(after, &before, 12, Circles.Threshold(), motion.State{})
	in := input(after, 4, 12)
	in.Flags = flags

	for _, c := range render(t, Circles, in).only("circle") {
		if math.Abs(c.r-7.5) > 1e-9 || c.col == gg.White {
			t.Errorf("moving circle = %+v, want radius 7.5 hued", c)
		}
	}
}

func BenchmarkRenderDefault1280x720(b *testing.B) {
	c, err := compose.New()
	if err != nil {
		b.Fatal(err)
	}
	frame := uniformFrame(1280, 720, 160)
	e := NewEngine()
	in := Input{Frame: frame, TriangleSize: 4, Spacing: 5, Now: tick, Rand: rand.New(rand.NewPCG(1, 2))}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Begin(1280, 720)
		e.Render(Default, in, c)
	}
}
