// Package display holds what the terminal and window views share: key
// bindings and the status line.
package display

import (
	"fmt"
	"time"

	"github.com/gogpu/camfx"
)

// Result tells a view what a key did.
type Result uint8

const (
	// Ignored means the key is not bound.
	Ignored Result = iota
	// Changed means the controls were updated.
	Changed
	// Quit means the user asked to leave.
	Quit
)

// Help lists the key bindings.
const Help = "h/l effect  1-9,0,c select  +/- size  [/] spacing  q quit"

// HandleRune applies the binding for r to ctl.
//
//	h p ←     previous effect
//	l n →     next effect
//	1 … 9 0   select effect 1 to 10 in cycling order
//	c         circles
//	+ =       triangle size up
//	- _       triangle size down
//	] [       spacing up, down
//	q         quit
func HandleRune(ctl *camfx.Controls, r rune) Result {
	switch r {
	case 'h', 'p':
		ctl.PrevEffect()
	case 'l', 'n':
		ctl.NextEffect()
	case '+', '=':
		ctl.AdjustTriangleSize(1)
	case '-', '_':
		ctl.AdjustTriangleSize(-1)
	case ']':
		ctl.AdjustSpacing(1)
	case '[':
		ctl.AdjustSpacing(-1)
	case 'c':
		_ = ctl.SetEffect(camfx.EffectCircles)
	case 'q', 'Q':
		return Quit
	default:
		if r < '0' || r > '9' {
			return Ignored
		}
		i := int(r - '1')
		if r == '0' {
			i = 9
		}
		all := camfx.Effects()
		if i >= len(all) {
			return Ignored
		}
		_ = ctl.SetEffect(all[i])
	}
	return Changed
}

// Status formats the one-line summary shown under the video.
func Status(p camfx.Params, stats camfx.RenderStats) string {
	return fmt.Sprintf("%s [%s]  size %d  spacing %d  %s  %d cmds",
		p.Effect.DisplayName(), p.Effect.Category(),
		p.TriangleSize, p.Spacing,
		stats.LastDuration.Round(100*time.Microsecond), stats.LastCommands.Total())
}
