package display

import (
	"time"

	"github.com/sweeney/park-assist/internal/ledstrip"
	"github.com/sweeney/park-assist/internal/logic"
)

// Driver owns the renderer, the strip, and the frame-pacing timer. Show
// pushes at most one frame per pace interval to avoid redundant bus
// writes; Blank pushes immediately.
type Driver struct {
	renderer *Renderer
	strip    ledstrip.Strip
	pace     logic.Timer
	interval time.Duration
}

// NewDriver paces frame pushes at fps frames per second. fps <= 0
// disables pacing and pushes a frame for every Show (the callback-driven
// acquisition mode).
func NewDriver(renderer *Renderer, strip ledstrip.Strip, fps int) *Driver {
	d := &Driver{renderer: renderer, strip: strip}
	if fps > 0 {
		d.interval = time.Second / time.Duration(fps)
	}
	return d
}

// Show renders cm and pushes the frame unless one was pushed within the
// pace interval.
func (d *Driver) Show(cm float64, now time.Time) error {
	frame := d.renderer.RenderDistance(cm)
	if d.interval > 0 && !d.pace.ElapsedRestart(now, d.interval) {
		return nil
	}
	return d.strip.WriteFrame(frame)
}

// Blank pushes an all-off frame immediately and restarts the pace timer.
func (d *Driver) Blank(now time.Time) error {
	d.pace.Restart(now)
	return d.strip.WriteFrame(d.renderer.Blank())
}
