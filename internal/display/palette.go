// Package display maps distances to symmetric, gradient-colored LED frames.
package display

import (
	"fmt"

	"github.com/sweeney/park-assist/internal/ledstrip"
)

// Stop is one control point of a gradient palette.
type Stop struct {
	Pos   uint8 // 0..255
	Color ledstrip.Color
}

// Palette is an ordered set of gradient stops, strictly increasing in
// position, starting at 0 and ending at 255. Colors between stops are
// linearly interpolated.
type Palette []Stop

// DefaultPalette is the green -> yellow -> red parking gradient.
func DefaultPalette() Palette {
	return Palette{
		{Pos: 0, Color: ledstrip.Color{G: 255}},
		{Pos: 128, Color: ledstrip.Color{R: 255, G: 255}},
		{Pos: 255, Color: ledstrip.Color{R: 255}},
	}
}

// Validate checks the palette invariants.
func (p Palette) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("palette needs at least 2 stops, got %d", len(p))
	}
	if p[0].Pos != 0 {
		return fmt.Errorf("palette must start at position 0, got %d", p[0].Pos)
	}
	if p[len(p)-1].Pos != 255 {
		return fmt.Errorf("palette must end at position 255, got %d", p[len(p)-1].Pos)
	}
	for i := 1; i < len(p); i++ {
		if p[i].Pos <= p[i-1].Pos {
			return fmt.Errorf("palette positions must be strictly increasing, got %d after %d", p[i].Pos, p[i-1].Pos)
		}
	}
	return nil
}

// Interpolate returns the color at pos, blended linearly between the two
// bracketing stops.
func (p Palette) Interpolate(pos uint8) ledstrip.Color {
	for i := 1; i < len(p); i++ {
		if pos > p[i].Pos {
			continue
		}
		lo, hi := p[i-1], p[i]
		span := int(hi.Pos) - int(lo.Pos)
		off := int(pos) - int(lo.Pos)
		return ledstrip.Color{
			R: lerp(lo.Color.R, hi.Color.R, off, span),
			G: lerp(lo.Color.G, hi.Color.G, off, span),
			B: lerp(lo.Color.B, hi.Color.B, off, span),
		}
	}
	return p[len(p)-1].Color
}

func lerp(a, b uint8, off, span int) uint8 {
	if span == 0 {
		return a
	}
	return uint8(int(a) + (int(b)-int(a))*off/span)
}
