package display

import (
	"fmt"

	"github.com/sweeney/park-assist/internal/ledstrip"
)

// LevelPolicy selects how a clamped distance becomes a render level.
type LevelPolicy string

const (
	// PolicyLinear maps the clamped distance straight to a lit-pixel
	// count: farther means fewer pixels.
	PolicyLinear LevelPolicy = "linear"

	// PolicySweetSpot saturates at full level at or inside the sweet-spot
	// distance and falls linearly to zero at the display maximum.
	PolicySweetSpot LevelPolicy = "sweet-spot"
)

// Config holds the renderer parameters. Distances are centimeters.
type Config struct {
	// NumLEDs is the strip length. Must be even for exact mirroring.
	NumLEDs int

	// Display clamp range.
	MinDisplay float64
	MaxDisplay float64

	// SweetSpot is the full-level distance for PolicySweetSpot.
	SweetSpot float64

	Policy LevelPolicy
}

// Validate checks the renderer configuration once at startup.
func (c Config) Validate() error {
	if c.NumLEDs <= 0 || c.NumLEDs%2 != 0 {
		return fmt.Errorf("num-leds must be positive and even for mirroring, got %d", c.NumLEDs)
	}
	if c.MaxDisplay <= c.MinDisplay {
		return fmt.Errorf("display range [%v, %v] is empty", c.MinDisplay, c.MaxDisplay)
	}
	switch c.Policy {
	case PolicyLinear:
	case PolicySweetSpot:
		if c.SweetSpot < 0 || c.SweetSpot >= c.MaxDisplay {
			return fmt.Errorf("sweet-spot %v must be within [0, %v)", c.SweetSpot, c.MaxDisplay)
		}
	default:
		return fmt.Errorf("unknown level policy %q", c.Policy)
	}
	return nil
}

// Renderer produces symmetric frames from levels or distances. The frame
// buffer is allocated once and reused; pixels outside the lit span keep
// their previous value until Blank.
type Renderer struct {
	cfg     Config
	palette Palette
	frame   []ledstrip.Color
}

// NewRenderer creates a renderer after validating config and palette.
func NewRenderer(cfg Config, palette Palette) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:     cfg,
		palette: palette,
		frame:   make([]ledstrip.Color, cfg.NumLEDs),
	}, nil
}

// Render lights lit = half*level/255 pixels from both ends toward the
// middle and returns the frame. Pixel i and its mirror NumLEDs-1-i share
// the gradient color at 255*i/half, so the middle pixels carry the danger
// end of the gradient.
func (r *Renderer) Render(level uint8) []ledstrip.Color {
	half := r.cfg.NumLEDs / 2
	return r.fill(half * int(level) / 255)
}

// RenderDistance clamps cm to the display range and renders it under the
// configured level policy.
func (r *Renderer) RenderDistance(cm float64) []ledstrip.Color {
	return r.fill(r.LitCountForDistance(cm))
}

// LitCountForDistance reports how many pixel pairs light up for cm.
func (r *Renderer) LitCountForDistance(cm float64) int {
	d := cm
	if d < r.cfg.MinDisplay {
		d = r.cfg.MinDisplay
	}
	if d > r.cfg.MaxDisplay {
		d = r.cfg.MaxDisplay
	}

	half := r.cfg.NumLEDs / 2
	if r.cfg.Policy == PolicySweetSpot {
		return half * int(r.levelFor(d)) / 255
	}

	// PolicyLinear computes the lit count straight from the distance so
	// no precision is lost to an intermediate 0..255 level.
	span := r.cfg.MaxDisplay - r.cfg.MinDisplay
	return half - int(float64(half)*(d-r.cfg.MinDisplay)/span)
}

// Blank clears every pixel and returns the frame.
func (r *Renderer) Blank() []ledstrip.Color {
	for i := range r.frame {
		r.frame[i] = ledstrip.Color{}
	}
	return r.frame
}

// NumLEDs returns the configured strip length.
func (r *Renderer) NumLEDs() int {
	return r.cfg.NumLEDs
}

// levelFor implements the sweet-spot policy: full level at or inside
// SweetSpot, linear down to zero at MaxDisplay. d is already clamped.
func (r *Renderer) levelFor(d float64) uint8 {
	if d <= r.cfg.SweetSpot {
		return 255
	}
	span := r.cfg.MaxDisplay - r.cfg.SweetSpot
	return uint8(255 * (r.cfg.MaxDisplay - d) / span)
}

func (r *Renderer) fill(lit int) []ledstrip.Color {
	half := r.cfg.NumLEDs / 2
	if lit > half {
		lit = half
	}
	for i := 0; i < lit; i++ {
		c := r.palette.Interpolate(uint8(255 * i / half))
		r.frame[i] = c
		r.frame[r.cfg.NumLEDs-1-i] = c
	}
	return r.frame
}
