package display

import (
	"testing"

	"github.com/sweeney/park-assist/internal/ledstrip"
)

func TestDefaultPaletteValid(t *testing.T) {
	if err := DefaultPalette().Validate(); err != nil {
		t.Errorf("default palette rejected: %v", err)
	}
}

func TestPaletteValidateRejects(t *testing.T) {
	green := ledstrip.Color{G: 255}
	red := ledstrip.Color{R: 255}

	tests := []struct {
		name    string
		palette Palette
	}{
		{"too few stops", Palette{{Pos: 0, Color: green}}},
		{"does not start at 0", Palette{{Pos: 10, Color: green}, {Pos: 255, Color: red}}},
		{"does not end at 255", Palette{{Pos: 0, Color: green}, {Pos: 200, Color: red}}},
		{"non-increasing positions", Palette{{Pos: 0, Color: green}, {Pos: 128, Color: red}, {Pos: 128, Color: green}, {Pos: 255, Color: red}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.palette.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestPaletteInterpolateEndpoints(t *testing.T) {
	p := DefaultPalette()

	if got := p.Interpolate(0); got != (ledstrip.Color{G: 255}) {
		t.Errorf("position 0: got %+v, want pure green", got)
	}
	if got := p.Interpolate(128); got != (ledstrip.Color{R: 255, G: 255}) {
		t.Errorf("position 128: got %+v, want yellow", got)
	}
	if got := p.Interpolate(255); got != (ledstrip.Color{R: 255}) {
		t.Errorf("position 255: got %+v, want pure red", got)
	}
}

func TestPaletteInterpolateBlends(t *testing.T) {
	p := DefaultPalette()

	// Halfway between green and yellow: red ramps up, green stays full.
	got := p.Interpolate(64)
	if got.R != 127 || got.G != 255 || got.B != 0 {
		t.Errorf("position 64: got %+v, want {127 255 0}", got)
	}

	// Between yellow and red the green channel falls toward zero.
	got = p.Interpolate(192)
	if got.R != 255 || got.B != 0 {
		t.Errorf("position 192: got %+v, want full red channel", got)
	}
	if got.G >= 255 || got.G == 0 {
		t.Errorf("position 192: green %d should be partway down", got.G)
	}
}

func TestPaletteRedMonotonicOnGreenRamp(t *testing.T) {
	p := DefaultPalette()
	prev := p.Interpolate(0).R
	for pos := 1; pos <= 128; pos++ {
		r := p.Interpolate(uint8(pos)).R
		if r < prev {
			t.Fatalf("red channel decreased at position %d: %d -> %d", pos, prev, r)
		}
		prev = r
	}
}
