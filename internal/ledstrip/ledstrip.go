// Package ledstrip pushes color frames to an addressable LED strip with
// hardware abstraction. The real implementation encodes WS2812 data onto
// an SPI port's MOSI line; the fake records frames for tests.
package ledstrip

// Color is one pixel in 8-bit RGB.
type Color struct {
	R, G, B uint8
}

// Strip writes complete frames to the pixel bus.
type Strip interface {
	// WriteFrame pushes one color per physical pixel, index 0 first.
	WriteFrame(frame []Color) error

	// Close releases bus resources.
	Close() error
}
