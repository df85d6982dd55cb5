package ledstrip

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// WS2812 data is encoded as 3 SPI bits per data bit at 2.4 MHz: a zero
// bit is 100, a one bit is 110. This keeps the high-time within the
// part's 400/800 ns windows without a dedicated PWM peripheral.
const spiBitsPerBit = 3

// resetBytes of zeroes after the pixel data hold MOSI low for >100 us,
// well past the WS2812 latch gap.
const resetBytes = 30

// SPIStrip drives a WS2812 strip through an SPI port's MOSI line.
type SPIStrip struct {
	port spi.PortCloser
	conn spi.Conn
	wire []byte // reused encode buffer, sized once for numLEDs
}

// NewSPIStrip opens the named SPI port (empty for the first available)
// for a strip of numLEDs pixels.
func NewSPIStrip(name string, numLEDs int) (*SPIStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}

	conn, err := port.Connect(2400*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	return &SPIStrip{
		port: port,
		conn: conn,
		wire: make([]byte, numLEDs*3*spiBitsPerBit+resetBytes),
	}, nil
}

// WriteFrame encodes the frame as WS2812 GRB data followed by a reset gap
// and pushes it in a single SPI transaction.
func (s *SPIStrip) WriteFrame(frame []Color) error {
	if need := len(frame)*3*spiBitsPerBit + resetBytes; need > len(s.wire) {
		return fmt.Errorf("frame of %d pixels exceeds strip length", len(frame))
	}

	n := 0
	for _, c := range frame {
		n = s.encodeByte(c.G, n)
		n = s.encodeByte(c.R, n)
		n = s.encodeByte(c.B, n)
	}
	for i := 0; i < resetBytes; i++ {
		s.wire[n] = 0
		n++
	}

	if err := s.conn.Tx(s.wire[:n], nil); err != nil {
		return fmt.Errorf("spi tx: %w", err)
	}
	return nil
}

// encodeByte expands one color byte into three wire bytes, MSB first.
func (s *SPIStrip) encodeByte(b uint8, n int) int {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= 3
		if b&(1<<uint(i)) != 0 {
			bits |= 0b110
		} else {
			bits |= 0b100
		}
	}
	s.wire[n] = byte(bits >> 16)
	s.wire[n+1] = byte(bits >> 8)
	s.wire[n+2] = byte(bits)
	return n + 3
}

// Close releases the SPI port.
func (s *SPIStrip) Close() error {
	return s.port.Close()
}
