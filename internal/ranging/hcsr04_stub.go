//go:build !linux

package ranging

import (
	"errors"
	"time"
)

// HCSR04 is not available on non-Linux platforms.
type HCSR04 struct{}

// NewHCSR04 returns an error on non-Linux platforms.
func NewHCSR04(triggerPin, echoPin int, timeout time.Duration) (*HCSR04, error) {
	return nil, errors.New("ranging: not supported on this platform (requires Linux)")
}

// Measure is not implemented on non-Linux platforms.
func (s *HCSR04) Measure() (float64, bool, error) {
	return 0, false, errors.New("ranging: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *HCSR04) Close() error {
	return nil
}
