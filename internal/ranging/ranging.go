// Package ranging produces distance measurements with hardware abstraction.
// The real implementation drives an HC-SR04 ultrasonic module through the
// Linux GPIO character device. The fake returns scripted samples.
package ranging

import "time"

// Sensor performs one bounded-blocking ranging measurement.
type Sensor interface {
	// Measure returns the distance in centimeters. ok is false when the
	// echo timed out (no obstacle in range); err reports hardware faults
	// only, never a missing echo.
	Measure() (cm float64, ok bool, err error)

	// Close releases sensor resources.
	Close() error
}

// Handler receives dispatched measurement results. The controller side
// implements this shape; it never depends on which adapter is active.
type Handler interface {
	OnReading(cm float64, now time.Time)
	OnTimeout(now time.Time)
}

// Default HC-SR04 wiring (BCM numbering).
const (
	DefaultTriggerPin = 23
	DefaultEchoPin    = 24
)

// DefaultTimeout bounds the wait for the echo pulse. The HC-SR04 holds
// echo high for up to ~200 ms on no return; a full second is far past any
// real reading.
const DefaultTimeout = time.Second
