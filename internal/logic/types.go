// Package logic contains pure business logic for the parking state machine.
// This package has NO external dependencies (no GPIO, SPI, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// State represents the controller state.
type State string

const (
	StateAway    State = "AWAY"
	StateParking State = "PARKING"
	StateParked  State = "PARKED"
)

// ParkedExitPolicy selects how the controller leaves PARKED on a valid reading.
type ParkedExitPolicy string

const (
	// ExitOnReceded leaves PARKED only when a reading exceeds MaxTrigger,
	// meaning the obstacle has backed away.
	ExitOnReceded ParkedExitPolicy = "receded"

	// ExitOnAnyReading leaves PARKED on any valid reading at all.
	ExitOnAnyReading ParkedExitPolicy = "any-reading"
)

// Config holds the controller's distance and timing parameters.
// All distances are centimeters.
type Config struct {
	// Trigger band: readings strictly inside (MinTrigger, MaxTrigger)
	// are accepted while AWAY; readings outside it are discarded while
	// PARKING.
	MinTrigger float64
	MaxTrigger float64

	// Display clamp range for rendering.
	MinDisplay float64
	MaxDisplay float64

	// Minimum delta between consecutive readings counted as motion
	// rather than sensor noise.
	Hysteresis float64

	// Inactivity is how long PARKING waits without significant motion
	// before deciding the car has stopped.
	Inactivity time.Duration

	// Sensor polling cadence: fast while PARKING, slow while AWAY and
	// PARKED.
	FastInterval time.Duration
	SlowInterval time.Duration

	ParkedExit ParkedExitPolicy
}

// Validate checks the configuration once at startup. An inconsistent
// configuration is a contract violation, not a runtime condition.
func (c Config) Validate() error {
	if c.MinTrigger < 0 {
		return fmt.Errorf("min-trigger must be non-negative, got %v", c.MinTrigger)
	}
	if c.MaxTrigger <= c.MinTrigger {
		return fmt.Errorf("trigger band (%v, %v) is empty", c.MinTrigger, c.MaxTrigger)
	}
	if c.MinDisplay < 0 {
		return fmt.Errorf("min-display must be non-negative, got %v", c.MinDisplay)
	}
	if c.MaxDisplay <= c.MinDisplay {
		return fmt.Errorf("display range [%v, %v] is empty", c.MinDisplay, c.MaxDisplay)
	}
	if c.Hysteresis < 0 {
		return fmt.Errorf("hysteresis must be non-negative, got %v", c.Hysteresis)
	}
	if c.Inactivity <= 0 {
		return fmt.Errorf("inactivity must be positive, got %v", c.Inactivity)
	}
	if c.FastInterval <= 0 || c.SlowInterval <= 0 {
		return fmt.Errorf("polling intervals must be positive, got fast=%v slow=%v", c.FastInterval, c.SlowInterval)
	}
	switch c.ParkedExit {
	case ExitOnReceded, ExitOnAnyReading:
	default:
		return fmt.Errorf("unknown parked-exit policy %q", c.ParkedExit)
	}
	return nil
}

// Output tells the run loop what to do after a controller call.
// The zero value means there is nothing to do.
type Output struct {
	// Measure is set when a ranging measurement is due (pull mode).
	Measure bool

	// Transition is the new state when a transition happened this call.
	Transition *State

	// Show is the clamped distance to render, set on accepted readings
	// while PARKING.
	Show *float64

	// Blank requests an all-off frame (PARKED entry).
	Blank bool

	// Cadence is the new sensor polling interval, set on state entry.
	Cadence *time.Duration
}

// TransitionCounts tracks the number of each transition since startup.
type TransitionCounts struct {
	AwayToParking   int
	ParkingToParked int
	ParkedToAway    int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Counts    TransitionCounts
}
