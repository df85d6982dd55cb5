// Package status provides a thread-safe status tracker for the park-assist
// daemon. It is read by the HTTP handlers and snapshotted into MQTT system
// events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/park-assist/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	NumLEDs      int
	MinTriggerCM float64
	MaxTriggerCM float64
	MinDisplayCM float64
	MaxDisplayCM float64
	HysteresisCM float64
	InactivityMs int64
	FastMs       int64
	SlowMs       int64
	FPS          int
	LevelPolicy  string
	ParkedExit   string
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	DistanceCM    float64
	HasDistance   bool
	LitCount      int
	Counts        logic.TransitionCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateAway,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the current state and transition counts.
// Called from the run loop on every tick.
func (t *Tracker) Update(state logic.State, counts logic.TransitionCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetDistance records the last displayed distance and its lit-pixel count.
func (t *Tracker) SetDistance(cm float64, lit int) {
	t.mu.Lock()
	t.snap.DistanceCM = cm
	t.snap.HasDistance = true
	t.snap.LitCount = lit
	t.mu.Unlock()
}

// ClearDistance drops the displayed distance (display blanked).
func (t *Tracker) ClearDistance() {
	t.mu.Lock()
	t.snap.DistanceCM = 0
	t.snap.HasDistance = false
	t.snap.LitCount = 0
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
