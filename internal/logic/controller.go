package logic

import "time"

// Controller owns the parking state machine: the current state, the
// per-state timers, and the last accepted distance. All mutable state
// lives here; the run loop applies the Output values the handlers return.
type Controller struct {
	cfg Config

	state    State
	entering bool

	// Last accepted distance while PARKING, for hysteresis comparison.
	prev float64

	interval   time.Duration // current sensor cadence
	readTimer  Timer
	inactivity Timer

	startTime     time.Time
	counts        TransitionCounts
	lastHeartbeat time.Time
}

// NewController creates a controller in AWAY with its entry action pending.
func NewController(cfg Config, start time.Time) *Controller {
	c := &Controller{
		cfg:           cfg,
		state:         StateAway,
		entering:      true,
		interval:      cfg.SlowInterval,
		startTime:     start,
		lastHeartbeat: start,
	}
	c.readTimer.Restart(start)
	c.inactivity.Restart(start)
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Interval returns the current sensor polling cadence.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Counts returns a snapshot of the transition counts.
func (c *Controller) Counts() TransitionCounts {
	return c.counts
}

// Tick runs the per-iteration housekeeping: any pending entry action, the
// inactivity check while PARKING, and the read-cadence gate.
func (c *Controller) Tick(now time.Time) Output {
	var out Output
	c.runEntry(now, &out)

	if c.state == StateParking && c.inactivity.Elapsed(now, c.cfg.Inactivity) {
		// No significant motion for the whole window: car has stopped.
		c.transition(StateParked, now, &out)
	}

	if c.readTimer.ElapsedRestart(now, c.interval) {
		out.Measure = true
	}
	return out
}

// OnReading feeds one successful ranging measurement into the state machine.
func (c *Controller) OnReading(cm float64, now time.Time) Output {
	var out Output
	c.runEntry(now, &out)

	switch c.state {
	case StateAway:
		if cm > c.cfg.MinTrigger && cm < c.cfg.MaxTrigger {
			c.prev = cm
			c.transition(StateParking, now, &out)
		}

	case StateParking:
		if cm < c.cfg.MinTrigger || cm > c.cfg.MaxTrigger {
			break // out of band, discard without state change
		}
		if abs(cm-c.prev) > c.cfg.Hysteresis {
			// Still moving: record and keep the inactivity window open.
			c.prev = cm
			c.inactivity.Restart(now)
		}
		d := clamp(cm, c.cfg.MinDisplay, c.cfg.MaxDisplay)
		out.Show = &d

	case StateParked:
		if c.cfg.ParkedExit == ExitOnAnyReading || cm > c.cfg.MaxTrigger {
			c.transition(StateAway, now, &out)
		}
	}
	return out
}

// OnTimeout handles a ranging timeout. While PARKED the lost echo is read
// as the car having left; everywhere else it is ignored.
func (c *Controller) OnTimeout(now time.Time) Output {
	var out Output
	c.runEntry(now, &out)
	if c.state == StateParked {
		c.transition(StateAway, now, &out)
	}
	return out
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		State:     c.state,
		Counts:    c.counts,
	}
}

func (c *Controller) transition(to State, now time.Time, out *Output) {
	switch {
	case c.state == StateAway && to == StateParking:
		c.counts.AwayToParking++
	case c.state == StateParking && to == StateParked:
		c.counts.ParkingToParked++
	case c.state == StateParked && to == StateAway:
		c.counts.ParkedToAway++
	}
	c.state = to
	c.entering = true
	s := to
	out.Transition = &s
	c.runEntry(now, out)
}

// runEntry performs the entry action of the current state. The entering
// flag is consumed exactly once per transition, so re-checking a state
// never repeats its entry action.
func (c *Controller) runEntry(now time.Time, out *Output) {
	if !c.entering {
		return
	}
	c.entering = false

	switch c.state {
	case StateAway:
		c.setCadence(c.cfg.SlowInterval, out)
	case StateParking:
		c.setCadence(c.cfg.FastInterval, out)
		c.inactivity.Restart(now)
	case StateParked:
		out.Blank = true
		c.setCadence(c.cfg.SlowInterval, out)
	}
}

func (c *Controller) setCadence(d time.Duration, out *Output) {
	c.interval = d
	iv := d
	out.Cadence = &iv
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
