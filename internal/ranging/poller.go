package ranging

import "time"

// Poller adapts a synchronous Sensor to the callback shape: the run loop
// calls Dispatch once per iteration and, when the cadence interval has
// elapsed, one measurement is taken and handed to the Handler before
// Dispatch returns. No background goroutines; callbacks run to completion
// on the caller's flow.
type Poller struct {
	sensor   Sensor
	handler  Handler
	interval time.Duration
	last     time.Time
}

// NewPoller creates a poller with the given initial cadence.
func NewPoller(sensor Sensor, handler Handler, interval time.Duration) *Poller {
	return &Poller{
		sensor:   sensor,
		handler:  handler,
		interval: interval,
	}
}

// SetInterval changes the measurement cadence. Takes effect on the next
// Dispatch.
func (p *Poller) SetInterval(d time.Duration) {
	p.interval = d
}

// Interval returns the current cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Dispatch takes a measurement when one is due and invokes the handler
// synchronously. It reports whether a measurement was attempted.
func (p *Poller) Dispatch(now time.Time) (bool, error) {
	if p.interval <= 0 || now.Sub(p.last) < p.interval {
		return false, nil
	}
	p.last = now

	cm, ok, err := p.sensor.Measure()
	if err != nil {
		return true, err
	}
	if !ok {
		p.handler.OnTimeout(now)
		return true, nil
	}
	p.handler.OnReading(cm, now)
	return true, nil
}
