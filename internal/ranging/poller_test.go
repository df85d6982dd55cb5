package ranging

import (
	"errors"
	"testing"
	"time"
)

// recordingHandler captures dispatched callbacks for assertions.
type recordingHandler struct {
	readings []float64
	timeouts int
}

func (h *recordingHandler) OnReading(cm float64, now time.Time) {
	h.readings = append(h.readings, cm)
}

func (h *recordingHandler) OnTimeout(now time.Time) {
	h.timeouts++
}

func TestPollerDispatchCadence(t *testing.T) {
	sensor := NewFakeSensor([]Sample{{CM: 50, OK: true}})
	h := &recordingHandler{}
	p := NewPoller(sensor, h, 100*time.Millisecond)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// The first dispatch fires immediately.
	took, err := p.Dispatch(now)
	if err != nil || !took {
		t.Fatalf("first dispatch: got (%v, %v), want (true, nil)", took, err)
	}
	if len(h.readings) != 1 || h.readings[0] != 50 {
		t.Fatalf("readings: got %v, want [50]", h.readings)
	}

	// Within the interval: nothing happens.
	took, _ = p.Dispatch(now.Add(50 * time.Millisecond))
	if took {
		t.Error("dispatch within the interval should not measure")
	}

	took, _ = p.Dispatch(now.Add(100 * time.Millisecond))
	if !took {
		t.Error("dispatch at the interval should measure")
	}
	if len(h.readings) != 2 {
		t.Errorf("readings: got %d, want 2", len(h.readings))
	}
}

func TestPollerDispatchTimeout(t *testing.T) {
	sensor := NewFakeSensor([]Sample{{OK: false}})
	h := &recordingHandler{}
	p := NewPoller(sensor, h, 100*time.Millisecond)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.Dispatch(now)

	if h.timeouts != 1 {
		t.Errorf("timeouts: got %d, want 1", h.timeouts)
	}
	if len(h.readings) != 0 {
		t.Errorf("readings: got %v, want none", h.readings)
	}
}

func TestPollerSetInterval(t *testing.T) {
	sensor := NewFakeSensor([]Sample{{CM: 50, OK: true}})
	h := &recordingHandler{}
	p := NewPoller(sensor, h, 500*time.Millisecond)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.Dispatch(now)

	p.SetInterval(100 * time.Millisecond)
	if p.Interval() != 100*time.Millisecond {
		t.Errorf("interval: got %v, want 100ms", p.Interval())
	}

	// The shorter cadence applies from the last measurement.
	if took, _ := p.Dispatch(now.Add(100 * time.Millisecond)); !took {
		t.Error("dispatch at the new interval should measure")
	}
}

func TestPollerSensorError(t *testing.T) {
	sensor := NewFakeSensor([]Sample{{CM: 50, OK: true}})
	sensor.MeasureError = errors.New("bus fault")
	h := &recordingHandler{}
	p := NewPoller(sensor, h, 100*time.Millisecond)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	took, err := p.Dispatch(now)
	if !took || err == nil {
		t.Fatalf("dispatch: got (%v, %v), want attempted with error", took, err)
	}
	if len(h.readings) != 0 || h.timeouts != 0 {
		t.Error("handler should not be invoked on sensor error")
	}
}

func TestPollerZeroIntervalDisabled(t *testing.T) {
	sensor := NewFakeSensor([]Sample{{CM: 50, OK: true}})
	h := &recordingHandler{}
	p := NewPoller(sensor, h, 0)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if took, _ := p.Dispatch(now); took {
		t.Error("zero interval should disable dispatching")
	}
}
