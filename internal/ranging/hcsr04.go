//go:build linux

package ranging

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// usPerCm is the round-trip echo time per centimeter of distance. The
// divide-by-two of the out-and-back path is already folded into the
// datasheet's 58 us/cm factor.
const usPerCm = 58

// HCSR04 drives an HC-SR04 ultrasonic module: a 10 us trigger pulse, then
// the echo line goes high for the round-trip time of flight. Edge events
// on the echo line are timestamped by the kernel, which keeps the timing
// honest even when the process gets preempted.
type HCSR04 struct {
	chip    *gpiocdev.Chip
	trigger *gpiocdev.Line
	echo    *gpiocdev.Line
	timeout time.Duration
	events  chan gpiocdev.LineEvent
}

// NewHCSR04 opens the trigger and echo lines (BCM numbering) on gpiochip0.
// timeout bounds the wait for each echo edge.
func NewHCSR04(triggerPin, echoPin int, timeout time.Duration) (*HCSR04, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	trig, err := chip.RequestLine(triggerPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request trigger pin %d: %w", triggerPin, err)
	}

	s := &HCSR04{
		chip:    chip,
		trigger: trig,
		timeout: timeout,
		events:  make(chan gpiocdev.LineEvent, 4),
	}

	echo, err := chip.RequestLine(echoPin, gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handleEdge))
	if err != nil {
		trig.Close()
		chip.Close()
		return nil, fmt.Errorf("request echo pin %d: %w", echoPin, err)
	}
	s.echo = echo

	return s, nil
}

func (s *HCSR04) handleEdge(ev gpiocdev.LineEvent) {
	select {
	case s.events <- ev:
	default:
		// Reader is behind; Measure drains stale edges before each pulse.
	}
}

// Measure fires one ranging pulse and times the echo. ok is false when
// either echo edge fails to arrive within the timeout.
func (s *HCSR04) Measure() (float64, bool, error) {
	s.drain()

	if err := s.trigger.SetValue(1); err != nil {
		return 0, false, fmt.Errorf("raise trigger: %w", err)
	}
	time.Sleep(10 * time.Microsecond)
	if err := s.trigger.SetValue(0); err != nil {
		return 0, false, fmt.Errorf("drop trigger: %w", err)
	}

	rise, ok := s.waitEdge(gpiocdev.LineEventRisingEdge)
	if !ok {
		return 0, false, nil
	}
	fall, ok := s.waitEdge(gpiocdev.LineEventFallingEdge)
	if !ok {
		return 0, false, nil
	}

	us := (fall - rise) / time.Microsecond
	if us < 0 {
		return 0, false, nil
	}
	// Integer division rounds the distance toward zero.
	return float64(us / usPerCm), true, nil
}

// drain discards edges left over from a previous timed-out measurement.
func (s *HCSR04) drain() {
	for {
		select {
		case <-s.events:
		default:
			return
		}
	}
}

func (s *HCSR04) waitEdge(typ gpiocdev.LineEventType) (time.Duration, bool) {
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()
	for {
		select {
		case ev := <-s.events:
			if ev.Type == typ {
				return ev.Timestamp, true
			}
		case <-deadline.C:
			return 0, false
		}
	}
}

// Close releases GPIO resources. The trigger line is reconfigured to
// input with pull-down (matching Pi boot defaults) before closing.
func (s *HCSR04) Close() error {
	var errs []error

	if s.trigger != nil {
		if err := s.trigger.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure trigger pin: %w", err))
		}
		if err := s.trigger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trigger pin: %w", err))
		}
	}
	if s.echo != nil {
		if err := s.echo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close echo pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
