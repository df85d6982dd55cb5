package ranging

import "errors"

// Sample is a single scripted measurement. OK false models an echo timeout.
type Sample struct {
	CM float64
	OK bool
}

// FakeSensor is a test double that returns scripted samples.
type FakeSensor struct {
	// Samples contains scripted measurements to return.
	// Each call to Measure consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// MeasureError, if set, will be returned by Measure()
	MeasureError error
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples []Sample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Measure returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSensor) Measure() (float64, bool, error) {
	if f.MeasureError != nil {
		return 0, false, f.MeasureError
	}

	if len(f.Samples) == 0 {
		return 0, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.CM, sample.OK, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the sensor to the beginning of samples.
func (f *FakeSensor) Reset() {
	f.index = 0
	f.Closed = false
}
