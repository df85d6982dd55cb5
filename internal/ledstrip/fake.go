package ledstrip

// FakeStrip is a test double that records written frames.
type FakeStrip struct {
	// Frames contains a copy of every frame written, in order.
	Frames [][]Color

	// WriteError, if set, will be returned by WriteFrame.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeStrip creates a FakeStrip for testing.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{}
}

// WriteFrame records a copy of the frame.
func (f *FakeStrip) WriteFrame(frame []Color) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	cp := make([]Color, len(frame))
	copy(cp, frame)
	f.Frames = append(f.Frames, cp)
	return nil
}

// Close marks the strip as closed.
func (f *FakeStrip) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently written frame, or nil if none was written.
func (f *FakeStrip) Last() []Color {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}

// Reset clears recorded frames.
func (f *FakeStrip) Reset() {
	f.Frames = nil
	f.Closed = false
	f.WriteError = nil
}
