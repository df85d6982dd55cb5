package logic

import "time"

// Timer is a restartable elapsed-time gate. The zero value reports
// elapsed for any reasonable interval, so the first check after startup
// fires immediately unless Restart is called first.
type Timer struct {
	start time.Time
}

// Restart resets the timer's start instant to now.
func (t *Timer) Restart(now time.Time) {
	t.start = now
}

// Elapsed reports whether d has passed since the last restart.
func (t *Timer) Elapsed(now time.Time, d time.Duration) bool {
	return now.Sub(t.start) >= d
}

// ElapsedRestart is Elapsed with auto-restart: when the interval has
// passed, the timer restarts at now so the next interval is measured
// from this check.
func (t *Timer) ElapsedRestart(now time.Time, d time.Duration) bool {
	if now.Sub(t.start) >= d {
		t.start = now
		return true
	}
	return false
}
