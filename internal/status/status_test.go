package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/park-assist/internal/logic"
)

func testConfig() Config {
	return Config{
		NumLEDs:      24,
		MinTriggerCM: 4,
		MaxTriggerCM: 100,
		MinDisplayCM: 10,
		MaxDisplayCM: 80,
		HysteresisCM: 4,
		InactivityMs: 30000,
		FastMs:       100,
		SlowMs:       500,
		FPS:          20,
		LevelPolicy:  "linear",
		ParkedExit:   "receded",
		Broker:       "tcp://localhost:1883",
		HTTPAddr:     ":8080",
	}
}

func TestTrackerInitialSnapshot(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if snap.State != logic.StateAway {
		t.Errorf("state: got %v, want AWAY", snap.State)
	}
	if snap.HasDistance {
		t.Error("new tracker should have no distance")
	}
	if snap.StartTime != start {
		t.Errorf("start time: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.NumLEDs != 24 {
		t.Errorf("config not carried: %+v", snap.Config)
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.Update(logic.StateParking, logic.TransitionCounts{AwayToParking: 1})
	snap := tr.Snapshot()
	if snap.State != logic.StateParking {
		t.Errorf("state: got %v, want PARKING", snap.State)
	}
	if snap.Counts.AwayToParking != 1 {
		t.Errorf("counts: got %+v", snap.Counts)
	}
}

func TestTrackerDistance(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetDistance(42.5, 8)
	snap := tr.Snapshot()
	if !snap.HasDistance || snap.DistanceCM != 42.5 || snap.LitCount != 8 {
		t.Errorf("after SetDistance: %+v", snap)
	}

	tr.ClearDistance()
	snap = tr.Snapshot()
	if snap.HasDistance || snap.DistanceCM != 0 || snap.LitCount != 0 {
		t.Errorf("after ClearDistance: %+v", snap)
	}
}

func TestTrackerMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTT connected")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTT disconnected")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("uptime: got %v, want 90s", snap.Uptime())
	}
}

func TestFormatStatus(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		State:         logic.StateParking,
		DistanceCM:    55,
		HasDistance:   true,
		LitCount:      5,
		Counts:        logic.TransitionCounts{AwayToParking: 2, ParkingToParked: 1, ParkedToAway: 1},
		StartTime:     start,
		Now:           start.Add(time.Hour),
		MQTTConnected: true,
		Config:        testConfig(),
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatus(snap), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	st := parsed.Status
	if st.State != "PARKING" {
		t.Errorf("state: got %q", st.State)
	}
	if st.Event != "" || st.Reason != "" {
		t.Errorf("plain status should carry no event: %q/%q", st.Event, st.Reason)
	}
	if st.DistanceCM == nil || *st.DistanceCM != 55 {
		t.Errorf("distance: got %v", st.DistanceCM)
	}
	if st.LitCount != 5 {
		t.Errorf("lit count: got %d", st.LitCount)
	}
	if st.UptimeSeconds != 3600 {
		t.Errorf("uptime: got %d, want 3600", st.UptimeSeconds)
	}
	if st.Timestamp != "2026-01-01T13:00:00Z" {
		t.Errorf("timestamp: got %q", st.Timestamp)
	}
	if !st.MQTT.Connected || st.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("mqtt: got %+v", st.MQTT)
	}
	if st.Counts.AwayToParking != 2 || st.Counts.ParkingToParked != 1 {
		t.Errorf("counts: got %+v", st.Counts)
	}
	if st.Config.NumLEDs != 24 || st.Config.LevelPolicy != "linear" {
		t.Errorf("config: got %+v", st.Config)
	}
}

func TestFormatStatusOmitsDistanceWhenBlank(t *testing.T) {
	snap := Snapshot{
		State:     logic.StateAway,
		StartTime: time.Now(),
		Now:       time.Now(),
		Config:    testConfig(),
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(FormatStatus(snap), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["status"]["distance_cm"]; present {
		t.Error("distance_cm should be omitted without a displayed distance")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		State:     logic.StateParked,
		StartTime: time.Now(),
		Now:       time.Now(),
		Config:    testConfig(),
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("event: got %q/%q", parsed.Status.Event, parsed.Status.Reason)
	}
	if parsed.Status.State != "PARKED" {
		t.Errorf("state: got %q", parsed.Status.State)
	}
}
