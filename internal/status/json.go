package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	DistanceCM    *float64   `json:"distance_cm,omitempty"`
	LitCount      int        `json:"lit_count"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"transition_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	AwayToParking   int `json:"away_to_parking"`
	ParkingToParked int `json:"parking_to_parked"`
	ParkedToAway    int `json:"parked_to_away"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	NumLEDs      int     `json:"num_leds"`
	MinTriggerCM float64 `json:"min_trigger_cm"`
	MaxTriggerCM float64 `json:"max_trigger_cm"`
	MinDisplayCM float64 `json:"min_display_cm"`
	MaxDisplayCM float64 `json:"max_display_cm"`
	HysteresisCM float64 `json:"hysteresis_cm"`
	InactivityMs int64   `json:"inactivity_ms"`
	FastMs       int64   `json:"fast_interval_ms"`
	SlowMs       int64   `json:"slow_interval_ms"`
	FPS          int     `json:"fps"`
	LevelPolicy  string  `json:"level_policy"`
	ParkedExit   string  `json:"parked_exit"`
	Broker       string  `json:"broker,omitempty"`
	HTTPAddr     string  `json:"http_addr,omitempty"`
}

// FormatStatusEvent renders a full status snapshot as the payload of a
// system event (STARTUP, SHUTDOWN, HEARTBEAT).
func FormatStatusEvent(s Snapshot, event, reason string) []byte {
	inner := statusInner(s)
	inner.Event = event
	inner.Reason = reason
	b, err := json.Marshal(StatusJSON{Status: inner})
	if err != nil {
		// Snapshot contains only marshalable fields; this cannot happen.
		return []byte("{}")
	}
	return b
}

// FormatStatus renders a snapshot without an event wrapper, for HTTP.
func FormatStatus(s Snapshot) []byte {
	b, err := json.Marshal(StatusJSON{Status: statusInner(s)})
	if err != nil {
		return []byte("{}")
	}
	return b
}

func statusInner(s Snapshot) StatusInner {
	inner := StatusInner{
		State:         string(s.State),
		LitCount:      s.LitCount,
		UptimeSeconds: int64(s.Uptime().Seconds()),
		StartTime:     s.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     s.Now.UTC().Format(time.RFC3339),
		MQTT: MQTTStatus{
			Connected: s.MQTTConnected,
			Broker:    s.Config.Broker,
		},
		Counts: CountsJSON{
			AwayToParking:   s.Counts.AwayToParking,
			ParkingToParked: s.Counts.ParkingToParked,
			ParkedToAway:    s.Counts.ParkedToAway,
		},
		Config: ConfigJSON{
			NumLEDs:      s.Config.NumLEDs,
			MinTriggerCM: s.Config.MinTriggerCM,
			MaxTriggerCM: s.Config.MaxTriggerCM,
			MinDisplayCM: s.Config.MinDisplayCM,
			MaxDisplayCM: s.Config.MaxDisplayCM,
			HysteresisCM: s.Config.HysteresisCM,
			InactivityMs: s.Config.InactivityMs,
			FastMs:       s.Config.FastMs,
			SlowMs:       s.Config.SlowMs,
			FPS:          s.Config.FPS,
			LevelPolicy:  s.Config.LevelPolicy,
			ParkedExit:   s.Config.ParkedExit,
			Broker:       s.Config.Broker,
			HTTPAddr:     s.Config.HTTPAddr,
		},
	}
	if s.HasDistance {
		d := s.DistanceCM
		inner.DistanceCM = &d
	}
	return inner
}
