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
	Phase         string     `json:"phase"`
	Score         uint32     `json:"score"`
	HighScore     uint32     `json:"high_score"`
	Difficulty    uint8      `json:"difficulty"`
	Moles         []bool     `json:"moles"`
	Display       []string   `json:"display"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Games   int `json:"games"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Spawns  int `json:"spawns"`
	Expires int `json:"expires"`
}

// ConfigJSON is the JSON representation of the running config.
type ConfigJSON struct {
	Chip        string `json:"chip"`
	Pins        []int  `json:"pins"`
	Display     string `json:"display"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	StorePath   string `json:"store_path"`
}

func buildInner(snap Snapshot) StatusInner {
	moles := make([]bool, len(snap.Moles))
	for i, m := range snap.Moles {
		moles[i] = m.Active
	}

	return StatusInner{
		Phase:         snap.Phase.String(),
		Score:         snap.Score,
		HighScore:     snap.HighScore,
		Difficulty:    snap.Difficulty,
		Moles:         moles,
		Display:       []string{snap.Top, snap.Bottom},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Games:   snap.Counts.Games,
			Hits:    snap.Counts.Hits,
			Misses:  snap.Counts.Misses,
			Spawns:  snap.Counts.Spawns,
			Expires: snap.Counts.Expires,
		},
		Config: ConfigJSON{
			Chip:        snap.Config.Chip,
			Pins:        snap.Config.Pins[:],
			Display:     snap.Config.Display,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			HeartbeatMs: snap.Config.HeartbeatMs,
			StorePath:   snap.Config.StorePath,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
