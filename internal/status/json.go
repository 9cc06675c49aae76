package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/switchpi/internal/dial"
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
	OffHook       bool       `json:"off_hook"`
	Digits        string     `json:"digits"`
	LastKey       string     `json:"last_key,omitempty"`
	Port          string     `json:"port"`
	Call          *CallJSON  `json:"call,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	ScanErrors    int        `json:"scan_errors"`
	Config        ConfigJSON `json:"config"`
}

// CallJSON identifies the active call.
type CallJSON struct {
	ChannelID string `json:"channel_id"`
	CallID    string `json:"call_id"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	OffHook       int `json:"off_hook"`
	OnHook        int `json:"on_hook"`
	Digits        int `json:"digits"`
	DigitsDropped int `json:"digits_dropped"`
	CallsPlaced   int `json:"calls_placed"`
	CallsFailed   int `json:"calls_failed"`
	DTMF          int `json:"dtmf"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Driver      string `json:"driver"`
	I2CBus      string `json:"i2c_bus"`
	Address     string `json:"address"`
	IRQLine     int    `json:"irq_line"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	API         string `json:"api"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		State:         state,
		OffHook:       snap.State != "" && snap.State != dial.StateOnHook,
		Digits:        snap.Digits,
		Port:          fmt.Sprintf("0x%02X", snap.Port),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			OffHook:       snap.Counts.OffHook,
			OnHook:        snap.Counts.OnHook,
			Digits:        snap.Counts.Digits,
			DigitsDropped: snap.Counts.DigitsDropped,
			CallsPlaced:   snap.Counts.CallsPlaced,
			CallsFailed:   snap.Counts.CallsFailed,
			DTMF:          snap.Counts.DTMF,
		},
		ScanErrors: snap.ScanErrors,
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Driver:      snap.Config.Driver,
			I2CBus:      snap.Config.I2CBus,
			Address:     fmt.Sprintf("0x%02x", snap.Config.Address),
			IRQLine:     snap.Config.IRQLine,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			API:         snap.Config.API,
		},
	}
	if snap.LastKey != 0 {
		inner.LastKey = string(snap.LastKey)
	}
	if snap.Call.ChannelID != "" || snap.Call.CallID != "" {
		inner.Call = &CallJSON{ChannelID: snap.Call.ChannelID, CallID: snap.Call.CallID}
	}
	return inner
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
