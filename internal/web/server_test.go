package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/switchpi/internal/dial"
	"github.com/sweeney/switchpi/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      15,
		HeartbeatMs: 900000,
		Driver:      "periph",
		I2CBus:      "1",
		Address:     0x24,
		IRQLine:     17,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
		API:         "pa",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(dial.StateInCall, "", dial.Call{ChannelID: "1", CallID: "abcd"},
		dial.Counts{OffHook: 2, Digits: 10, CallsPlaced: 1})
	tr.SetPort(0xF0, '#')
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control: got %q, want no-store", cc)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.State != "IN_CALL" {
		t.Errorf("State: got %q, want IN_CALL", sj.Status.State)
	}
	if !sj.Status.OffHook {
		t.Error("expected OffHook=true")
	}
	if sj.Status.LastKey != "#" {
		t.Errorf("LastKey: got %q, want #", sj.Status.LastKey)
	}
	if sj.Status.Port != "0xF0" {
		t.Errorf("Port: got %q, want 0xF0", sj.Status.Port)
	}
	if sj.Status.Call == nil || sj.Status.Call.CallID != "abcd" {
		t.Errorf("Call: got %+v", sj.Status.Call)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Digits != 10 || sj.Status.Counts.CallsPlaced != 1 {
		t.Errorf("Counts: got %+v", sj.Status.Counts)
	}
	if sj.Status.Config.Address != "0x24" {
		t.Errorf("Config.Address: got %q, want 0x24", sj.Status.Config.Address)
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should not carry an event, got %q", sj.Status.Event)
	}
}

func TestIndexHTML(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(dial.StateOffHook, "555", dial.Call{}, dial.Counts{Digits: 3})
	tr.SetPort(0xE0, '5')

	for _, path := range []string{"/", "/index.html"} {
		resp, body := get(t, ts.URL+path)
		if resp.StatusCode != 200 {
			t.Errorf("%s status: got %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s Content-Type: got %q", path, ct)
		}
		for _, want := range []string{"SwitchPi", "OFF_HOOK_IDLE", "555", "11100000", "0x24", "poll + line 17"} {
			if !strings.Contains(body, want) {
				t.Errorf("%s: body missing %q", path, want)
			}
		}
	}
}

func TestIndexHTMLPollOnly(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, status.Config{IRQLine: -1})
	ts := httptest.NewServer(New(":0", tr).Handler())
	defer ts.Close()

	_, body := get(t, ts.URL+"/")
	if !strings.Contains(body, "poll only") {
		t.Error("expected poll only wake mode")
	}
	if !strings.Contains(body, "disconnected") {
		t.Error("expected MQTT disconnected")
	}
}

func TestUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)

	tests := []struct {
		name   string
		update func()
		want   string
	}{
		{"on hook", func() {}, "ON_HOOK - -\n"},
		{"dialing", func() {
			tr.Update(dial.StateOffHook, "555", dial.Call{}, dial.Counts{})
		}, "OFF_HOOK_IDLE 555 -\n"},
		{"in call", func() {
			tr.Update(dial.StateInCall, "", dial.Call{ChannelID: "1", CallID: "6e7b0d7e"}, dial.Counts{})
		}, "IN_CALL - 6e7b0d7e\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.update()
			resp, body := get(t, ts.URL+"/state")
			if resp.StatusCode != 200 {
				t.Fatalf("status: got %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("Content-Type: got %q", ct)
			}
			if body != tt.want {
				t.Errorf("body: got %q, want %q", body, tt.want)
			}
		})
	}
}

func TestWriteMethodsRejected(t *testing.T) {
	ts, tr := newTestServer(t)

	for _, path := range []string{"/", "/index.json", "/state"} {
		resp, err := http.Post(ts.URL+path, "text/plain", strings.NewReader("call 911"))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, resp.StatusCode)
		}
		if allow := resp.Header.Get("Allow"); allow != "GET, HEAD" {
			t.Errorf("POST %s: Allow got %q", path, allow)
		}
	}
	if s := tr.Snapshot(); s.State != dial.StateOnHook {
		t.Errorf("state changed by POST: %s", s.State)
	}
}

func TestHeadRequest(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Head(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("HEAD: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 3*time.Minute, "2h 3m 0s"},
		{26 * time.Hour, "1d 2h 0m 0s"},
		{1500 * time.Millisecond, "1s"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
