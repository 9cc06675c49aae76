package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/switchpi/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": formatUptime,
	"key": func(b byte) string {
		if b == 0 {
			return "-"
		}
		return string(b)
	},
	"bits": func(b byte) string {
		return fmt.Sprintf("%08b", b)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SwitchPi</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ON_HOOK { color: #888; }
.OFF_HOOK_IDLE { color: orange; font-weight: bold; }
.IN_CALL { color: green; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>SwitchPi</h1>

<h2>Phone</h2>
<table>
<tr><th>State</th><td class="{{.State}}">{{.State}}</td></tr>
<tr><th>Dialed</th><td>{{if .Digits}}{{.Digits}}{{else}}-{{end}}</td></tr>
<tr><th>Last key</th><td>{{key .LastKey}}</td></tr>
<tr><th>Port A</th><td>{{bits .Port}}</td></tr>
{{if .Call.CallID}}<tr><th>Call</th><td>{{.Call.CallID}} (channel {{.Call.ChannelID}})</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Call control</th><td>{{.Config.API}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Off hook</th><td>{{.Counts.OffHook}}</td></tr>
<tr><th>On hook</th><td>{{.Counts.OnHook}}</td></tr>
<tr><th>Digits</th><td>{{.Counts.Digits}}</td></tr>
<tr><th>Digits dropped</th><td>{{.Counts.DigitsDropped}}</td></tr>
<tr><th>Calls placed</th><td>{{.Counts.CallsPlaced}}</td></tr>
<tr><th>Calls failed</th><td>{{.Counts.CallsFailed}}</td></tr>
<tr><th>DTMF</th><td>{{.Counts.DTMF}}</td></tr>
<tr><th>Scan errors</th><td>{{.ScanErrors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Expander</th><td>{{.Config.Driver}} bus {{.Config.I2CBus}} addr {{printf "0x%02x" .Config.Address}}</td></tr>
<tr><th>Wake</th><td>{{if lt .Config.IRQLine 0}}poll only{{else}}poll + line {{.Config.IRQLine}}{{end}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/state">state</a></p>
</body>
</html>
`

func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	days := int(d.Hours()) / 24
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("render status page: %v", err)
	}
}
