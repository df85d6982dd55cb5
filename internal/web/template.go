package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/park-assist/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
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
	},
	"lower": strings.ToLower,
	"bar": func(lit, numLEDs int) string {
		half := numLEDs / 2
		if lit > half {
			lit = half
		}
		return strings.Repeat("█", lit) + strings.Repeat("░", half-lit)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Park Assist</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.away { color: #888; }
.parking { color: orange; font-weight: bold; }
.parked { color: green; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.bar { letter-spacing: 2px; }
</style>
</head>
<body>
<h1>Park Assist</h1>
<table>
<tr><th>State</th><td class="{{lower (printf "%s" .State)}}">{{.State}}</td></tr>
{{if .HasDistance}}<tr><th>Distance</th><td>{{printf "%.0f" .DistanceCM}} cm</td></tr>{{end}}
<tr><th>Bar</th><td class="bar">{{bar .LitCount .Config.NumLEDs}} ({{.LitCount}} pairs lit)</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .Config.Broker}}<span class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</span> ({{.Config.Broker}}){{else}}disabled{{end}}</td></tr>
</table>

<h1>Transitions</h1>
<table>
<tr><th>AWAY &rarr; PARKING</th><td>{{.Counts.AwayToParking}}</td></tr>
<tr><th>PARKING &rarr; PARKED</th><td>{{.Counts.ParkingToParked}}</td></tr>
<tr><th>PARKED &rarr; AWAY</th><td>{{.Counts.ParkedToAway}}</td></tr>
</table>

<h1>Config</h1>
<table>
<tr><th>LEDs</th><td>{{.Config.NumLEDs}}</td></tr>
<tr><th>Trigger band</th><td>{{.Config.MinTriggerCM}}&ndash;{{.Config.MaxTriggerCM}} cm</td></tr>
<tr><th>Display range</th><td>{{.Config.MinDisplayCM}}&ndash;{{.Config.MaxDisplayCM}} cm</td></tr>
<tr><th>Hysteresis</th><td>{{.Config.HysteresisCM}} cm</td></tr>
<tr><th>Inactivity</th><td>{{.Config.InactivityMs}} ms</td></tr>
<tr><th>Polling</th><td>fast {{.Config.FastMs}} ms / slow {{.Config.SlowMs}} ms</td></tr>
<tr><th>Frame rate</th><td>{{.Config.FPS}} fps</td></tr>
<tr><th>Level policy</th><td>{{.Config.LevelPolicy}}</td></tr>
<tr><th>Parked exit</th><td>{{.Config.ParkedExit}}</td></tr>
</table>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Template errors here mean a bug in the template, not bad input.
	indexTmpl.Execute(w, snap)
}
