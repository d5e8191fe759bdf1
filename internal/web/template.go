package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/whack-a-mole/internal/status"
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
	"label": func(i int) int { return i + 1 },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Whack-a-Mole</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
pre.lcd { background: #9bbc0f; color: #0f380f; padding: 8px 12px; font-size: 1.3em; display: inline-block; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.up { color: green; font-weight: bold; }
.down { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Whack-a-Mole</h1>

<pre class="lcd" id="lcd">{{.Top}}
{{.Bottom}}</pre>

<h2>Game</h2>
<table>
<tr><th>Phase</th><td>{{.Phase}}</td></tr>
<tr><th>Score</th><td>{{.Score}}</td></tr>
<tr><th>High Score</th><td>{{.HighScore}}</td></tr>
<tr><th>Difficulty</th><td>{{.Difficulty}}</td></tr>
{{range $i, $m := .Moles}}<tr><th>Hole {{label $i}}</th><td class="{{if $m.Active}}up{{else}}down{{end}}">{{if $m.Active}}up ({{$m.Lifetime}}ms){{else}}down{{end}}</td></tr>
{{end}}</table>

<h2>Event Counts</h2>
<table>
<tr><th>Games</th><td>{{.Counts.Games}}</td></tr>
<tr><th>Hits</th><td>{{.Counts.Hits}}</td></tr>
<tr><th>Misses</th><td>{{.Counts.Misses}}</td></tr>
<tr><th>Spawns</th><td>{{.Counts.Spawns}}</td></tr>
<tr><th>Expires</th><td>{{.Counts.Expires}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>GPIO</th><td>{{.Config.Chip}} {{.Config.Pins}}</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>Store</th><td>{{.Config.StorePath}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

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
		log.Printf("web: render: %v", err)
	}
}
