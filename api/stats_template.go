// api/stats_template.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package api

import "text/template"

func parseStatsTemplate() *template.Template {
	return template.Must(template.New("stats").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>routecastd status</title>
</head>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #dddddd; padding: 8px; text-align: left; }
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>CPU usage: {{.CPUUsage}}%</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>
</body>
</html>
`))
}
