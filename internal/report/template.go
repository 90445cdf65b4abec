package report

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 56rem; color: #222; }
h1 { font-size: 1.4rem; }
.meta { color: #666; font-size: 0.85rem; margin-bottom: 1.5rem; }
.meta span { margin-right: 1.25rem; }
.speakers { margin-bottom: 1rem; }
.speakers b { margin-right: 0.5rem; }
.line { margin: 0.4rem 0; }
.time { color: #888; font-family: monospace; font-size: 0.85rem; margin-right: 0.5rem; }
.speaker { font-weight: 600; margin-right: 0.35rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
{{if .SourcePath}}<span>source: {{.SourcePath}}</span>{{end}}
{{if .Model}}<span>model: {{.Model}}</span>{{end}}
{{if .Language}}<span>language: {{.Language}}</span>{{end}}
<span>generated: {{.GeneratedAt}}</span>
</div>
{{if .Speakers}}<div class="speakers"><b>Speakers:</b>{{range .Speakers}} {{.}}{{end}}</div>{{end}}
{{range .Lines}}<div class="line"><span class="time">[{{.Start}} - {{.End}}]</span>{{if .Speaker}}<span class="speaker">{{.Speaker}}:</span>{{end}}{{.Text}}</div>
{{end}}</body>
</html>
`
