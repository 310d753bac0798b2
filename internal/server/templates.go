package server

import (
	"html/template"

	"github.com/ppiankov/sharechart/internal/chart"
)

var funcs = template.FuncMap{
	"count": chart.FormatCount,
	"inc":   func(i int) int { return i + 1 },
}

const layout = `{{define "head"}}<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
<style>
:root { --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6; --muted: #6c757d; --accent: #0d6efd; }
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057; --muted: #adb5bd; --accent: #5b9aff; }
}
* { box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Apple SD Gothic Neo", "Noto Sans KR", sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1200px; margin: 0 auto; }
nav { margin-bottom: 1rem; font-size: .875rem; }
nav a { color: var(--accent); margin-right: .75rem; text-decoration: none; }
.meta { color: var(--muted); font-size: .8125rem; }
.chart-box { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin: 1rem 0; overflow-x: auto; }
.chart-box svg { max-width: 100%; height: auto; }
.filters { display: flex; flex-wrap: wrap; gap: .5rem; margin: 1rem 0; align-items: center; }
.filters select { padding: .375rem .5rem; border: 1px solid var(--border); border-radius: 4px; background: var(--card-bg); color: var(--fg); }
table { width: 100%; border-collapse: collapse; font-size: .875rem; margin-bottom: 1.5rem; }
th, td { padding: .5rem .625rem; border-bottom: 1px solid var(--border); text-align: left; }
td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
.swatch { display: inline-block; width: .75rem; height: .75rem; border-radius: 2px; margin-right: .375rem; vertical-align: middle; }
.empty { padding: 2rem; text-align: center; color: var(--muted); }
.error { border-left: 4px solid #dc3545; padding: 1rem; background: var(--card-bg); }
</style>
</head>
<body>
<nav><a href="/">sharechart</a>{{end}}

{{define "foot"}}</body>
</html>{{end}}`

const indexPage = `{{template "head" "sharechart"}}</nav>
<h1>📊 Share dashboards</h1>
<ul>
{{- range .Pages}}
  <li><a href="/pages/{{.Name}}">{{.Title}}</a> <span class="meta">{{.Source}}</span></li>
{{- end}}
  <li><a href="/transit">{{.TransitTitle}}</a> <span class="meta">{{.TransitSource}}</span></li>
</ul>
{{template "foot"}}`

const reportPage = `{{template "head" .Report.Title}}</nav>
{{- $r := .Report}}
<h1>{{$r.Title}}</h1>
<p class="meta">{{$r.Source}} · {{$r.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
{{- with $r.Transit}}
<form class="filters" method="get" action="/transit">
  <label>📅 날짜 선택 <select name="date" onchange="this.form.submit()">
  {{- $date := .Date}}{{range .Dates}}<option{{if eq . $date}} selected{{end}}>{{.}}</option>{{end}}
  </select></label>
  <label>🚇 호선 선택 <select name="line" onchange="this.form.submit()">
  {{- $line := .Line}}{{range .Lines}}<option{{if eq . $line}} selected{{end}}>{{.}}</option>{{end}}
  </select></label>
  {{- if .Month}}<input type="hidden" name="month" value="{{.Month}}">{{end}}
  <noscript><button type="submit">보기</button></noscript>
</form>
{{- end}}
{{- if $r.Empty}}
<div class="empty">Total is 0: nothing to show.</div>
{{- else}}
<p><strong>Total {{$r.CountHeading}}: {{count $r.Total}}</strong></p>
<div class="chart-box">{{.Chart}}</div>
<h2>Detail</h2>
<table>
<thead><tr><th>{{$r.CategoryHeading}}</th><th class="num">{{$r.CountHeading}}</th><th class="num">비율 (%)</th></tr></thead>
<tbody>
{{- range $r.Table}}
<tr><td>{{.Label}}</td><td class="num">{{count .Count}}</td><td class="num">{{.Share}}</td></tr>
{{- end}}
</tbody>
</table>
<h2>Ranking</h2>
<table>
<thead><tr><th class="num">Rank</th><th>{{$r.CategoryHeading}}</th><th class="num">Share</th></tr></thead>
<tbody>
{{- range $r.Chart}}
<tr><td class="num">{{inc .Rank}}</td><td><span class="swatch" style="background: {{.Color.Hex}}"></span>{{.Label}}</td><td class="num">{{.Annotation}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
{{- with $r.Transit}}{{if .Stations}}
<h2>{{.Date}} | {{.Line}} 승하차 순위</h2>
<table>
<thead><tr><th>역명</th><th class="num">승차총승객수</th><th class="num">하차총승객수</th><th class="num">총이용객수</th></tr></thead>
<tbody>
{{- range .Stations}}
<tr><td>{{.Station}}</td><td class="num">{{count .Boardings}}</td><td class="num">{{count .Alightings}}</td><td class="num">{{count .Total}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}{{end}}
{{template "foot"}}`

const errorPage = `{{template "head" .Title}}</nav>
<h1>{{.Title}}</h1>
<div class="error">{{.Message}}</div>
{{template "foot"}}`

// pages holds the parsed dashboard templates
type pages struct {
	index   *template.Template
	report  *template.Template
	failure *template.Template
}

func parsePages() (*pages, error) {
	base, err := template.New("layout").Funcs(funcs).Parse(layout)
	if err != nil {
		return nil, err
	}

	parse := func(name, text string) (*template.Template, error) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		return t.New(name).Parse(text)
	}

	p := &pages{}
	if p.index, err = parse("index", indexPage); err != nil {
		return nil, err
	}
	if p.report, err = parse("report", reportPage); err != nil {
		return nil, err
	}
	if p.failure, err = parse("error", errorPage); err != nil {
		return nil, err
	}
	return p, nil
}
