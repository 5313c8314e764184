package web

import (
	"html/template"
	"net/http"
)

var funcMap = template.FuncMap{
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
}

var pageTemplate = template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplForm + tmplResults))

// render writes the page with the given status code
func render(w http.ResponseWriter, status int, data pageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return pageTemplate.ExecuteTemplate(w, "base", data)
}

const tmplBase = `{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Record Search</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #111; color: #eee; }
h1 { font-size: 1.4rem; }
.hint { color: #888; font-size: .85rem; }
.field { margin: .6rem 0; }
.field label { display: inline-block; width: 10rem; font-weight: bold; }
.field-error { color: #ff6b6b; margin-left: 10rem; font-style: italic; }
.banner { padding: .5rem .8rem; margin: 1rem 0; font-weight: bold; }
.banner.error { background: #7a0000; }
.banner.warning { background: #d4a500; color: #000; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #444; padding: .3rem .6rem; text-align: left; }
th { background: #7a0000; }
button { padding: .4rem 1.2rem; background: #7a0000; color: #fff; border: 1px solid #c00; }
</style>
</head>
<body>
<h1>Record Search</h1>
<p class="hint">Times are read as {{.Location}} local time.</p>
{{template "form" .}}
{{template "results" .}}
</body>
</html>
{{end}}`

const tmplForm = `{{define "form"}}
<form id="search-form" method="get" action="/search" oninput="var r = document.getElementById('results'); if (r) { r.hidden = true; }">
  <div class="field">
    <label for="start">Start DateTime</label>
    <input type="datetime-local" step="1" id="start" name="start" value="{{.Start}}">
    {{with fieldError .Errors "Start"}}<div class="field-error">{{.}}</div>{{end}}
  </div>
  <div class="field">
    <label for="end">End DateTime</label>
    <input type="datetime-local" step="1" id="end" name="end" value="{{.End}}">
    {{with fieldError .Errors "End"}}<div class="field-error">{{.}}</div>{{end}}
  </div>
  {{if .AllowFilter}}
  <div class="field">
    <label for="field">Search Parameter</label>
    <select id="field" name="field" onchange="document.getElementById('value-row').hidden = (this.value === 'none');">
      {{range .Filters}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
    {{with fieldError .Errors "FilterField"}}<div class="field-error">{{.}}</div>{{end}}
  </div>
  <div class="field" id="value-row"{{if not .ShowValue}} hidden{{end}}>
    <label for="value">Search Value</label>
    <input type="text" id="value" name="value" value="{{.Value}}">
    {{with fieldError .Errors "FilterValue"}}<div class="field-error">{{.}}</div>{{end}}
  </div>
  {{end}}
  <button type="submit">Submit</button>
  {{with .Banner}}<div class="banner error">{{.}}</div>{{end}}
</form>
{{end}}`

const tmplResults = `{{define "results"}}{{with .Results}}
<section id="results">
  {{if eq .State "error"}}<div class="banner error">{{.Message}}</div>
  {{else if eq .State "empty"}}<div class="banner warning">{{.Message}}</div>
  {{else}}
  <p class="hint">{{.Count}} records for {{.Query}}</p>
  <table>
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}</tbody>
  </table>
  {{end}}
</section>
{{end}}{{end}}`
