package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// htmlTemplate produces a single self-contained document: every chart is a
// base64 data URI, so the file travels without an asset directory.
var htmlTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Thorfin Report - {{.Product}}</title>
<style>
body{font-family:Arial, Helvetica, sans-serif; background:#f5f7fa; color:#111; padding:18px}
.header{background:linear-gradient(90deg,#0b8453,#0f172a); color:white; padding:16px; border-radius:8px; text-align:center}
.container{max-width:1100px; margin:18px auto}
.card{background:white; padding:14px; border-radius:8px; box-shadow:0 6px 14px rgba(0,0,0,0.06); margin-bottom:14px}
.kpi{display:flex; gap:18px; flex-wrap:wrap}
.kpi .item{flex:1; min-width:160px; padding:12px; border-radius:6px; background:#f8fafc; text-align:center}
img{max-width:100%; height:auto; display:block; margin:8px auto}
pre{background:#f3f4f6; padding:12px; border-radius:6px; overflow:auto; white-space:pre-wrap}
.footer{text-align:center; font-size:12px; color:#666; margin-top:12px}
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>Thorfin Product Insights &mdash; {{.Product}}</h1></div>

<div class="card">
  <h2>KPIs</h2>
  <div class="kpi">
{{- range .KPIs}}
    <div class="item"><strong>{{.Label}}</strong><div>{{.Value}}</div></div>
{{- end}}
  </div>
</div>
{{- range .Charts}}

<div class="card"><h2>{{.Title}}</h2>
<img src="{{.DataURI}}" alt="{{.Title}}"></div>
{{- end}}
{{- if .Summary}}

<div class="card"><h2>AI summary</h2><pre>{{.Summary}}</pre></div>
{{- end}}
{{- if .Excerpts}}

<div class="card"><h2>Review excerpts</h2><pre>{{.Excerpts}}</pre></div>
{{- end}}

<div class="footer">Generated {{.GeneratedAt}}</div>
</div></body></html>
`))

type htmlKPI struct {
	Label string
	Value string
}

type htmlChart struct {
	Title   string
	DataURI template.URL
}

type htmlData struct {
	Product     string
	KPIs        []htmlKPI
	Charts      []htmlChart
	Summary     string
	Excerpts    string
	GeneratedAt string
}

// RenderHTML serializes the content to a self-contained UTF-8 document.
func RenderHTML(c Content) ([]byte, error) {
	data := htmlData{
		Product:     c.Product,
		GeneratedAt: c.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		Summary:     c.Summary,
	}

	avgRating := "N/A"
	if c.Metrics.AvgRating != nil {
		avgRating = fmt.Sprintf("%.2f", *c.Metrics.AvgRating)
	}
	avgPrice := "N/A"
	if c.Metrics.AvgPrice != nil {
		avgPrice = fmt.Sprintf("$%.2f", *c.Metrics.AvgPrice)
	}
	data.KPIs = []htmlKPI{
		{Label: "Review count", Value: strconv.Itoa(c.Metrics.Count)},
		{Label: "Average rating", Value: avgRating},
		{Label: "Average price", Value: avgPrice},
	}
	if c.Metrics.TopRatedProduct != nil {
		data.KPIs = append(data.KPIs, htmlKPI{Label: "Top rated product", Value: *c.Metrics.TopRatedProduct})
	}

	for _, section := range c.Charts {
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(section.Artifact.PNG)
		data.Charts = append(data.Charts, htmlChart{
			Title:   section.Title,
			DataURI: template.URL(uri),
		})
	}

	if len(c.Excerpts) > 0 {
		// One paragraph per excerpt, so individual reviews stay readable.
		wrapped := wrapText(strings.Join(c.Excerpts, "\n"), c.WrapWidth)
		data.Excerpts = strings.Join(wrapped, "\n")
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, &ExportError{Format: "html", Err: err}
	}
	return buf.Bytes(), nil
}
