package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/use-agent/recipy/models"
)

// Sections are emitted in a fixed order: image, ingredients, instructions,
// attribution. Each one is left out when the record has nothing for it.
const pageSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Image.Present}}
<img src="{{.Image.URL}}" style="height:40%">
{{- end}}
{{- if .Ingredients}}
<h2>Ingredients</h2>
{{- range .Ingredients}}
<p>{{.}}</p>
{{- end}}
{{- end}}
{{- if .Instructions}}
<h2>Instructions</h2>
{{- range $i, $step := .Instructions}}
<h4>{{step $i}}</h4>
<p>{{$step}}</p>
{{- end}}
{{- end}}
{{- with .Source}}{{if .URL}}
<p><small>Source: <a href="{{.URL}}">{{if .SiteName}}{{.SiteName}}{{else}}{{.URL}}{{end}}</a></small></p>
{{- end}}{{end}}
</body>
</html>
`

var pageTmpl = template.Must(template.New("recipe").Funcs(template.FuncMap{
	"step": func(i int) int { return i + 1 },
}).Parse(pageSource))

// HTML renders rec as a standalone HTML document. All recipe text is
// escaped, and equal records render to identical bytes.
func HTML(rec *models.Recipe) (string, error) {
	if rec == nil {
		return "", errors.New("render: nil recipe")
	}
	var b strings.Builder
	if err := pageTmpl.Execute(&b, rec); err != nil {
		return "", fmt.Errorf("render: html: %w", err)
	}
	return b.String(), nil
}
