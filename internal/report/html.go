package report

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{"statusMark": statusMark}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

func statusMark(status string) string {
	switch status {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusNA:
		return NA
	default:
		return ""
	}
}

func writeHTML(w io.Writer, d Data) error {
	return htmlTemplate.Execute(w, buildView(d))
}
