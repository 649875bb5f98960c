package derive

import (
	"bytes"
	"text/template"

	"github.com/cockroachdb/errors"
)

var fragmentTemplate = template.Must(template.New("fragment").Parse(`{{range .Values}}
// {{.Doc}}
{{if .Const}}const{{else}}var{{end}} {{.Name}} {{.Type}} = {{.Value}}
{{end}}{{range .Funcs}}
// {{.Doc}}
func {{.Name}}{{.TypeParams}}() {{.Result}} {
	return {{.Body}}
}
{{end}}{{with .Method}}
// {{.Doc}}
func {{if .Receiver}}{{.Receiver}} {{end}}{{.Name}}{{.TypeParams}}({{.Params}}) {{.Results}} {
{{range .Body}}	{{.}}
{{end}}}
{{end}}{{if .Inits}}
func init() {
{{range .Inits}}	{{.}}
{{end}}}
{{end}}`))

// Render renders the fragment's declarations as unformatted Go source,
// without package clause or imports.
func (f *Fragment) Render() (string, error) {
	var buf bytes.Buffer
	if err := fragmentTemplate.Execute(&buf, f); err != nil {
		return "", errors.Wrapf(err, "rendering %s for %s", f.Trait, f.TypeName)
	}

	return buf.String(), nil
}
