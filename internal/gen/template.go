package gen

import "text/template"

var mapperTemplate = template.Must(template.New("mapper").Parse(`{{.Header}}

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .GenerateComments}}// {{.Name}} converts {{.SourceType}} to {{.TargetType}} and back.
{{end}}type {{.Name}} struct {
{{range .Deps}}	{{.Field}} *{{.Type}}
{{end}}}
{{if .Deps}}
{{if .GenerateComments}}// New{{.Name}} creates a new {{.Name}} from its dependency mappers.
{{end}}func New{{.Name}}({{range $i, $d := .Deps}}{{if $i}}, {{end}}{{$d.Param}} *{{$d.Type}}{{end}}) *{{.Name}} {
	return &{{.Name}}{
{{range .Deps}}		{{.Field}}: {{.Param}},
{{end}}	}
}
{{end}}
{{if .GenerateComments}}// {{.Forward.Name}} converts {{.SourceType}} to {{.TargetType}}. It returns nil for nil input.
{{end}}{{template "method" .Forward}}
{{if .GenerateComments}}// {{.Backward.Name}} converts {{.TargetType}} to {{.SourceType}}. It returns nil for nil input.
{{end}}{{template "method" .Backward}}
{{define "method"}}func (m *{{.Mapper}}) {{.Name}}(in *{{.InType}}) *{{.OutType}} {
	if in == nil {
		return nil
	}
{{if .Construct}}{{if .ConstructPointer}}
	return {{.Construct}}
{{else}}
	out := {{.Construct}}

	return &out
{{end}}{{else}}{{if .InitValue}}
	v := {{.Init}}
	out := &v
{{else}}
	out := {{.Init}}
{{end}}{{range .Mutations}}	{{.}}
{{end}}
	return out
{{end}}}
{{end}}`))
