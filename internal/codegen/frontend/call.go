package frontend

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
)

const callTemplate = `//
// {{.Name}}{{if .Text}}  {{.Text}}{{end}}
//
const parameters = {
{{- range .Groups}}

  // {{.Title}} PARAMETERS
{{range .Rows}}
  {{if .Disabled}}// {{end}}{{.Name}}: {{.Value}}, // {{.Info}}{{if .Text}} {{.Text}}{{end}}
{{- end}}
{{- end}}
};
{{- range .Structures}}

// {{.Kind}} {{.Name}}{{if .UsedBy}} used by {{.UsedBy}}{{end}}
const {{.Ident}} = {
{{- range .Rows}}
  {{.Name}}: {{.Value}}, // {{.Info}}{{if .Text}} {{.Text}}{{end}}
{{- end}}
};
{{- end}}

const result = await client.call("{{.Name}}", parameters);
`

var callTmpl = template.Must(template.New("call").Parse(callTemplate))

type callRow struct {
	Name     string
	Value    string
	Info     string
	Text     string
	Disabled bool
}

type callGroup struct {
	Title string
	Rows  []callRow
}

type callStructure struct {
	Kind   string
	Name   string
	Ident  string
	UsedBy string
	Rows   []callRow
}

type callData struct {
	Name       string
	Text       string
	Groups     []callGroup
	Structures []callStructure
}

// CallFileName is the artifact path of the call template of name.
func CallFileName(name string) string {
	return common.FileName(name) + ".js"
}

func renderCall(obj *abap.Object, req Request) (Artifact, error) {
	data := callData{Name: obj.Name, Text: obj.Text}

	usedBy := map[string][]string{}
	kinds := map[string]string{}
	for _, dir := range abap.DirectionOrder {
		params := obj.ParametersOf(dir)
		if len(params) == 0 {
			continue
		}
		g := callGroup{Title: strings.ToUpper(string(dir))}
		for _, p := range params {
			g.Rows = append(g.Rows, callRow{
				Name:     p.Name,
				Value:    p.Type.InitialValue(),
				Info:     typeInfo(p.Type, p.TypeName, p.Length, p.Decimals),
				Text:     p.Text,
				Disabled: p.Optional || dir == abap.DirExport,
			})
			if p.Type.IsContainer() {
				usedBy[p.TypeName] = append(usedBy[p.TypeName], p.Name)
				kinds[p.TypeName] = string(p.Type)
			}
		}
		padRows(g.Rows)
		data.Groups = append(data.Groups, g)
	}

	for _, key := range obj.FieldKeys() {
		for _, f := range obj.Fields[key] {
			if f.Type.IsContainer() && kinds[f.TypeName] == "" {
				kinds[f.TypeName] = string(f.Type)
			}
		}
	}

	for _, key := range obj.FieldKeys() {
		s := callStructure{
			Kind:   kinds[key],
			Name:   key,
			Ident:  strings.NewReplacer("/", "_", "-", "_").Replace(key),
			UsedBy: strings.Join(usedBy[key], ", "),
		}
		if s.Kind == "" {
			s.Kind = string(abap.TypeStructure)
		}
		for _, f := range orderedFields(obj, key, req.SortFields) {
			s.Rows = append(s.Rows, callRow{
				Name:  f.Name,
				Value: f.Type.InitialValue(),
				Info:  typeInfo(f.Type, f.TypeName, f.Length, f.Decimals),
				Text:  f.Text,
			})
		}
		padRows(s.Rows)
		data.Structures = append(data.Structures, s)
	}

	var buf bytes.Buffer
	if err := callTmpl.Execute(&buf, data); err != nil {
		return Artifact{}, fmt.Errorf("execute call template: %w", err)
	}
	return Artifact{
		Path:   CallFileName(obj.Name),
		Header: req.Signature.FileHeader("//"),
		Body:   buf.Bytes(),
	}, nil
}

// padRows right-pads names so that values line up.
func padRows(rows []callRow) {
	width := 0
	for _, r := range rows {
		if n := len(identifier(r.Name)); n > width {
			width = n
		}
	}
	for i := range rows {
		rows[i].Name = fmt.Sprintf("%-*s", width, identifier(rows[i].Name))
	}
}

// identifier makes a JavaScript identifier of an ABAP name.
func identifier(name string) string {
	if strings.ContainsAny(name, "/-") {
		return `"` + name + `"`
	}
	return name
}
