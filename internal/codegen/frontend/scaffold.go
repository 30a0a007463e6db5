package frontend

import (
	"bytes"
	"fmt"
	"html"
	"path"
	"strconv"
	"strings"
	"text/template"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/uiconfig"
)

// element is what element and file templates see of a parameter or field.
type element struct {
	Name string
	// Key is Name usable as a TypeScript property key.
	Key       string
	ID        string
	Path      string
	ModelPath string
	Label     string
	Type      abap.Type
	Length    int
	Decimals  int
	Required  bool
	Direction abap.Direction
	Fields    []element
	// Markup is the rendered element template.
	Markup string
	// Initial is a JSON literal holding the empty value.
	Initial string
	// TSType is the TypeScript type of the value.
	TSType string
}

type viewData struct {
	Name       string
	FileBase   string
	Pascal     string
	Camel      string
	Text       string
	Language   string
	Parameters []element
}

var scaffoldFuncs = template.FuncMap{
	"esc":    html.EscapeString,
	"bind":   func(s string) string { return "{" + s + "}" },
	"interp": func(s string) string { return "{{ " + s + " }}" },
	"indent": indent,
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

type scaffolder struct {
	obj        *abap.Object
	cfg        *uiconfig.Config
	sortFields bool
	elements   map[string]*template.Template
}

func renderScaffold(obj *abap.Object, req Request, cfg *uiconfig.Config) ([]Artifact, error) {
	s := &scaffolder{
		obj:        obj,
		cfg:        cfg,
		sortFields: req.SortFields,
		elements:   map[string]*template.Template{},
	}
	for name, src := range cfg.Layout.Elements {
		t, err := template.New(name).Funcs(scaffoldFuncs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%s element %q: %w", cfg.Framework, name, err)
		}
		s.elements[name] = t
	}

	text := obj.Text
	if text == "" {
		text = obj.Name
	}
	data := viewData{
		Name:     obj.Name,
		FileBase: common.ToKebabCase(obj.Name),
		Pascal:   common.ToPascalCase(obj.Name),
		Camel:    common.ToCamelCase(obj.Name),
		Text:     text,
		Language: req.Language,
	}
	for _, dir := range abap.DirectionOrder {
		for _, p := range obj.ParametersOf(dir) {
			required := !p.Optional && (dir == abap.DirImport || dir == abap.DirChanging)
			el, err := s.build([]string{p.Name}, p.Type, p.TypeName, p.Length, p.Decimals, p.Text, required, dir, map[string]bool{})
			if err != nil {
				return nil, err
			}
			data.Parameters = append(data.Parameters, el)
		}
	}

	var out []Artifact
	for i, fspec := range cfg.Layout.Files {
		name, err := execute(fmt.Sprintf("file[%d].name", i), fspec.Name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Framework, err)
		}
		body, err := execute(name, fspec.Template, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Framework, err)
		}
		a := Artifact{
			Path: path.Join(cfg.Framework, strings.TrimSpace(name)),
			Body: []byte(body),
		}
		if fspec.Comment != "" {
			a.Header = req.Signature.FileHeader(fspec.Comment)
		}
		out = append(out, a)
	}
	return out, nil
}

func execute(name, src string, data any) (string, error) {
	t, err := template.New(name).Funcs(scaffoldFuncs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// build resolves one parameter or field, its nested fields first. visiting
// holds the containers on the current path and stops self-referencing types.
func (s *scaffolder) build(names []string, t abap.Type, typeName string, length, decimals int, text string, required bool, dir abap.Direction, visiting map[string]bool) (element, error) {
	leaf := names[len(names)-1]
	el := element{
		Name:      leaf,
		Key:       identifier(leaf),
		ID:        common.ToCamelCase(strings.Join(names, "_")),
		Path:      "/" + strings.Join(names, "/"),
		ModelPath: "model." + strings.Join(names, "."),
		Label:     text,
		Type:      t,
		Length:    length,
		Decimals:  decimals,
		Required:  required,
		Direction: dir,
	}
	if el.Label == "" {
		el.Label = leaf
	}

	if t.IsContainer() && !visiting[typeName] {
		visiting[typeName] = true
		for _, f := range orderedFields(s.obj, typeName, s.sortFields) {
			child, err := s.build(append(names[:len(names):len(names)], f.Name), f.Type, f.TypeName, f.Length, f.Decimals, f.Text, false, dir, visiting)
			if err != nil {
				return element{}, err
			}
			el.Fields = append(el.Fields, child)
		}
		delete(visiting, typeName)
	}
	el.Initial = initialJSON(el)
	el.TSType = tsType(el)

	elName := s.cfg.Mapping.ElementFor(t, length)
	tmpl, ok := s.elements[elName]
	if !ok {
		return element{}, fmt.Errorf("%w: %s has no element %q for %s", abap.ErrUnknownTarget, s.cfg.Framework, elName, el.Path)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, el); err != nil {
		return element{}, fmt.Errorf("%s element %q for %s: %w", s.cfg.Framework, elName, el.Path, err)
	}
	el.Markup = buf.String()
	return el, nil
}

func initialJSON(el element) string {
	switch el.Type {
	case abap.TypeStructure:
		parts := make([]string, 0, len(el.Fields))
		for _, f := range el.Fields {
			parts = append(parts, strconv.Quote(f.Name)+": "+f.Initial)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case abap.TypeTable:
		return "[]"
	case abap.TypeInt, abap.TypeInt1, abap.TypeInt2, abap.TypeFloat:
		return "0"
	}
	return `""`
}

func tsType(el element) string {
	switch el.Type {
	case abap.TypeStructure, abap.TypeTable:
		parts := make([]string, 0, len(el.Fields))
		for _, f := range el.Fields {
			parts = append(parts, f.Key+": "+f.TSType)
		}
		obj := "{ " + strings.Join(parts, "; ") + " }"
		if len(parts) == 0 {
			obj = "Record<string, unknown>"
		}
		if el.Type == abap.TypeTable {
			return "Array<" + obj + ">"
		}
		return obj
	case abap.TypeInt, abap.TypeInt1, abap.TypeInt2, abap.TypeFloat:
		return "number"
	case abap.TypeByte, abap.TypeXString:
		return "Uint8Array"
	}
	return "string"
}
