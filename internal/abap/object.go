// Package abap holds the canonical description of a remote function module:
// its parameters, the fields of every structure and table it references and
// the statistics gathered while the description was built.
//
// An Object is produced once per function module by the backend and is
// read-only afterwards; renderers must not modify it.
package abap

import (
	"sort"
	"strings"
)

// Direction of a function module parameter.
type Direction string

const (
	DirImport   Direction = "import"
	DirChanging Direction = "changing"
	DirTables   Direction = "tables"
	DirExport   Direction = "export"
)

// DirectionOrder is the order in which parameter groups are presented.
var DirectionOrder = []Direction{DirImport, DirChanging, DirTables, DirExport}

// ParseDirection accepts "import", "RFC_IMPORT", "I" and the like.
func ParseDirection(raw string) (Direction, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "RFC_")
	switch s {
	case "IMPORT", "I":
		return DirImport, true
	case "EXPORT", "E":
		return DirExport, true
	case "CHANGING", "C":
		return DirChanging, true
	case "TABLES", "T":
		return DirTables, true
	}
	return "", false
}

// Kind tells scalar parameters from structures and tables.
type Kind string

const (
	Scalar    Kind = "scalar"
	Structure Kind = "structure"
	Table     Kind = "table"
)

// Parameter describes one function module parameter.
type Parameter struct {
	Name      string    `yaml:"name" json:"name"`
	Direction Direction `yaml:"direction" json:"direction"`
	Kind      Kind      `yaml:"kind" json:"kind"`
	Type      Type      `yaml:"type" json:"type"`
	TypeName  string    `yaml:"typename,omitempty" json:"typename,omitempty"`
	Length    int       `yaml:"length,omitempty" json:"length,omitempty"`
	Decimals  int       `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Optional  bool      `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default   string    `yaml:"default,omitempty" json:"default,omitempty"`
	Text      string    `yaml:"text,omitempty" json:"text,omitempty"`

	// Position is the index at which the backend reported the parameter.
	Position int `yaml:"-" json:"-"`
}

// Field describes one component of a structure or table line.
type Field struct {
	Name     string `yaml:"name" json:"name"`
	Type     Type   `yaml:"type" json:"type"`
	TypeName string `yaml:"typename,omitempty" json:"typename,omitempty"`
	Length   int    `yaml:"length,omitempty" json:"length,omitempty"`
	Decimals int    `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Text     string `yaml:"text,omitempty" json:"text,omitempty"`
}

// Stat is informational data collected while building an Object.
type Stat struct {
	Language   string   `yaml:"language" json:"language"`
	Parameters int      `yaml:"parameters" json:"parameters"`
	Structures int      `yaml:"structures" json:"structures"`
	Tables     int      `yaml:"tables" json:"tables"`
	Fields     int      `yaml:"fields" json:"fields"`
	Unknown    int      `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	Warnings   []string `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Warn records a recoverable anomaly.
func (s *Stat) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Object is the canonical model of one remote function module.
type Object struct {
	Name       string
	Text       string
	Parameters map[string]Parameter
	// Fields is keyed by the dictionary name of the structure or table line
	// type; the slice order is either backend order or sorted by field name.
	Fields map[string][]Field
	Stat   Stat
}

// NewObject returns an empty Object named name.
func NewObject(name string) *Object {
	return &Object{
		Name:       name,
		Parameters: map[string]Parameter{},
		Fields:     map[string][]Field{},
	}
}

// ParameterList returns all parameters in backend order.
func (o *Object) ParameterList() []Parameter {
	out := make([]Parameter, 0, len(o.Parameters))
	for _, p := range o.Parameters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ParametersOf returns the parameters with direction d in backend order.
func (o *Object) ParametersOf(d Direction) []Parameter {
	var out []Parameter
	for _, p := range o.ParameterList() {
		if p.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// FieldKeys returns the keys of Fields in lexicographic order.
func (o *Object) FieldKeys() []string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
