package frontend

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"

	yaml "gopkg.in/yaml.v3"
)

// annotation is the document written by get and read back by make.
type annotation struct {
	Name       string           `yaml:"name"`
	Text       string           `yaml:"text,omitempty"`
	Parameters []abap.Parameter `yaml:"parameters"`
	Fields     []fieldSet       `yaml:"fields,omitempty"`
	Stat       abap.Stat        `yaml:"stat"`
}

type fieldSet struct {
	Name   string       `yaml:"name"`
	Fields []abap.Field `yaml:"fields"`
}

// AnnotationFileName is the artifact path of the annotation of name.
func AnnotationFileName(name string) string {
	return common.FileName(name) + ".yaml"
}

func renderAnnotation(obj *abap.Object, req Request) (Artifact, error) {
	doc := annotation{
		Name:       obj.Name,
		Text:       obj.Text,
		Parameters: obj.ParameterList(),
		Stat:       obj.Stat,
	}
	for _, key := range obj.FieldKeys() {
		doc.Fields = append(doc.Fields, fieldSet{Name: key, Fields: orderedFields(obj, key, req.SortFields)})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return Artifact{}, fmt.Errorf("encode annotation: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Artifact{}, fmt.Errorf("encode annotation: %w", err)
	}
	return Artifact{
		Path:   AnnotationFileName(obj.Name),
		Header: req.Signature.FileHeader("#"),
		Body:   buf.Bytes(),
	}, nil
}

// ParseAnnotation rebuilds an Object from an annotation document.
func ParseAnnotation(data []byte) (*abap.Object, error) {
	var doc annotation
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse annotation: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("parse annotation: missing name")
	}
	obj := abap.NewObject(doc.Name)
	obj.Text = doc.Text
	obj.Stat = doc.Stat
	for i, p := range doc.Parameters {
		p.Position = i
		obj.Parameters[p.Name] = p
	}
	for _, fs := range doc.Fields {
		obj.Fields[fs.Name] = fs.Fields
	}
	return obj, nil
}

// AnnotationPath is where get saves the annotation of name under dir.
func AnnotationPath(dir, name string) string {
	return filepath.Join(dir, AnnotationFileName(name))
}

// LoadAnnotation reads the annotation of name that get saved under dir.
func LoadAnnotation(dir, name string) (*abap.Object, error) {
	path := AnnotationPath(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation of %s (run get first): %w", name, err)
	}
	return ParseAnnotation(data)
}
