// Package uiconfig resolves the configuration documents of the supported UI
// frameworks. Every framework has two YAML documents:
//
//   - <ui>-abap.yaml maps ABAP types to UI elements
//   - <ui>.yaml holds the element templates and the files to generate
//
// Bundled defaults are embedded in the binary; copies in the user
// configuration directory take precedence and are managed by Install and
// Remove.
package uiconfig

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/sink"

	yaml "gopkg.in/yaml.v3"
)

//go:embed ui/*.yaml
var bundled embed.FS

// Frameworks lists the supported UI frameworks.
var Frameworks = []string{"ui5", "fundamental-ngx"}

// IsFramework reports whether ui is one of Frameworks.
func IsFramework(ui string) bool {
	for _, f := range Frameworks {
		if f == ui {
			return true
		}
	}
	return false
}

// Location selects where a configuration document is looked up.
type Location int

const (
	Builtin Location = iota
	UserLocal
)

// DocumentNames returns the file names of the documents of ui.
func DocumentNames(ui string) []string {
	return []string{ui + "-abap.yaml", ui + ".yaml"}
}

// Mapping is the <ui>-abap.yaml document.
type Mapping struct {
	// Elements maps abap.Type names to element template names.
	Elements map[string]string `yaml:"elements"`
	// Default is used for types without an entry in Elements.
	Default string `yaml:"default"`
	// Flag is used for CHAR(1) values, the ABAP boolean idiom.
	Flag string `yaml:"flag,omitempty"`
}

// ElementFor returns the element template name for a value of type t with
// the given length.
func (m Mapping) ElementFor(t abap.Type, length int) string {
	if t == abap.TypeChar && length == 1 && m.Flag != "" {
		return m.Flag
	}
	if e, ok := m.Elements[string(t)]; ok {
		return e
	}
	return m.Default
}

// FileSpec describes one generated file. Name and Template are Go
// templates; Comment is the comment opener used for the provenance header,
// empty for formats without comments.
type FileSpec struct {
	Name     string `yaml:"name"`
	Comment  string `yaml:"comment,omitempty"`
	Template string `yaml:"template"`
}

// Layout is the <ui>.yaml document.
type Layout struct {
	Files    []FileSpec        `yaml:"files"`
	Elements map[string]string `yaml:"elements"`
}

// Config is the resolved configuration of one framework.
type Config struct {
	Framework string
	Mapping   Mapping
	Layout    Layout
	// Sources names the file each document was read from.
	Sources []string
}

// Resolver finds and manages configuration documents.
type Resolver struct {
	// UserDir is the user configuration directory.
	UserDir string
	builtin fs.FS
}

// NewResolver returns a Resolver using the embedded defaults and userDir.
func NewResolver(userDir string) *Resolver {
	return &Resolver{UserDir: userDir, builtin: bundled}
}

// Path returns where document doc of ui lives at loc. Builtin paths are
// relative to the embedded filesystem.
func (r *Resolver) Path(doc string, loc Location) string {
	if loc == UserLocal {
		return filepath.Join(r.UserDir, doc)
	}
	return path.Join("ui", doc)
}

// Read returns the content of doc, preferring the user-local copy, and the
// path it was read from.
func (r *Resolver) Read(doc string) ([]byte, string, error) {
	if r.UserDir != "" {
		p := r.Path(doc, UserLocal)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("read %s: %w", p, err)
		}
	}
	p := r.Path(doc, Builtin)
	data, err := fs.ReadFile(r.builtin, p)
	if err != nil {
		return nil, "", fmt.Errorf("read bundled %s: %w", p, err)
	}
	return data, "builtin:" + p, nil
}

// Load resolves and parses the configuration of ui.
func (r *Resolver) Load(ui string) (*Config, error) {
	if !IsFramework(ui) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", abap.ErrUnknownTarget, ui, Frameworks)
	}
	docs := DocumentNames(ui)
	cfg := &Config{Framework: ui}

	data, src, err := r.Read(docs[0])
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(data, &cfg.Mapping); err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	cfg.Sources = append(cfg.Sources, src)

	data, src, err = r.Read(docs[1])
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(data, &cfg.Layout); err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	cfg.Sources = append(cfg.Sources, src)

	if len(cfg.Layout.Files) == 0 {
		return nil, fmt.Errorf("%s: no files configured", src)
	}
	return cfg, nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// Install copies the bundled documents of ui into the user directory. An
// existing document is never replaced: the call fails with a
// *abap.ConfigExistsError and the existing file stays as it is. Documents
// copied before the failure are kept.
func (r *Resolver) Install(ctx context.Context, ui string) ([]string, error) {
	if !IsFramework(ui) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", abap.ErrUnknownTarget, ui, Frameworks)
	}
	if r.UserDir == "" {
		return nil, errors.New("user configuration directory not set")
	}
	out := &sink.FilesystemSink{Root: r.UserDir, Mode: 0o644, Overwrite: false}

	var installed []string
	for _, doc := range DocumentNames(ui) {
		data, err := fs.ReadFile(r.builtin, r.Path(doc, Builtin))
		if err != nil {
			return installed, fmt.Errorf("read bundled %s: %w", doc, err)
		}
		if err := out.WriteFile(ctx, doc, data); err != nil {
			if errors.Is(err, sink.ErrExists) {
				return installed, &abap.ConfigExistsError{Path: r.Path(doc, UserLocal)}
			}
			return installed, err
		}
		installed = append(installed, r.Path(doc, UserLocal))
	}
	return installed, nil
}

// Remove deletes the user-local documents of ui. Missing documents are
// skipped; the removed paths are returned.
func (r *Resolver) Remove(ui string) ([]string, error) {
	if !IsFramework(ui) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", abap.ErrUnknownTarget, ui, Frameworks)
	}
	if r.UserDir == "" {
		return nil, nil
	}
	var removed []string
	for _, doc := range DocumentNames(ui) {
		p := r.Path(doc, UserLocal)
		if err := os.Remove(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}
