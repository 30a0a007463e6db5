// Package frontend renders abap.Objects into artifacts: call templates,
// annotation documents and UI scaffolding for the frameworks known to
// package uiconfig.
package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/uiconfig"
)

// Mode selects what Render produces.
type Mode string

const (
	ModeCall Mode = "call"
	ModeGet  Mode = "get"
	ModeMake Mode = "make"
)

// NeedsBackend reports whether m works on live metadata.
func (m Mode) NeedsBackend() bool {
	return m == ModeCall || m == ModeGet
}

// Request carries everything needed to process one worklist name.
type Request struct {
	Name string `validate:"required"`
	Mode Mode   `validate:"required,oneof=call get make"`
	// Target is the destination for call and get, the UI framework for make.
	Target     string `validate:"required"`
	Language   string `validate:"required"`
	Output     string
	Save       bool
	SortFields bool
	Signature  common.Signature
}

// Renderer turns objects into artifacts. It never modifies the objects it
// is given.
type Renderer struct {
	resolver *uiconfig.Resolver
	logger   *slog.Logger
	validate *validator.Validate
}

// New returns a Renderer loading UI configuration through resolver.
func New(resolver *uiconfig.Resolver, logger *slog.Logger) *Renderer {
	return &Renderer{
		resolver: resolver,
		logger:   logger,
		validate: validator.New(),
	}
}

// Validate checks req and normalizes its language.
func (r *Renderer) Validate(req *Request) error {
	if err := r.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid request: %s", strings.Join(msgs, ", "))
		}
		return err
	}
	lang, err := abap.ParseLanguage(req.Language)
	if err != nil {
		return err
	}
	req.Language = lang
	return nil
}

// Prepare checks the parts of a request template shared by every worklist
// entry: mode, target and language, and for make the UI configuration.
// Errors here are configuration errors and concern the whole run.
func (r *Renderer) Prepare(tmpl *Request) error {
	probe := *tmpl
	if probe.Name == "" {
		probe.Name = "-"
	}
	if err := r.Validate(&probe); err != nil {
		return err
	}
	tmpl.Language = probe.Language
	if tmpl.Mode == ModeMake {
		if _, err := r.resolver.Load(tmpl.Target); err != nil {
			return err
		}
	}
	return nil
}

// Render produces the artifacts of obj for req.
func (r *Renderer) Render(obj *abap.Object, req Request) ([]Artifact, error) {
	if err := r.Validate(&req); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("nothing to render")
	}

	r.logger.Debug("Rendering", "name", obj.Name, "mode", req.Mode, "target", req.Target)
	switch req.Mode {
	case ModeCall:
		a, err := renderCall(obj, req)
		if err != nil {
			return nil, err
		}
		return []Artifact{a}, nil
	case ModeGet:
		a, err := renderAnnotation(obj, req)
		if err != nil {
			return nil, err
		}
		return []Artifact{a}, nil
	case ModeMake:
		cfg, err := r.resolver.Load(req.Target)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("UI configuration", "framework", cfg.Framework, "sources", cfg.Sources)
		return renderScaffold(obj, req, cfg)
	}
	return nil, fmt.Errorf("%w: mode %q", abap.ErrUnknownTarget, req.Mode)
}

// orderedFields returns the fields stored under key, sorted by name when
// sortFields is set. The object is left untouched.
func orderedFields(obj *abap.Object, key string, sortFields bool) []abap.Field {
	fields := obj.Fields[key]
	if !sortFields {
		return fields
	}
	out := make([]abap.Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// typeInfo describes a type the way call templates and annotations show it:
// "CHAR (10)", "BCD (9.2)", "STRUCTURE BAPIRET2".
func typeInfo(t abap.Type, typeName string, length, decimals int) string {
	switch {
	case t.IsContainer():
		return strings.TrimSpace(string(t) + " " + typeName)
	case decimals > 0:
		return fmt.Sprintf("%s (%d.%d)", t, length, decimals)
	case length > 0:
		return fmt.Sprintf("%s (%d)", t, length)
	}
	return string(t)
}
