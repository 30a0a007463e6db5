// Package generator runs worklists through the object model builder and the
// artifact renderer, one entry at a time, and reports per-entry results.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/backend"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/codegen/sink"
	"github.com/Alia5/abap-api-tools/internal/worklist"
)

type Generator struct {
	builder  *backend.Builder
	renderer *frontend.Renderer
	logger   *slog.Logger
	sink     sink.OutputSink
	stdout   io.Writer
}

type Option func(*Generator)

// WithSink sends every artifact to s regardless of the save flag.
func WithSink(s sink.OutputSink) Option {
	return func(g *Generator) { g.sink = s }
}

// WithStdout sets where unsaved artifacts are printed.
func WithStdout(w io.Writer) Option {
	return func(g *Generator) { g.stdout = w }
}

func New(builder *backend.Builder, renderer *frontend.Renderer, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		builder:  builder,
		renderer: renderer,
		logger:   logger,
		stdout:   os.Stdout,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Run processes every entry of wl with a copy of tmpl naming that entry.
// A non-nil error means the template itself is unusable and nothing was
// attempted; entry failures are only recorded in the report.
func (g *Generator) Run(ctx context.Context, wl *worklist.Worklist, tmpl frontend.Request) (*Report, error) {
	if err := g.renderer.Prepare(&tmpl); err != nil {
		return nil, err
	}
	out := g.outputSink(tmpl)

	report := &Report{}
	entries := wl.Entries()
	g.logger.Info("Processing worklist", "mode", tmpl.Mode, "target", tmpl.Target, "entries", len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		req := tmpl
		req.Name = e.Name

		res := g.process(ctx, out, e, req)
		if res.Err != nil {
			g.logger.Error("Entry failed",
				"catalog", e.Catalog,
				"name", e.Name,
				"kind", res.Kind,
				"error", res.Err)
		} else {
			g.logger.Info("Entry done", "catalog", e.Catalog, "name", e.Name, "artifacts", len(res.Paths))
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (g *Generator) outputSink(tmpl frontend.Request) sink.OutputSink {
	if g.sink != nil {
		return g.sink
	}
	if tmpl.Save {
		return sink.NewFilesystemSink(tmpl.Output)
	}
	return sink.NewStreamSink(g.stdout)
}

func (g *Generator) process(ctx context.Context, out sink.OutputSink, e worklist.Entry, req frontend.Request) Result {
	res := Result{Catalog: e.Catalog, Name: e.Name}
	fail := func(kind abap.ErrorKind, err error) Result {
		res.Status = StatusFailed
		res.Kind = kind
		res.Err = &abap.EntryError{Name: e.Name, Kind: kind, Err: err}
		return res
	}

	obj, err := g.object(ctx, req)
	if err != nil {
		return fail(abap.KindOf(err), err)
	}
	res.Warnings = len(obj.Stat.Warnings)
	for _, w := range obj.Stat.Warnings {
		g.logger.Warn("Metadata anomaly", "name", obj.Name, "warning", w)
	}

	artifacts, err := g.renderer.Render(obj, req)
	if err != nil {
		return fail(abap.KindOf(err), err)
	}

	for _, a := range artifacts {
		if err := out.WriteFile(ctx, a.Path, a.Content()); err != nil {
			return fail(abap.KindFilesystem, fmt.Errorf("write %s: %w", a.Path, err))
		}
		path := a.Path
		if fs, ok := out.(*sink.FilesystemSink); ok {
			path = fs.FullPath(a.Path)
		}
		g.logger.Debug("Artifact written", "name", e.Name, "path", path, "digest", a.Digest())
		res.Paths = append(res.Paths, path)
		res.Digests = append(res.Digests, a.Digest())
	}
	res.Status = StatusOK
	return res
}

// object returns the model of req.Name: built from live metadata for call
// and get, loaded from the annotation saved by get for make.
func (g *Generator) object(ctx context.Context, req frontend.Request) (*abap.Object, error) {
	if req.Mode.NeedsBackend() {
		return g.builder.Build(ctx, req.Name, backend.Options{
			Destination: req.Target,
			Language:    req.Language,
			SortFields:  req.SortFields,
		})
	}
	dir := req.Output
	if dir == "" {
		dir = "."
	}
	return frontend.LoadAnnotation(dir, req.Name)
}

type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Result is the outcome of one worklist entry.
type Result struct {
	Catalog string
	Name    string
	Status  Status
	// Kind and Err are set when Status is StatusFailed.
	Kind     abap.ErrorKind
	Err      error
	Paths    []string
	Digests  []string
	Warnings int
}

// Report lists the results of a run in processing order.
type Report struct {
	Results []Result
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed entries, or returns nil when every
// entry succeeded.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed)+1)
	errs = append(errs, fmt.Errorf("%d of %d entries failed", len(failed), len(r.Results)))
	for _, res := range failed {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}
