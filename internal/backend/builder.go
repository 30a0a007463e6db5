// Package backend builds the canonical abap.Object of a function module from
// the raw descriptors a rfc.Fetcher returns.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/log"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

// Options select what Build fetches and how fields are ordered.
type Options struct {
	Destination string
	Language    string
	SortFields  bool
}

// Builder turns raw metadata into abap.Objects. It keeps no state between
// calls.
type Builder struct {
	fetcher rfc.Fetcher
	logger  *slog.Logger
	raw     log.RawLogger
}

// New returns a Builder reading metadata through f. raw may be nil.
func New(f rfc.Fetcher, logger *slog.Logger, raw log.RawLogger) *Builder {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Builder{fetcher: f, logger: logger, raw: raw}
}

// Build fetches the descriptors of name and assembles its abap.Object.
func (b *Builder) Build(ctx context.Context, name string, opts Options) (*abap.Object, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, errors.New("empty object name")
	}
	lang, err := abap.ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("Fetching metadata", "name", name, "dest", opts.Destination, "lang", lang)
	md, err := b.fetcher.Fetch(ctx, opts.Destination, name, lang)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	b.raw.Log(name, md.Raw)

	obj := abap.NewObject(name)
	obj.Text = md.Text
	obj.Stat.Language = lang

	for _, d := range Resolve(md, &obj.Stat) {
		addDescriptor(obj, d)
	}
	if opts.SortFields {
		SortFields(obj)
	}

	b.logger.Debug("Built object",
		"name", name,
		"parameters", obj.Stat.Parameters,
		"fields", obj.Stat.Fields,
		"warnings", len(obj.Stat.Warnings))
	return obj, nil
}

// Resolve turns raw parameters into typed descriptors, recording anomalies in
// stat. It never fails: unrecognized types become abap.TypeUnknown.
func Resolve(md *rfc.Metadata, stat *abap.Stat) []abap.Descriptor {
	out := make([]abap.Descriptor, 0, len(md.Parameters))
	for i, rp := range md.Parameters {
		name := strings.ToUpper(rp.Name)
		dir, ok := abap.ParseDirection(rp.Direction)
		if !ok {
			stat.Warn(fmt.Sprintf("parameter %s: unknown direction %q, assuming import", name, rp.Direction))
			dir = abap.DirImport
		}
		typ := resolveType(stat, name, rp.Type)
		if dir == abap.DirTables {
			typ = abap.TypeTable
		}

		p := abap.Parameter{
			Name:      name,
			Direction: dir,
			Type:      typ,
			TypeName:  strings.ToUpper(rp.TypeName),
			Length:    rp.Length,
			Decimals:  rp.Decimals,
			Optional:  rp.Optional,
			Default:   rp.Default,
			Text:      rp.Text,
			Position:  i,
		}
		if p.Text == "" {
			stat.Warn(fmt.Sprintf("parameter %s: no text", name))
		}

		switch typ {
		case abap.TypeStructure:
			p.Kind = abap.Structure
			p.TypeName = containerKey(stat, p.TypeName, name)
			out = append(out, &abap.StructureDescriptor{Parameter: p, Fields: resolveFields(stat, p.TypeName, rp.Fields)})
		case abap.TypeTable:
			p.Kind = abap.Table
			p.TypeName = containerKey(stat, p.TypeName, name)
			out = append(out, &abap.TableDescriptor{Parameter: p, Fields: resolveFields(stat, p.TypeName, rp.Fields)})
		default:
			p.Kind = abap.Scalar
			out = append(out, &abap.ScalarDescriptor{Parameter: p})
		}
	}
	return out
}

func resolveType(stat *abap.Stat, owner, raw string) abap.Type {
	t, ok := abap.ParseType(raw)
	if !ok {
		stat.Unknown++
		stat.Warn(fmt.Sprintf("%s: unrecognized type %q", owner, raw))
	}
	return t
}

func containerKey(stat *abap.Stat, typeName, fallback string) string {
	if typeName != "" {
		return typeName
	}
	stat.Warn(fmt.Sprintf("%s: container without type name", fallback))
	return fallback
}

func resolveFields(stat *abap.Stat, container string, raw []rfc.RawField) []abap.FieldDescriptor {
	out := make([]abap.FieldDescriptor, 0, len(raw))
	for _, rf := range raw {
		name := strings.ToUpper(rf.Name)
		f := abap.FieldDescriptor{
			Field: abap.Field{
				Name:     name,
				Type:     resolveType(stat, container+"-"+name, rf.Type),
				TypeName: strings.ToUpper(rf.TypeName),
				Length:   rf.Length,
				Decimals: rf.Decimals,
				Text:     rf.Text,
			},
		}
		if f.Type.IsContainer() {
			f.TypeName = containerKey(stat, f.TypeName, container+"-"+name)
			f.Fields = resolveFields(stat, f.TypeName, rf.Fields)
		}
		out = append(out, f)
	}
	return out
}

func addDescriptor(obj *abap.Object, d abap.Descriptor) {
	p := d.Param()
	if _, dup := obj.Parameters[p.Name]; dup {
		obj.Stat.Warn(fmt.Sprintf("parameter %s: duplicate ignored", p.Name))
		return
	}
	obj.Parameters[p.Name] = p
	obj.Stat.Parameters++

	switch d := d.(type) {
	case *abap.StructureDescriptor:
		addContainer(obj, abap.Structure, p.TypeName, d.Fields)
	case *abap.TableDescriptor:
		addContainer(obj, abap.Table, p.TypeName, d.Fields)
	}
}

// addContainer flattens fields into obj.Fields under key. A dictionary type
// referenced more than once is stored once.
func addContainer(obj *abap.Object, kind abap.Kind, key string, fields []abap.FieldDescriptor) {
	if _, seen := obj.Fields[key]; seen {
		return
	}
	flat := make([]abap.Field, 0, len(fields))
	obj.Fields[key] = flat
	if kind == abap.Table {
		obj.Stat.Tables++
	} else {
		obj.Stat.Structures++
	}
	for _, f := range fields {
		flat = append(flat, f.Field)
		obj.Stat.Fields++
		if f.Type.IsContainer() {
			nested := abap.Structure
			if f.Type == abap.TypeTable {
				nested = abap.Table
			}
			addContainer(obj, nested, f.TypeName, f.Fields)
		}
	}
	obj.Fields[key] = flat
}

// SortFields orders every field sequence of obj by field name. The sort is
// stable, so equal names keep their backend order.
func SortFields(obj *abap.Object) {
	for key, fields := range obj.Fields {
		sorted := make([]abap.Field, len(fields))
		copy(sorted, fields)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		obj.Fields[key] = sorted
	}
}
