// Package rfc is the boundary to the remote backend. A Fetcher returns the
// raw, loosely typed parameter descriptors of one function module; the
// backend package resolves them into the canonical model.
package rfc

import "context"

// Fetcher retrieves raw metadata for a function module.
type Fetcher interface {
	// Fetch returns the descriptors of name on destination dest with texts in
	// lang (an ISO code from abap.Languages).
	Fetch(ctx context.Context, dest, name, lang string) (*Metadata, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, dest, name, lang string) (*Metadata, error)

func (f FetcherFunc) Fetch(ctx context.Context, dest, name, lang string) (*Metadata, error) {
	return f(ctx, dest, name, lang)
}

// Metadata is the raw descriptor payload of one function module.
type Metadata struct {
	Name       string         `yaml:"name" json:"name" toml:"name"`
	Text       string         `yaml:"text,omitempty" json:"text,omitempty" toml:"text"`
	Texts      Texts          `yaml:"texts,omitempty" json:"texts,omitempty" toml:"texts"`
	Parameters []RawParameter `yaml:"parameters" json:"parameters" toml:"parameters"`

	// Raw is the payload as received, for raw logging.
	Raw []byte `yaml:"-" json:"-" toml:"-"`
}

// RawParameter is a parameter as reported by the backend. Type carries any
// of the notations abap.ParseType understands; Fields is set for structures
// and tables.
type RawParameter struct {
	Name      string     `yaml:"name" json:"name" toml:"name"`
	Direction string     `yaml:"direction" json:"direction" toml:"direction"`
	Type      string     `yaml:"type" json:"type" toml:"type"`
	TypeName  string     `yaml:"typename,omitempty" json:"typename,omitempty" toml:"typename"`
	Length    int        `yaml:"length,omitempty" json:"length,omitempty" toml:"length"`
	Decimals  int        `yaml:"decimals,omitempty" json:"decimals,omitempty" toml:"decimals"`
	Optional  bool       `yaml:"optional,omitempty" json:"optional,omitempty" toml:"optional"`
	Default   string     `yaml:"default,omitempty" json:"default,omitempty" toml:"default"`
	Text      string     `yaml:"text,omitempty" json:"text,omitempty" toml:"text"`
	Texts     Texts      `yaml:"texts,omitempty" json:"texts,omitempty" toml:"texts"`
	Fields    []RawField `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields"`
}

// RawField is a structure or table component; nested containers carry
// their own Fields.
type RawField struct {
	Name     string     `yaml:"name" json:"name" toml:"name"`
	Type     string     `yaml:"type" json:"type" toml:"type"`
	TypeName string     `yaml:"typename,omitempty" json:"typename,omitempty" toml:"typename"`
	Length   int        `yaml:"length,omitempty" json:"length,omitempty" toml:"length"`
	Decimals int        `yaml:"decimals,omitempty" json:"decimals,omitempty" toml:"decimals"`
	Text     string     `yaml:"text,omitempty" json:"text,omitempty" toml:"text"`
	Texts    Texts      `yaml:"texts,omitempty" json:"texts,omitempty" toml:"texts"`
	Fields   []RawField `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields"`
}

// Texts holds a label in several languages, keyed by ISO code.
type Texts map[string]string

// Localize replaces every Text in m with its translation into lang where one
// exists and drops the per-language tables.
func (m *Metadata) Localize(lang string) {
	m.Text = m.Texts.pick(lang, m.Text)
	m.Texts = nil
	for i := range m.Parameters {
		p := &m.Parameters[i]
		p.Text = p.Texts.pick(lang, p.Text)
		p.Texts = nil
		localizeFields(p.Fields, lang)
	}
}

func localizeFields(fields []RawField, lang string) {
	for i := range fields {
		f := &fields[i]
		f.Text = f.Texts.pick(lang, f.Text)
		f.Texts = nil
		localizeFields(f.Fields, lang)
	}
}

func (t Texts) pick(lang, fallback string) string {
	if s, ok := t[lang]; ok {
		return s
	}
	return fallback
}
