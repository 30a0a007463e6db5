// Package worklist collects the function module names a run processes,
// grouped by the catalog they came from.
package worklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alia5/abap-api-tools/internal/abap"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// AdHoc is the catalog key of names given directly on the command line.
const AdHoc = ""

// Worklist maps catalog keys to ordered, duplicate-free sets of upper-cased
// names. Keys keep their insertion order.
type Worklist struct {
	keys  []string
	names map[string][]string
}

// New returns an empty Worklist.
func New() *Worklist {
	return &Worklist{names: map[string][]string{}}
}

// Set replaces the names under key.
func (w *Worklist) Set(key string, names []string) {
	if _, ok := w.names[key]; !ok {
		w.keys = append(w.keys, key)
	}
	w.names[key] = normalize(names)
}

// Merge copies every key of other into w, replacing existing keys.
func (w *Worklist) Merge(other *Worklist) {
	for _, k := range other.keys {
		w.Set(k, other.names[k])
	}
}

// Keys returns the catalog keys in insertion order.
func (w *Worklist) Keys() []string {
	return append([]string(nil), w.keys...)
}

// Names returns the names under key.
func (w *Worklist) Names(key string) []string {
	return append([]string(nil), w.names[key]...)
}

// Len is the number of names across all keys.
func (w *Worklist) Len() int {
	n := 0
	for _, names := range w.names {
		n += len(names)
	}
	return n
}

// Entry is one name of a worklist together with its catalog key.
type Entry struct {
	Catalog string
	Name    string
}

// Entries flattens w in processing order.
func (w *Worklist) Entries() []Entry {
	var out []Entry
	for _, k := range w.keys {
		for _, n := range w.names[k] {
			out = append(out, Entry{Catalog: k, Name: n})
		}
	}
	return out
}

func normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Build assembles a worklist from catalog files followed by direct names,
// which form the AdHoc key.
func Build(catalogs []string, names []string) (*Worklist, error) {
	w := New()
	for _, c := range catalogs {
		cw, err := LoadCatalog(c)
		if err != nil {
			return nil, err
		}
		w.Merge(cw)
	}
	if len(names) > 0 {
		w.Set(AdHoc, names)
	}
	return w, nil
}

var catalogExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// CatalogPath appends ".yaml" to names without a known catalog extension.
func CatalogPath(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range catalogExtensions {
		if ext == e {
			return name
		}
	}
	return name + ".yaml"
}

// LoadCatalog reads a catalog file: a mapping of catalog keys to lists of
// names, in YAML, TOML or JSON.
func LoadCatalog(name string) (*Worklist, error) {
	path := CatalogPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", abap.ErrMalformedCatalog, path, err)
	}
	w, err := parseCatalog(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", abap.ErrMalformedCatalog, path, err)
	}
	return w, nil
}

func parseCatalog(ext string, data []byte) (*Worklist, error) {
	switch ext {
	case ".yaml", ".yml":
		return parseYAMLCatalog(data)
	case ".json":
		return parseJSONCatalog(data)
	case ".toml":
		return parseTOMLCatalog(data)
	}
	return nil, fmt.Errorf("unsupported catalog format %q", ext)
}

// parseYAMLCatalog walks the node tree so keys keep file order.
func parseYAMLCatalog(data []byte) (*Worklist, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	w := New()
	if len(doc.Content) == 0 {
		return w, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of catalog keys to name lists", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var names []string
		if err := val.Decode(&names); err != nil {
			return nil, fmt.Errorf("line %d: catalog %q: %v", val.Line, key.Value, err)
		}
		w.Set(key.Value, names)
	}
	return w, nil
}

func parseJSONCatalog(data []byte) (*Worklist, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object of catalog keys to name lists")
	}
	w := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var names []string
		if err := dec.Decode(&names); err != nil {
			return nil, fmt.Errorf("catalog %q: %v", key, err)
		}
		w.Set(key, names)
	}
	return w, nil
}

func parseTOMLCatalog(data []byte) (*Worklist, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	w := New()
	// go-toml does not keep key order; sort by position in the document.
	keys := tree.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := tree.GetPositionPath([]string{keys[i]}), tree.GetPositionPath([]string{keys[j]})
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	for _, k := range keys {
		raw, ok := tree.GetPath([]string{k}).([]interface{})
		if !ok {
			return nil, fmt.Errorf("catalog %q: expected an array of names", k)
		}
		names := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("catalog %q: expected string names", k)
			}
			names = append(names, s)
		}
		w.Set(k, names)
	}
	return w, nil
}
