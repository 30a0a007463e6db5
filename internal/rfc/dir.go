package rfc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/abap-api-tools/internal/abap"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// DumpExtensions lists the descriptor dump formats DirFetcher reads, in
// lookup order.
var DumpExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// DirFetcher serves descriptor dumps from a directory tree laid out as
// <Root>/<destination>/<NAME>.<ext>.
type DirFetcher struct {
	Root string
}

// NewDirFetcher returns a DirFetcher rooted at root.
func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{Root: root}
}

func (f *DirFetcher) Fetch(ctx context.Context, dest, name, lang string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dest == "" {
		return nil, fmt.Errorf("%w: empty destination", abap.ErrDestinationUnreachable)
	}
	destDir := filepath.Join(f.Root, dest)
	if st, err := os.Stat(destDir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", abap.ErrDestinationUnreachable, dest)
	}

	base := DumpFileName(name)
	for _, ext := range DumpExtensions {
		path := filepath.Join(destDir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		md, err := DecodeMetadata(ext, data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if md.Name == "" {
			md.Name = name
		}
		md.Localize(lang)
		md.Raw = data
		return md, nil
	}
	return nil, fmt.Errorf("%w: %s on %s", abap.ErrUnknownObject, name, dest)
}

// DumpFileName maps a function module name to a file base name; namespace
// slashes are not valid in file names.
func DumpFileName(name string) string {
	return strings.ReplaceAll(strings.ToUpper(name), "/", "_")
}

// DecodeMetadata parses a descriptor dump in the format implied by ext.
func DecodeMetadata(ext string, data []byte) (*Metadata, error) {
	var md Metadata
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&md)
	case ".json":
		err = json.Unmarshal(data, &md)
	case ".toml":
		err = toml.Unmarshal(data, &md)
	default:
		return nil, fmt.Errorf("unsupported dump format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return &md, nil
}
