package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

// MockFetcher serves metadata from memory and records what was asked for.
type MockFetcher struct {
	mu      sync.Mutex
	objects map[string]func() *rfc.Metadata
	calls   []string
}

func (m *MockFetcher) Fetch(_ context.Context, dest, name, lang string) (*rfc.Metadata, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	create, ok := m.objects[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", abap.ErrUnknownObject, name, dest)
	}
	md := create()
	md.Localize(lang)
	return md, nil
}

// Calls returns the names fetched so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CreateMockFetcher returns a fetcher knowing the given names, each served
// a fresh copy of create(name). Every other name is an unknown object.
func CreateMockFetcher(t *testing.T, create func(name string) *rfc.Metadata, names ...string) *MockFetcher {
	t.Helper()
	m := &MockFetcher{objects: map[string]func() *rfc.Metadata{}}
	for _, n := range names {
		m.objects[n] = func() *rfc.Metadata { return create(n) }
	}
	return m
}

// WriteDump stores a metadata dump where rfc.DirFetcher looks for it and
// returns its path.
func WriteDump(t *testing.T, root, dest, name, ext, content string) string {
	t.Helper()
	dir := filepath.Join(root, dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create %s: %v", dir, err)
	}
	path := filepath.Join(dir, rfc.DumpFileName(name)+ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
