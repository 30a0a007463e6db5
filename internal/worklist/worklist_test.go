package worklist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/worklist"
)

func TestNamesNormalized(t *testing.T) {
	w, err := worklist.Build(nil, []string{"bapi_test", "BAPI_TEST", " Bapi_Test ", "rfc_ping", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{worklist.AdHoc}, w.Keys())
	assert.Equal(t, []string{"BAPI_TEST", "RFC_PING"}, w.Names(worklist.AdHoc))
	assert.Equal(t, 2, w.Len())
}

func TestEmptyBuild(t *testing.T) {
	w, err := worklist.Build(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, w.Keys())
	assert.Empty(t, w.Entries())
}

func TestCatalogPath(t *testing.T) {
	assert.Equal(t, "sales.yaml", worklist.CatalogPath("sales"))
	assert.Equal(t, "sales.YAML", worklist.CatalogPath("sales.YAML"))
	assert.Equal(t, "sales.yml", worklist.CatalogPath("sales.yml"))
	assert.Equal(t, "sales.toml", worklist.CatalogPath("sales.toml"))
	assert.Equal(t, "v1.2.yaml", worklist.CatalogPath("v1.2"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCatalogFormats(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "sales.yaml", "orders:\n  - bapi_salesorder_getlist\n  - BAPI_SALESORDER_GETLIST\ncustomers:\n  - bapi_customer_getdetail2\n")
	jsonPath := writeFile(t, dir, "hr.json", `{"zeta": ["bapi_employee_getdata"], "alpha": ["rfc_read_table"]}`)
	tomlPath := writeFile(t, dir, "mm.toml", "zmaterial = [\"bapi_material_getall\"]\namaterial = [\"bapi_material_savedata\"]\n")

	tests := []struct {
		path     string
		wantKeys []string
		first    []string
	}{
		{yamlPath, []string{"orders", "customers"}, []string{"BAPI_SALESORDER_GETLIST"}},
		{jsonPath, []string{"zeta", "alpha"}, []string{"BAPI_EMPLOYEE_GETDATA"}},
		{tomlPath, []string{"zmaterial", "amaterial"}, []string{"BAPI_MATERIAL_GETALL"}},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			w, err := worklist.LoadCatalog(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, w.Keys())
			assert.Equal(t, tt.first, w.Names(tt.wantKeys[0]))
		})
	}
}

func TestLoadCatalogWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fi.yaml", "gl:\n  - bapi_acc_document_post\n")

	w, err := worklist.LoadCatalog(filepath.Join(dir, "fi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BAPI_ACC_DOCUMENT_POST"}, w.Names("gl"))
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "list.yaml", "- just\n- a list\n")
	nested := writeFile(t, dir, "nested.yaml", "key:\n  inner: value\n")
	badJSON := writeFile(t, dir, "bad.json", `["no", "object"]`)
	badTOML := writeFile(t, dir, "bad.toml", "key = 1\n")

	for _, p := range []string{list, nested, badJSON, badTOML, filepath.Join(dir, "missing")} {
		_, err := worklist.LoadCatalog(p)
		assert.ErrorIs(t, err, abap.ErrMalformedCatalog, p)
	}
}

func TestBuildMergesCatalogsThenAdHoc(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "first:\n  - one\nshared:\n  - old\n")
	b := writeFile(t, dir, "b.yaml", "shared:\n  - new\n")

	w, err := worklist.Build([]string{a, b}, []string{"direct"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "shared", worklist.AdHoc}, w.Keys())
	assert.Equal(t, []string{"NEW"}, w.Names("shared"))

	entries := w.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, worklist.Entry{Catalog: "", Name: "DIRECT"}, entries[2])
}
