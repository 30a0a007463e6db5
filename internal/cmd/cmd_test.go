package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/configpaths"
	"github.com/Alia5/abap-api-tools/internal/log"
	mocks "github.com/Alia5/abap-api-tools/internal/testing"
)

var sig = common.NewSignature("abap", "0.0.1-dev", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const dump = `name: BAPI_TEST
text: Test function
parameters:
  - name: IMPORT_PARAM
    direction: RFC_IMPORT
    type: RFCTYPE_CHAR
    length: 10
    texts:
      en: Import
      de: Eingabe
`

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		save       bool
		wantOutput string
		wantSave   bool
	}{
		{"no output", "", false, "", false},
		{"save without output", "", true, "./", true},
		{"output implies save", "api", false, "./api", true},
		{"already relative", "./api", false, "./api", true},
		{"absolute", "/tmp/api", false, "/tmp/api", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, save := NormalizeOutput(tt.output, tt.save)
			assert.Equal(t, tt.wantOutput, out)
			assert.Equal(t, tt.wantSave, save)
		})
	}
}

func TestSelectionWorklist(t *testing.T) {
	_, err := Selection{}.worklist()
	assert.Error(t, err)

	wl, err := Selection{Names: []string{"bapi_a", "BAPI_A", "bapi_b"}}.worklist()
	require.NoError(t, err)
	assert.Equal(t, 2, wl.Len())
}

func TestGetThenMake(t *testing.T) {
	t.Setenv("ABAP_CONFIG_DIR", t.TempDir())
	metadata := t.TempDir()
	out := filepath.Join(t.TempDir(), "api")
	mocks.WriteDump(t, metadata, "MME", "BAPI_TEST", ".yaml", dump)

	var raw bytes.Buffer
	get := &Get{
		Dest:      "MME",
		Selection: Selection{Names: []string{"bapi_test"}, Lang: "de"},
		Backend:   Backend{MetadataDir: metadata},
		Output:    out,
	}
	require.NoError(t, get.Run(discard(), log.NewRaw(&raw), sig))
	assert.Contains(t, raw.String(), "BAPI_TEST payload:")

	annotation, err := os.ReadFile(filepath.Join(out, "BAPI_TEST.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(annotation), "# abap 0.0.1-dev at: 2024-05-06 07:08:09")
	assert.Contains(t, string(annotation), "text: Eingabe")

	mk := &Make{
		UI:        "fundamental-ngx",
		Selection: Selection{Names: []string{"BAPI_TEST"}, Lang: "en"},
		Output:    out,
	}
	require.NoError(t, mk.Run(discard(), log.NewRaw(nil), sig))
	_, err = os.Stat(filepath.Join(out, "fundamental-ngx", "bapi-test.component.html"))
	assert.NoError(t, err)
}

func TestCallReportsFailures(t *testing.T) {
	t.Setenv("ABAP_CONFIG_DIR", t.TempDir())
	metadata := t.TempDir()
	out := t.TempDir()
	mocks.WriteDump(t, metadata, "MME", "BAPI_TEST", ".yaml", dump)

	call := &Call{
		Dest:      "MME",
		Selection: Selection{Names: []string{"BAPI_TEST", "Z_MISSING"}, Lang: "en"},
		Backend:   Backend{MetadataDir: metadata},
		Output:    out,
	}
	err := call.Run(discard(), log.NewRaw(nil), sig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 entries failed")
	assert.ErrorIs(t, err, abap.ErrUnknownObject)
	var entry *abap.EntryError
	require.ErrorAs(t, err, &entry)
	assert.Equal(t, "Z_MISSING", entry.Name)

	_, err = os.Stat(filepath.Join(out, "BAPI_TEST.js"))
	assert.NoError(t, err, "the good entry is still written")
}

func TestCallRejectsUnsupportedLanguage(t *testing.T) {
	call := &Call{
		Dest:      "MME",
		Selection: Selection{Names: []string{"BAPI_TEST"}, Lang: "xx"},
		Backend:   Backend{MetadataDir: t.TempDir()},
	}
	err := call.Run(discard(), log.NewRaw(nil), sig)
	assert.ErrorIs(t, err, abap.ErrUnsupportedLanguage)
}

func TestCpRm(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ABAP_CONFIG_DIR", dir)

	require.NoError(t, (&Cp{UI: "ui5"}).Run(discard()))
	assert.FileExists(t, filepath.Join(dir, "ui5-abap.yaml"))
	assert.FileExists(t, filepath.Join(dir, "ui5.yaml"))

	err := (&Cp{UI: "ui5"}).Run(discard())
	var exists *abap.ConfigExistsError
	require.ErrorAs(t, err, &exists)
	assert.Contains(t, err.Error(), "Remove local configuration first")

	require.NoError(t, (&Rm{UI: "ui5"}).Run(discard()))
	assert.NoFileExists(t, filepath.Join(dir, "ui5.yaml"))
	require.NoError(t, (&Rm{UI: "ui5"}).Run(discard()))
}

func TestConfigInit(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "get.json")
	require.NoError(t, (&ConfigInit{Command: "get", Format: "json", Output: dest}).Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "en", m["lang"])
	assert.Equal(t, "api", m["output"])
	assert.Equal(t, false, m["sort-fields"])
	assert.Equal(t, "./metadata", m["metadata-dir"])
	assert.Equal(t, []any{}, m["catalog"])
	assert.NotContains(t, m, "dest")
	assert.NotContains(t, m, "rfm")

	err = (&ConfigInit{Command: "get", Format: "json", Output: dest}).Run()
	assert.ErrorIs(t, err, os.ErrExist)
	assert.ErrorContains(t, err, "use --force to overwrite")
	require.NoError(t, (&ConfigInit{Command: "get", Format: "yaml", Output: dest, Force: true}).Run())

	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lang: en")
}

func TestConfigInitDefaultsToConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ABAP_CONFIG_DIR", dir)

	require.NoError(t, (&ConfigInit{Command: "make", Format: "toml"}).Run())
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths("")
	assert.NotEmpty(t, jsonPaths)
	assert.NotEmpty(t, yamlPaths)
	assert.Contains(t, tomlPaths, filepath.Join(dir, "config.toml"))

	err := (&ConfigInit{Command: "make", Format: "toml"}).Run()
	assert.ErrorIs(t, err, os.ErrExist)
}
