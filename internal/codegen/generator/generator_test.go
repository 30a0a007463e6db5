package generator_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/backend"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/codegen/generator"
	"github.com/Alia5/abap-api-tools/internal/codegen/sink"
	"github.com/Alia5/abap-api-tools/internal/rfc"
	mocks "github.com/Alia5/abap-api-tools/internal/testing"
	"github.com/Alia5/abap-api-tools/internal/uiconfig"
	"github.com/Alia5/abap-api-tools/internal/worklist"
)

func metadataFor(name string) *rfc.Metadata {
	return &rfc.Metadata{
		Name: name,
		Text: "Function " + name,
		Parameters: []rfc.RawParameter{
			{Name: "IMPORT_PARAM", Direction: "RFC_IMPORT", Type: "RFCTYPE_CHAR", Length: 10,
				Texts: rfc.Texts{"en": "Import", "de": "Eingabe"}},
			{Name: "RETURN", Direction: "RFC_EXPORT", Type: "RFCTYPE_STRUCTURE", TypeName: "BAPIRET2", Text: "Return",
				Fields: []rfc.RawField{
					{Name: "TYPE", Type: "C", Length: 1},
					{Name: "MESSAGE", Type: "C", Length: 220},
					{Name: "ID", Type: "C", Length: 20},
				}},
		},
	}
}

func scalarMetadataFor(name string) *rfc.Metadata {
	md := metadataFor(name)
	md.Parameters = md.Parameters[:1]
	return md
}

type fixture struct {
	fetcher *mocks.MockFetcher
	sink    *sink.MemorySink
	gen     *generator.Generator
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		fetcher: mocks.CreateMockFetcher(t, metadataFor, names...),
		sink:    sink.NewMemorySink(),
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(f.logs, nil))
	b := backend.New(f.fetcher, logger, nil)
	r := frontend.New(uiconfig.NewResolver(t.TempDir()), logger)
	f.gen = generator.New(b, r, logger, generator.WithSink(f.sink))
	return f
}

func template(mode frontend.Mode, target string) frontend.Request {
	return frontend.Request{
		Mode:      mode,
		Target:    target,
		Language:  "en",
		Signature: common.NewSignature("abap", "0.0.1-dev", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
}

func adHoc(names ...string) *worklist.Worklist {
	wl := worklist.New()
	wl.Set(worklist.AdHoc, names)
	return wl
}

func TestRunIsolatesFailures(t *testing.T) {
	f := newFixture(t, "Z_FIRST", "Z_THIRD")

	report, err := f.gen.Run(context.Background(), adHoc("z_first", "z_second", "z_third"), template(frontend.ModeCall, "MME"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Z_FIRST", "Z_SECOND", "Z_THIRD"}, f.fetcher.Calls())
	require.Len(t, report.Results, 3)
	assert.Equal(t, generator.StatusOK, report.Results[0].Status)
	assert.Equal(t, generator.StatusFailed, report.Results[1].Status)
	assert.Equal(t, abap.KindFetch, report.Results[1].Kind)
	assert.ErrorIs(t, report.Results[1].Err, abap.ErrUnknownObject)
	assert.Equal(t, generator.StatusOK, report.Results[2].Status)

	assert.Equal(t, []string{"Z_FIRST.js", "Z_THIRD.js"}, f.sink.Paths())

	require.Len(t, report.Failed(), 1)
	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 entries failed")
	assert.ErrorIs(t, err, abap.ErrUnknownObject)
	assert.Contains(t, f.logs.String(), "Entry failed")
}

func TestRunAnnotationScenario(t *testing.T) {
	f := newFixture(t, "BAPI_TEST")

	report, err := f.gen.Run(context.Background(), adHoc("bapi_test"), template(frontend.ModeGet, "MME"))
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, report.Results, 1)
	require.Len(t, report.Results[0].Digests, 1)

	body := string(f.sink.Get("BAPI_TEST.yaml"))
	assert.True(t, strings.HasPrefix(body, "# abap 0.0.1-dev at: 2024-01-02 03:04:05\n"))
	assert.Contains(t, body, "name: IMPORT_PARAM")
	assert.Contains(t, body, "text: Import")
	assert.Contains(t, body, "language: en")
}

func TestRunAnnotationScalarOnly(t *testing.T) {
	fetcher := mocks.CreateMockFetcher(t, scalarMetadataFor, "BAPI_TEST")
	out := sink.NewMemorySink()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := generator.New(
		backend.New(fetcher, logger, nil),
		frontend.New(uiconfig.NewResolver(t.TempDir()), logger),
		logger,
		generator.WithSink(out),
	)

	report, err := gen.Run(context.Background(), adHoc("bapi_test"), template(frontend.ModeGet, "MME"))
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{"BAPI_TEST.yaml"}, out.Paths())

	body := out.Get("BAPI_TEST.yaml")
	assert.NotContains(t, string(body), "\nfields:")

	obj, err := frontend.ParseAnnotation(body)
	require.NoError(t, err)
	assert.Equal(t, "BAPI_TEST", obj.Name)
	assert.Empty(t, obj.Fields)
	assert.Equal(t, "en", obj.Stat.Language)
	assert.Equal(t, 1, obj.Stat.Parameters)

	params := obj.ParameterList()
	require.Len(t, params, 1)
	assert.Equal(t, "IMPORT_PARAM", params[0].Name)
	assert.Equal(t, "Import", params[0].Text)
}

func TestRunSortedCallTemplates(t *testing.T) {
	f := newFixture(t, "Z_SALES", "Z_HR")
	wl := worklist.New()
	wl.Set("sales", []string{"z_sales"})
	wl.Set("hr", []string{"z_hr"})

	tmpl := template(frontend.ModeCall, "MME")
	tmpl.SortFields = true
	report, err := f.gen.Run(context.Background(), wl, tmpl)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Equal(t, "sales", report.Results[0].Catalog)
	assert.Equal(t, "hr", report.Results[1].Catalog)
	require.Equal(t, []string{"Z_HR.js", "Z_SALES.js"}, f.sink.Paths())
	for _, p := range f.sink.Paths() {
		body := string(f.sink.Get(p))
		id := strings.Index(body, "  ID")
		msg := strings.Index(body, "  MESSAGE")
		typ := strings.Index(body, "  TYPE")
		assert.True(t, id > 0 && id < msg && msg < typ, "%s: fields not sorted", p)
	}
}

func TestRunRejectsBadTemplate(t *testing.T) {
	f := newFixture(t)

	tmpl := template(frontend.ModeGet, "MME")
	tmpl.Language = "klingon"
	_, err := f.gen.Run(context.Background(), adHoc("Z_ANY"), tmpl)
	assert.ErrorIs(t, err, abap.ErrUnsupportedLanguage)

	_, err = f.gen.Run(context.Background(), adHoc("Z_ANY"), template(frontend.ModeMake, "react"))
	assert.ErrorIs(t, err, abap.ErrUnknownTarget)

	assert.Empty(t, f.fetcher.Calls())
}

func TestRunGetThenMake(t *testing.T) {
	out := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := mocks.CreateMockFetcher(t, metadataFor, "BAPI_TEST")
	gen := generator.New(
		backend.New(fetcher, logger, nil),
		frontend.New(uiconfig.NewResolver(t.TempDir()), logger),
		logger,
	)

	get := template(frontend.ModeGet, "MME")
	get.Output = out
	get.Save = true
	report, err := gen.Run(context.Background(), adHoc("BAPI_TEST"), get)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{filepath.Join(out, "BAPI_TEST.yaml")}, report.Results[0].Paths)

	mk := template(frontend.ModeMake, "ui5")
	mk.Output = out
	mk.Save = true
	report, err = gen.Run(context.Background(), adHoc("BAPI_TEST", "Z_NEVER_FETCHED"), mk)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, generator.StatusOK, report.Results[0].Status)
	assert.Equal(t, generator.StatusFailed, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Err.Error(), "run get first")
	assert.Equal(t, []string{"BAPI_TEST"}, fetcher.Calls(), "make does not fetch")

	view, err := os.ReadFile(filepath.Join(out, "ui5", "bapi-test.view.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(view), `value="{/IMPORT_PARAM}"`)
	_, err = os.Stat(filepath.Join(out, "ui5", "bapi-test.model.json"))
	assert.NoError(t, err)
}

func TestRunStreamsWhenNotSaving(t *testing.T) {
	var stdout bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := generator.New(
		backend.New(mocks.CreateMockFetcher(t, metadataFor, "Z_PRINT"), logger, nil),
		frontend.New(uiconfig.NewResolver(t.TempDir()), logger),
		logger,
		generator.WithStdout(&stdout),
	)

	report, err := gen.Run(context.Background(), adHoc("Z_PRINT"), template(frontend.ModeCall, "MME"))
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Contains(t, stdout.String(), `const result = await client.call("Z_PRINT", parameters);`)
	assert.NotContains(t, stdout.String(), "===")
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.gen.Run(ctx, adHoc("Z_A", "Z_B"), template(frontend.ModeCall, "MME"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}
