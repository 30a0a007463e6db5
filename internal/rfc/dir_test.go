package rfc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

const bapiTestYAML = `name: BAPI_TEST
texts:
  en: Test BAPI
  de: Test-BAPI
parameters:
  - name: IMPORT_PARAM
    direction: RFC_IMPORT
    type: RFCTYPE_CHAR
    length: 10
    texts:
      en: Import parameter
      de: Importparameter
  - name: RETURN
    direction: RFC_EXPORT
    type: RFCTYPE_STRUCTURE
    typename: BAPIRET2
    fields:
      - name: TYPE
        type: RFCTYPE_CHAR
        length: 1
        text: Message type
`

const bapiTestTOML = `name = "BAPI_TOML"

[[parameters]]
name = "QUANTITY"
direction = "import"
type = "P"
length = 7
decimals = 3
`

func writeDump(t *testing.T, root, dest, file, content string) {
	t.Helper()
	dir := filepath.Join(root, dest)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestDirFetcher(t *testing.T) {
	root := t.TempDir()
	writeDump(t, root, "MME", "BAPI_TEST.yaml", bapiTestYAML)
	writeDump(t, root, "MME", "BAPI_TOML.toml", bapiTestTOML)
	writeDump(t, root, "MME", "_COE_RBP.json", `{"parameters":[{"name":"P","direction":"I","type":"STRING"}]}`)

	f := rfc.NewDirFetcher(root)
	ctx := context.Background()

	t.Run("yaml localized", func(t *testing.T) {
		md, err := f.Fetch(ctx, "MME", "BAPI_TEST", "de")
		require.NoError(t, err)
		assert.Equal(t, "Test-BAPI", md.Text)
		require.Len(t, md.Parameters, 2)
		assert.Equal(t, "Importparameter", md.Parameters[0].Text)
		assert.Nil(t, md.Parameters[0].Texts)
		assert.Equal(t, "Message type", md.Parameters[1].Fields[0].Text)
		assert.NotEmpty(t, md.Raw)
	})

	t.Run("missing translation falls back to text", func(t *testing.T) {
		md, err := f.Fetch(ctx, "MME", "BAPI_TEST", "fr")
		require.NoError(t, err)
		assert.Equal(t, "", md.Parameters[0].Text)
		assert.Equal(t, "Message type", md.Parameters[1].Fields[0].Text)
	})

	t.Run("toml", func(t *testing.T) {
		md, err := f.Fetch(ctx, "MME", "bapi_toml", "en")
		require.NoError(t, err)
		require.Len(t, md.Parameters, 1)
		assert.Equal(t, "P", md.Parameters[0].Type)
		assert.Equal(t, 3, md.Parameters[0].Decimals)
	})

	t.Run("json with namespace", func(t *testing.T) {
		md, err := f.Fetch(ctx, "MME", "/COE/RBP", "en")
		require.NoError(t, err)
		assert.Equal(t, "/COE/RBP", md.Name)
	})

	t.Run("unknown object", func(t *testing.T) {
		_, err := f.Fetch(ctx, "MME", "NOPE", "en")
		assert.ErrorIs(t, err, abap.ErrUnknownObject)
	})

	t.Run("unreachable destination", func(t *testing.T) {
		_, err := f.Fetch(ctx, "QAS", "BAPI_TEST", "en")
		assert.ErrorIs(t, err, abap.ErrDestinationUnreachable)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.Fetch(cctx, "MME", "BAPI_TEST", "en")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
