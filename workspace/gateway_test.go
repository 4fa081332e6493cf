package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	user          string
	userErr       error
	imported      map[string]string
	importErr     error
	exportPayload map[ExportFormat][]byte
	exportErr     map[ExportFormat]error
	exportCalls   []ExportFormat
	downloaded    []byte
	downloadErr   error
	listed        []ObjectInfo
	listErr       error
	warehouses    []Warehouse
	warehousesErr error
	statement     *StatementResult
	statementErr  error
	gotWarehouse  string
	gotStatement  string
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (string, error) {
	return f.user, f.userErr
}

func (f *fakeAPI) Import(ctx context.Context, path, content string, overwrite bool) error {
	if f.importErr != nil {
		return f.importErr
	}
	if f.imported == nil {
		f.imported = make(map[string]string)
	}
	f.imported[path] = content
	return nil
}

func (f *fakeAPI) Export(ctx context.Context, path string, format ExportFormat) ([]byte, error) {
	f.exportCalls = append(f.exportCalls, format)
	if err := f.exportErr[format]; err != nil {
		return nil, err
	}
	return f.exportPayload[format], nil
}

func (f *fakeAPI) Download(ctx context.Context, path string) ([]byte, error) {
	return f.downloaded, f.downloadErr
}

func (f *fakeAPI) List(ctx context.Context, path string) ([]ObjectInfo, error) {
	return f.listed, f.listErr
}

func (f *fakeAPI) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return f.warehouses, f.warehousesErr
}

func (f *fakeAPI) ExecuteStatement(ctx context.Context, warehouseID, statement string) (*StatementResult, error) {
	f.gotWarehouse = warehouseID
	f.gotStatement = statement
	return f.statement, f.statementErr
}

func newTestGateway(api *fakeAPI) *Gateway {
	return NewGateway(api, nil, zerolog.Nop())
}

func TestUploadRoundTripsThroughCodec(t *testing.T) {
	api := &fakeAPI{}
	g := newTestGateway(api)
	raw := pdfBytes(1000)

	require.NoError(t, g.Upload(context.Background(), raw, "/docs/doc.pdf", true))

	stored, ok := api.imported["/docs/doc.pdf"]
	require.True(t, ok)

	decoded, _ := Decode([]byte(stored), EncodingText)
	assert.Equal(t, raw, decoded)
}

func TestExportTriesSourceFirstForPDF(t *testing.T) {
	raw := pdfBytes(1000)
	api := &fakeAPI{
		exportPayload: map[ExportFormat][]byte{
			FormatSource: []byte(Encode(raw)),
		},
	}
	g := newTestGateway(api)

	content, attempts := g.Export(context.Background(), "/docs/doc.pdf")

	assert.Equal(t, raw, content)
	require.NotEmpty(t, api.exportCalls)
	assert.Equal(t, FormatSource, api.exportCalls[0])
	require.Len(t, attempts, 1)
	assert.Equal(t, "ok", attempts[0].Outcome)
}

func TestExportCascadesToLaterFormats(t *testing.T) {
	api := &fakeAPI{
		exportPayload: map[ExportFormat][]byte{
			FormatHTML: []byte("<html>doc text</html>"),
		},
		exportErr: map[ExportFormat]error{
			FormatSource: errors.New("export failed"),
		},
	}
	g := newTestGateway(api)

	content, attempts := g.Export(context.Background(), "/docs/doc.pdf")

	assert.Equal(t, []byte("<html>doc text</html>"), content)
	// pdf extension: SOURCE first, SOURCE again in the cascade, then HTML
	assert.Equal(t, []ExportFormat{FormatSource, FormatSource, FormatHTML}, api.exportCalls)
	require.Len(t, attempts, 3)
	assert.Contains(t, attempts[0].Outcome, "error")
	assert.Equal(t, "ok", attempts[2].Outcome)
}

func TestExportFallsThroughToDirectDownload(t *testing.T) {
	raw := pdfBytes(777)
	api := &fakeAPI{downloaded: raw}
	g := newTestGateway(api)

	content, attempts := g.Export(context.Background(), "/docs/doc.pdf")

	assert.Equal(t, raw, content)
	assert.Equal(t, "direct download", attempts[len(attempts)-1].Strategy)
}

func TestExportExhaustionReturnsNil(t *testing.T) {
	api := &fakeAPI{downloadErr: errors.New("not found")}
	g := newTestGateway(api)

	content, attempts := g.Export(context.Background(), "/docs/doc.pdf")

	assert.Nil(t, content)
	// SOURCE (pdf first try), SOURCE, HTML, JUPYTER, direct download
	assert.Len(t, attempts, 5)
}

func TestExportNonPDFSkipsEarlySourceAttempt(t *testing.T) {
	api := &fakeAPI{downloadErr: errors.New("not found")}
	g := newTestGateway(api)

	_, attempts := g.Export(context.Background(), "/docs/notes.txt")

	assert.Len(t, attempts, 4)
}

func TestListFailureYieldsEmptySlice(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("listing failed")}
	g := newTestGateway(api)

	entries := g.List(context.Background(), "/missing")

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestExecuteQueryAutoSelectsWarehouse(t *testing.T) {
	api := &fakeAPI{
		warehouses: []Warehouse{{ID: "wh-1", Name: "first"}, {ID: "wh-2", Name: "second"}},
		statement: &StatementResult{
			StatementID:     "stmt-1",
			State:           "SUCCEEDED",
			DataArray:       [][]string{{"42", "hello"}},
			ManifestColumns: []string{"id", "greeting"},
		},
	}
	g := newTestGateway(api)

	result := g.ExecuteQuery(context.Background(), "SELECT 1", "")

	require.True(t, result.Success)
	assert.Equal(t, "wh-1", result.WarehouseID)
	assert.Equal(t, "wh-1", api.gotWarehouse)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "42", result.Rows[0]["id"])
	assert.Equal(t, "hello", result.Rows[0]["greeting"])
}

func TestExecuteQueryPrefersDirectSchemaOverManifest(t *testing.T) {
	api := &fakeAPI{
		statement: &StatementResult{
			State:           "SUCCEEDED",
			DataArray:       [][]string{{"1"}},
			SchemaColumns:   []string{"direct"},
			ManifestColumns: []string{"manifest"},
		},
	}
	g := newTestGateway(api)

	result := g.ExecuteQuery(context.Background(), "SELECT 1", "wh-9")

	require.True(t, result.Success)
	assert.Contains(t, result.Rows[0], "direct")
}

func TestExecuteQueryGenericColumnNames(t *testing.T) {
	api := &fakeAPI{
		statement: &StatementResult{
			State:     "SUCCEEDED",
			DataArray: [][]string{{"a", "b"}},
		},
	}
	g := newTestGateway(api)

	result := g.ExecuteQuery(context.Background(), "SELECT 1", "wh-9")

	require.True(t, result.Success)
	assert.Equal(t, "a", result.Rows[0]["col_0"])
	assert.Equal(t, "b", result.Rows[0]["col_1"])
}

func TestExecuteQueryFailedStateCarriesRemoteMessage(t *testing.T) {
	api := &fakeAPI{
		statement: &StatementResult{
			StatementID:  "stmt-2",
			State:        "FAILED",
			ErrorMessage: "table not found",
		},
	}
	g := newTestGateway(api)

	result := g.ExecuteQuery(context.Background(), "SELECT * FROM missing", "wh-9")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "FAILED")
	assert.Contains(t, result.Error, "table not found")
	assert.Equal(t, "stmt-2", result.StatementID)
}

func TestExecuteQueryNoWarehousesAvailable(t *testing.T) {
	api := &fakeAPI{}
	g := newTestGateway(api)

	result := g.ExecuteQuery(context.Background(), "SELECT 1", "")

	assert.False(t, result.Success)
	assert.Equal(t, "no SQL warehouses available", result.Error)
}
