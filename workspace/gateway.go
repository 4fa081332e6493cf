package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ExportAttempt records one strategy tried during a fetch. Diagnostics only,
// never persisted.
type ExportAttempt struct {
	Strategy string `json:"strategy"`
	Outcome  string `json:"outcome"`
}

// QueryResult is the structured outcome of a SQL statement execution.
type QueryResult struct {
	Success     bool             `json:"success"`
	Rows        []map[string]any `json:"rows,omitempty"`
	StatementID string           `json:"statement_id,omitempty"`
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// exportFormats is the fixed fallback order for the export cascade.
var exportFormats = []ExportFormat{FormatSource, FormatHTML, FormatJupyter}

// Gateway performs file and query operations against the remote workspace,
// reconciling the inconsistent encodings its export surface produces. It is
// stateless given its client handles.
type Gateway struct {
	api  API
	rest *RestClient
	log  zerolog.Logger
}

func NewGateway(api API, rest *RestClient, log zerolog.Logger) *Gateway {
	return &Gateway{api: api, rest: rest, log: log}
}

// TestConnection verifies the workspace is reachable with a current-user lookup.
func (g *Gateway) TestConnection(ctx context.Context) (string, error) {
	user, err := g.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("connection test failed: %w", err)
	}
	return user, nil
}

// Upload encodes content and imports it at path with automatic format
// detection. The file is created or overwritten at path.
func (g *Gateway) Upload(ctx context.Context, content []byte, path string, overwrite bool) error {
	if err := g.api.Import(ctx, path, Encode(content), overwrite); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", path, err)
	}
	g.log.Info().Str("path", path).Int("bytes", len(content)).Msg("uploaded file to workspace")
	return nil
}

// CreateNotebook imports notebook source next to an uploaded document.
func (g *Gateway) CreateNotebook(ctx context.Context, path, source string, overwrite bool) error {
	if err := g.api.Import(ctx, path, Encode([]byte(source)), overwrite); err != nil {
		return fmt.Errorf("failed to create notebook at %s: %w", path, err)
	}
	return nil
}

// exportStrategy is one way of getting bytes out of the workspace.
type exportStrategy struct {
	name string
	run  func(ctx context.Context) ([]byte, Encoding, error)
}

// Export fetches the file at path, working through an ordered list of
// strategies and normalizing whatever comes back to raw bytes. A nil result
// with the exhausted attempt log means "no content available" and is a
// normal outcome, not a fault; transport errors degrade into the next
// strategy instead of surfacing.
func (g *Gateway) Export(ctx context.Context, path string) ([]byte, []ExportAttempt) {
	strategies := g.exportStrategies(path)
	attempts := make([]ExportAttempt, 0, len(strategies))

	for _, s := range strategies {
		payload, hint, err := s.run(ctx)
		if err != nil {
			attempts = append(attempts, ExportAttempt{Strategy: s.name, Outcome: "error: " + err.Error()})
			continue
		}
		if len(payload) == 0 {
			attempts = append(attempts, ExportAttempt{Strategy: s.name, Outcome: "empty"})
			continue
		}
		decoded, encoding := Decode(payload, hint)
		if len(decoded) == 0 {
			attempts = append(attempts, ExportAttempt{Strategy: s.name, Outcome: "empty after decode"})
			continue
		}
		attempts = append(attempts, ExportAttempt{Strategy: s.name, Outcome: "ok"})
		g.log.Debug().
			Str("path", path).
			Str("strategy", s.name).
			Str("encoding", string(encoding)).
			Int("bytes", len(decoded)).
			Interface("attempts", attempts).
			Msg("exported file from workspace")
		return decoded, attempts
	}

	g.log.Warn().Str("path", path).Interface("attempts", attempts).Msg("no content available for path")
	return nil, attempts
}

func (g *Gateway) exportStrategies(path string) []exportStrategy {
	exportVia := func(format ExportFormat) exportStrategy {
		return exportStrategy{
			name: "export " + string(format),
			run: func(ctx context.Context) ([]byte, Encoding, error) {
				payload, err := g.api.Export(ctx, path, format)
				// the content field arrives string-typed
				return payload, EncodingText, err
			},
		}
	}

	var strategies []exportStrategy
	// raw source first for PDFs, then the full cascade (the repeated SOURCE
	// attempt mirrors the remote API's own inconsistency handling and shows
	// up in the attempt log)
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		strategies = append(strategies, exportVia(FormatSource))
	}
	for _, format := range exportFormats {
		strategies = append(strategies, exportVia(format))
	}

	strategies = append(strategies, exportStrategy{
		name: "direct download",
		run: func(ctx context.Context) ([]byte, Encoding, error) {
			payload, err := g.api.Download(ctx, path)
			return payload, EncodingBinary, err
		},
	})

	if g.rest != nil {
		for _, format := range []ExportFormat{FormatSource, FormatAuto} {
			format := format
			strategies = append(strategies, exportStrategy{
				name: "rest export " + string(format),
				run: func(ctx context.Context) ([]byte, Encoding, error) {
					// the REST client base64-decodes the content field itself
					payload, err := g.rest.ExportContent(ctx, path, format)
					return payload, EncodingBinary, err
				},
			})
		}
	}

	return strategies
}

// List enumerates directory entries at path. A failed listing comes back as
// an empty slice; callers cannot tell it apart from a truly empty directory.
func (g *Gateway) List(ctx context.Context, path string) []ObjectInfo {
	infos, err := g.api.List(ctx, path)
	if err != nil {
		g.log.Error().Str("path", path).Err(err).Msg("failed to list workspace path")
		return []ObjectInfo{}
	}
	return infos
}

// ExecuteQuery runs a SQL statement on a warehouse, auto-selecting the first
// available one when no id is given, and maps result rows into named
// columns. Failures come back as data, never as a raised error.
func (g *Gateway) ExecuteQuery(ctx context.Context, statement, warehouseID string) QueryResult {
	if warehouseID == "" {
		warehouses, err := g.api.ListWarehouses(ctx)
		if err != nil {
			return QueryResult{Error: fmt.Sprintf("failed to list warehouses: %v", err)}
		}
		if len(warehouses) == 0 {
			return QueryResult{Error: "no SQL warehouses available"}
		}
		warehouseID = warehouses[0].ID
		g.log.Info().Str("warehouse_id", warehouseID).Msg("using default warehouse")
	}

	result, err := g.api.ExecuteStatement(ctx, warehouseID, statement)
	if err != nil {
		return QueryResult{WarehouseID: warehouseID, Error: err.Error()}
	}

	if result.State != "SUCCEEDED" {
		msg := fmt.Sprintf("query failed with state: %s", result.State)
		if result.ErrorMessage != "" {
			msg += ", error: " + result.ErrorMessage
		}
		return QueryResult{
			StatementID: result.StatementID,
			WarehouseID: warehouseID,
			Error:       msg,
		}
	}

	columns := result.SchemaColumns
	if len(columns) == 0 {
		columns = result.ManifestColumns
	}

	rows := make([]map[string]any, 0, len(result.DataArray))
	for _, row := range result.DataArray {
		mapped := make(map[string]any, len(row))
		for i, value := range row {
			name := fmt.Sprintf("col_%d", i)
			if i < len(columns) {
				name = columns[i]
			}
			mapped[name] = value
		}
		rows = append(rows, mapped)
	}

	g.log.Info().Str("statement_id", result.StatementID).Int("rows", len(rows)).Msg("query executed")
	return QueryResult{
		Success:     true,
		Rows:        rows,
		StatementID: result.StatementID,
		WarehouseID: warehouseID,
	}
}
