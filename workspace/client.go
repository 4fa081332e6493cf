package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/databricks/databricks-sdk-go"
	dbsql "github.com/databricks/databricks-sdk-go/service/sql"
	dbworkspace "github.com/databricks/databricks-sdk-go/service/workspace"
)

// ExportFormat names a content encoding the workspace export API understands.
type ExportFormat string

const (
	FormatSource  ExportFormat = "SOURCE"
	FormatHTML    ExportFormat = "HTML"
	FormatJupyter ExportFormat = "JUPYTER"
	FormatAuto    ExportFormat = "AUTO"
)

// statement wait is bounded by the remote API itself, no extra timer here
const statementWaitTimeout = "30s"

// ObjectInfo describes a single workspace directory entry.
type ObjectInfo struct {
	Path       string `json:"path"`
	ObjectType string `json:"object_type"`
	Language   string `json:"language,omitempty"`
}

// Warehouse is a SQL compute endpoint usable for statement execution.
type Warehouse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatementResult is the outcome of a statement execution. Column names can
// show up in two places depending on the remote API version: a schema
// directly on the result, or a schema inside the manifest. Both are kept and
// the gateway decides which to trust.
type StatementResult struct {
	StatementID     string
	State           string
	ErrorMessage    string
	DataArray       [][]string
	SchemaColumns   []string
	ManifestColumns []string
}

// API is the slice of remote workspace capabilities the gateway consumes.
type API interface {
	CurrentUser(ctx context.Context) (string, error)
	Import(ctx context.Context, path, content string, overwrite bool) error
	Export(ctx context.Context, path string, format ExportFormat) ([]byte, error)
	Download(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, path string) ([]ObjectInfo, error)
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	ExecuteStatement(ctx context.Context, warehouseID, statement string) (*StatementResult, error)
}

// Client implements API on top of the Databricks SDK.
type Client struct {
	w    *databricks.WorkspaceClient
	host string
}

func NewClient(host, token string) (*Client, error) {
	if host == "" || token == "" {
		return nil, fmt.Errorf("workspace host and token must be provided")
	}
	w, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:  host,
		Token: token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}
	return &Client{w: w, host: host}, nil
}

func (c *Client) Host() string {
	return c.host
}

func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	me, err := c.w.CurrentUser.Me(ctx)
	if err != nil {
		return "", err
	}
	return me.UserName, nil
}

func (c *Client) Import(ctx context.Context, path, content string, overwrite bool) error {
	return c.w.Workspace.Import(ctx, dbworkspace.Import{
		Path:      path,
		Content:   content,
		Format:    dbworkspace.ImportFormatAuto,
		Overwrite: overwrite,
	})
}

// Export returns the raw content field of the export response. The field is
// string-typed on the wire, so callers decode it with the text hint.
func (c *Client) Export(ctx context.Context, path string, format ExportFormat) ([]byte, error) {
	resp, err := c.w.Workspace.Export(ctx, dbworkspace.ExportRequest{
		Path:   path,
		Format: dbworkspace.ExportFormat(format),
	})
	if err != nil {
		return nil, err
	}
	return []byte(resp.Content), nil
}

func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	r, err := c.w.Workspace.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (c *Client) List(ctx context.Context, path string) ([]ObjectInfo, error) {
	objects, err := c.w.Workspace.ListAll(ctx, dbworkspace.ListWorkspaceRequest{Path: path})
	if err != nil {
		return nil, err
	}
	infos := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		infos = append(infos, ObjectInfo{
			Path:       obj.Path,
			ObjectType: string(obj.ObjectType),
			Language:   string(obj.Language),
		})
	}
	return infos, nil
}

func (c *Client) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	endpoints, err := c.w.Warehouses.ListAll(ctx, dbsql.ListWarehousesRequest{})
	if err != nil {
		return nil, err
	}
	warehouses := make([]Warehouse, 0, len(endpoints))
	for _, e := range endpoints {
		warehouses = append(warehouses, Warehouse{ID: e.Id, Name: e.Name})
	}
	return warehouses, nil
}

func (c *Client) ExecuteStatement(ctx context.Context, warehouseID, statement string) (*StatementResult, error) {
	resp, err := c.w.StatementExecution.ExecuteStatement(ctx, dbsql.ExecuteStatementRequest{
		WarehouseId: warehouseID,
		Statement:   statement,
		WaitTimeout: statementWaitTimeout,
	})
	if err != nil {
		return nil, err
	}

	result := &StatementResult{StatementID: resp.StatementId}
	if resp.Status != nil {
		result.State = string(resp.Status.State)
		if resp.Status.Error != nil {
			result.ErrorMessage = resp.Status.Error.Message
		}
	}
	if resp.Result != nil {
		result.DataArray = resp.Result.DataArray
	}
	// the SDK surfaces the schema through the manifest; older REST shapes put
	// it directly on the result, which the REST fallback would fill instead
	if resp.Manifest != nil && resp.Manifest.Schema != nil {
		for _, col := range resp.Manifest.Schema.Columns {
			result.ManifestColumns = append(result.ManifestColumns, col.Name)
		}
	}
	return result, nil
}

// RestClient issues raw authenticated calls against the workspace REST API.
// It is the last-resort download path for files the export API refuses to
// hand back through the SDK.
type RestClient struct {
	host       string
	token      string
	httpClient *http.Client
}

func NewRestClient(host, token string) *RestClient {
	return &RestClient{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ExportContent fetches /api/2.0/workspace/export directly and returns the
// base64-decoded content field, or nil when the response carries none.
func (c *RestClient) ExportContent(ctx context.Context, path string, format ExportFormat) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/2.0/workspace/export", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("path", path)
	q.Set("format", string(format))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export request returned status %d", resp.StatusCode)
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed export response: %w", err)
	}
	if body.Content == "" {
		return nil, nil
	}
	decoded, ok := tryBase64([]byte(body.Content))
	if !ok {
		return nil, fmt.Errorf("content field is not valid base64")
	}
	return decoded, nil
}
