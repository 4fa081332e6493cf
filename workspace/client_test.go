package workspace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestExportContentDecodesPayload(t *testing.T) {
	raw := pdfBytes(500)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2.0/workspace/export", r.URL.Path)
		assert.Equal(t, "/docs/doc.pdf", r.URL.Query().Get("path"))
		assert.Equal(t, "SOURCE", r.URL.Query().Get("format"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]string{
			"content": base64.StdEncoding.EncodeToString(raw),
		})
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "test-token")
	content, err := client.ExportContent(context.Background(), "/docs/doc.pdf", FormatSource)

	require.NoError(t, err)
	assert.Equal(t, raw, content)
}

func TestRestExportContentEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": ""})
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "test-token")
	content, err := client.ExportContent(context.Background(), "/docs/doc.pdf", FormatAuto)

	require.NoError(t, err)
	assert.Nil(t, content)
}

func TestRestExportContentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code":"RESOURCE_DOES_NOT_EXIST"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "test-token")
	_, err := client.ExportContent(context.Background(), "/missing.pdf", FormatSource)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRestExportContentInvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": "not base64 at all!"})
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "test-token")
	_, err := client.ExportContent(context.Background(), "/docs/doc.pdf", FormatSource)

	require.Error(t, err)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "token")
	assert.Error(t, err)

	_, err = NewClient("https://workspace.example.com", "")
	assert.Error(t, err)
}
