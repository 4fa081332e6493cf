package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docbricks-be/store"
	"github.com/tieubaoca/docbricks-be/types"
	"github.com/tieubaoca/docbricks-be/workspace"
)

func newTestAIManager(api *stubAPI, warehouseID string) *AIManager {
	manager := NewWorkspaceManager(zerolog.Nop())
	manager.bind(workspace.NewGateway(api, nil, zerolog.Nop()), "https://test.example.com")
	return NewAIManager(manager, warehouseID, zerolog.Nop())
}

func TestAIManagerUnconfigured(t *testing.T) {
	ai := newTestAIManager(&stubAPI{}, "")

	_, _, err := ai.Complete(context.Background(), "doc", "a question?", nil)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestQueryBeforeAIConfigureFailsAsData(t *testing.T) {
	api := &stubAPI{exportPayload: []byte(testDocument)}
	manager := NewWorkspaceManager(zerolog.Nop())
	manager.bind(workspace.NewGateway(api, nil, zerolog.Nop()), "https://test.example.com")
	ai := NewAIManager(manager, "", zerolog.Nop())
	svc := NewQueryService(manager, ai, store.NewMemoryStore(0), NewPDFService(0), zerolog.Nop())

	resp := svc.Query(context.Background(), types.QueryRequest{
		Question: "a question?",
		PDFPath:  "/docs/report.pdf",
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrAINotConfigured.Error(), resp.Error)
}

func TestAIManagerRejectsUnknownProvider(t *testing.T) {
	ai := newTestAIManager(&stubAPI{}, "")

	err := ai.Configure(AISettings{Provider: "llama", Model: "some-model"})
	require.Error(t, err)

	_, _, err = ai.Complete(context.Background(), "doc", "a question?", nil)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestAIManagerConfiguresDatabricksAtRuntime(t *testing.T) {
	api := &stubAPI{
		statement: &workspace.StatementResult{
			State:         "SUCCEEDED",
			SchemaColumns: []string{"answer"},
			DataArray:     [][]string{{"the model answer"}},
		},
	}
	ai := newTestAIManager(api, "wh-1")

	require.NoError(t, ai.Configure(AISettings{Provider: "databricks", Model: "databricks-llama"}))
	assert.Equal(t, "databricks", ai.Settings().Provider)

	answer, metadata, err := ai.Complete(context.Background(), "doc text", "a question?", nil)
	require.NoError(t, err)
	assert.Equal(t, "the model answer", answer)
	assert.Equal(t, "databricks", metadata["provider"])
}

func TestAIManagerFailedConfigureKeepsActiveProvider(t *testing.T) {
	api := &stubAPI{
		statement: &workspace.StatementResult{
			State:         "SUCCEEDED",
			SchemaColumns: []string{"answer"},
			DataArray:     [][]string{{"still answering"}},
		},
	}
	ai := newTestAIManager(api, "wh-1")
	require.NoError(t, ai.Configure(AISettings{Provider: "databricks", Model: "databricks-llama"}))

	// openai without an api key cannot be built; the active provider stays
	err := ai.Configure(AISettings{Provider: "openai", Model: "gpt-4o"})
	require.Error(t, err)
	assert.Equal(t, "databricks", ai.Settings().Provider)

	answer, _, err := ai.Complete(context.Background(), "doc text", "a question?", nil)
	require.NoError(t, err)
	assert.Equal(t, "still answering", answer)
}

func TestAIManagerStreamFallbackForNonStreamingProvider(t *testing.T) {
	api := &stubAPI{
		statement: &workspace.StatementResult{
			State:         "SUCCEEDED",
			SchemaColumns: []string{"answer"},
			DataArray:     [][]string{{"whole answer"}},
		},
	}
	ai := newTestAIManager(api, "wh-1")
	require.NoError(t, ai.Configure(AISettings{Provider: "databricks", Model: "databricks-llama"}))

	var chunks []string
	answer, _, err := ai.CompleteStream(context.Background(), "doc text", "a question?", nil, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)
	assert.Equal(t, "whole answer", answer)
	assert.Equal(t, []string{"whole answer"}, chunks)
}
