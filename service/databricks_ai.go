package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tieubaoca/docbricks-be/store"
)

// DatabricksAIService answers through the workspace's own model serving,
// calling ai_query() on a SQL warehouse. This is the only warehouse access
// the backend needs.
type DatabricksAIService struct {
	workspaces  *WorkspaceManager
	model       string
	warehouseID string
}

func NewDatabricksAIService(workspaces *WorkspaceManager, model, warehouseID string) (*DatabricksAIService, error) {
	if model == "" {
		return nil, errors.New("ai model is required for the databricks provider")
	}
	return &DatabricksAIService{
		workspaces:  workspaces,
		model:       model,
		warehouseID: warehouseID,
	}, nil
}

func (s *DatabricksAIService) buildPrompt(document, question string, history []store.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, documentSystemPrompt, document)
	b.WriteString("\n\n")
	for _, turn := range history {
		b.WriteString("User: " + turn.Question + "\n")
		b.WriteString("Assistant: " + turn.Answer + "\n")
	}
	b.WriteString("User: " + question + "\nAssistant:")
	return b.String()
}

func (s *DatabricksAIService) Complete(ctx context.Context, document, question string, history []store.Turn) (string, map[string]any, error) {
	gateway, err := s.workspaces.Gateway()
	if err != nil {
		return "", nil, err
	}

	prompt := s.buildPrompt(document, question, history)
	statement := fmt.Sprintf(
		"SELECT ai_query('%s', '%s') AS answer",
		sqlEscape(s.model),
		sqlEscape(prompt),
	)

	result := gateway.ExecuteQuery(ctx, statement, s.warehouseID)
	if !result.Success {
		return "", nil, errors.New(result.Error)
	}
	if len(result.Rows) == 0 {
		return "", nil, errors.New("no response generated")
	}

	answer, err := extractAnswer(result.Rows[0])
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]any{
		"provider":     "databricks",
		"model":        s.model,
		"statement_id": result.StatementID,
		"warehouse_id": result.WarehouseID,
	}
	return answer, metadata, nil
}

// extractAnswer pulls the single ai_query column out of a result row, which
// may be named from the schema or carry a generic positional name.
func extractAnswer(row map[string]any) (string, error) {
	for _, key := range []string{"answer", "col_0"} {
		if value, ok := row[key]; ok {
			if text, ok := value.(string); ok {
				return text, nil
			}
		}
	}
	for _, value := range row {
		if text, ok := value.(string); ok {
			return text, nil
		}
	}
	return "", errors.New("no answer column in query result")
}

func sqlEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
