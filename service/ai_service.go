package service

import (
	"context"

	"github.com/tieubaoca/docbricks-be/store"
	"github.com/tieubaoca/docbricks-be/types"
)

// AIService answers a question about a document, given the conversation so
// far. Implementations own the history-to-prompt mapping.
type AIService interface {
	Complete(ctx context.Context, document, question string, history []store.Turn) (string, map[string]any, error)
}

// StreamCompleter is implemented by AI services that can stream the answer
// in chunks. The full answer is still returned at the end.
type StreamCompleter interface {
	CompleteStream(ctx context.Context, document, question string, history []store.Turn, handler types.StreamHandler) (string, map[string]any, error)
}
