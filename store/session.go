package store

import (
	"context"
)

// Turn is one question/answer exchange in a conversation. Turns are
// immutable once appended and keep their insertion order.
type Turn struct {
	Question  string         `json:"question" bson:"question"`
	Answer    string         `json:"answer" bson:"answer"`
	CreatedAt int64          `json:"created_at" bson:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// SessionStore owns all conversation history, keyed by an opaque
// conversation id. Conversations come into existence on first append; a
// conversation id is the sole key, so one conversation may span queries over
// several documents.
type SessionStore interface {
	// Append adds a turn to the conversation, creating it if needed.
	Append(ctx context.Context, conversationID string, turn Turn) error
	// History returns the conversation's turns in submission order. An
	// unknown id yields an empty history, not an error.
	History(ctx context.Context, conversationID string) ([]Turn, error)
	// Clear removes a conversation. Clearing an unknown id is a no-op.
	Clear(ctx context.Context, conversationID string) error
}
