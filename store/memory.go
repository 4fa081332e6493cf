package store

import (
	"context"
	"sync"
)

// MemoryStore keeps conversations in process memory. All mutation is
// serialized under one lock so concurrent appends to the same conversation
// cannot interleave or get lost.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[string][]Turn
	maxTurns      int
}

// NewMemoryStore creates an in-memory session store. maxTurns bounds the
// history kept per conversation, oldest turns dropped first; 0 keeps
// conversations unbounded.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]Turn),
		maxTurns:      maxTurns,
	}
}

func (s *MemoryStore) Append(ctx context.Context, conversationID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.conversations[conversationID], turn)
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.conversations[conversationID] = turns
	return nil
}

func (s *MemoryStore) History(ctx context.Context, conversationID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.conversations[conversationID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, conversationID)
	return nil
}
