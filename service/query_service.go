package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tieubaoca/docbricks-be/store"
	"github.com/tieubaoca/docbricks-be/types"
)

// QueryService threads a question about a workspace document through the AI
// service, keeping per-conversation history. Every failure comes back as a
// structured response; nothing is raised past this boundary and nothing is
// retried.
type QueryService struct {
	workspaces *WorkspaceManager
	ai         AIService
	sessions   store.SessionStore
	pdf        *PDFService
	log        zerolog.Logger
}

func NewQueryService(
	workspaces *WorkspaceManager,
	ai AIService,
	sessions store.SessionStore,
	pdf *PDFService,
	log zerolog.Logger,
) *QueryService {
	return &QueryService{
		workspaces: workspaces,
		ai:         ai,
		sessions:   sessions,
		pdf:        pdf,
		log:        log,
	}
}

func (s *QueryService) Query(ctx context.Context, req types.QueryRequest) types.QueryResponse {
	return s.query(ctx, req, nil)
}

// QueryStream behaves like Query but streams answer chunks through handler
// when the AI service supports it. The final response carries the full
// answer either way.
func (s *QueryService) QueryStream(ctx context.Context, req types.QueryRequest, handler types.StreamHandler) types.QueryResponse {
	return s.query(ctx, req, handler)
}

func (s *QueryService) query(ctx context.Context, req types.QueryRequest, handler types.StreamHandler) types.QueryResponse {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	gateway, err := s.workspaces.Gateway()
	if err != nil {
		return failure(conversationID, err.Error())
	}

	content, attempts := gateway.Export(ctx, req.PDFPath)
	if len(content) == 0 {
		s.log.Warn().
			Str("pdf_path", req.PDFPath).
			Interface("attempts", attempts).
			Msg("document unavailable")
		return failure(conversationID, "document content not found")
	}

	document := s.documentText(ctx, content)

	history, err := s.sessions.History(ctx, conversationID)
	if err != nil {
		return failure(conversationID, err.Error())
	}

	var answer string
	var metadata map[string]any
	if streamer, ok := s.ai.(StreamCompleter); ok && handler != nil {
		answer, metadata, err = streamer.CompleteStream(ctx, document, req.Question, history, handler)
	} else {
		answer, metadata, err = s.ai.Complete(ctx, document, req.Question, history)
		if err == nil && handler != nil {
			handler(answer)
		}
	}
	if err != nil {
		return failure(conversationID, err.Error())
	}

	turn := store.Turn{
		Question:  req.Question,
		Answer:    answer,
		CreatedAt: time.Now().Unix(),
		Metadata:  map[string]any{"pdf_path": req.PDFPath},
	}
	if err := s.sessions.Append(ctx, conversationID, turn); err != nil {
		return failure(conversationID, err.Error())
	}

	return types.QueryResponse{
		Success:        true,
		Answer:         answer,
		ConversationID: conversationID,
		Metadata:       metadata,
	}
}

// documentText converts document bytes to prompt text, degrading to the raw
// bytes as UTF-8 when extraction cannot help (plain-text or HTML exports).
func (s *QueryService) documentText(ctx context.Context, content []byte) string {
	text, err := s.pdf.ExtractText(ctx, content)
	if err == nil {
		return text
	}
	s.log.Debug().Err(err).Msg("text extraction failed, using raw content")

	raw := string(content)
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "")
	}
	return s.pdf.Truncate(raw)
}

func (s *QueryService) History(ctx context.Context, conversationID string) ([]store.Turn, error) {
	return s.sessions.History(ctx, conversationID)
}

func (s *QueryService) ClearHistory(ctx context.Context, conversationID string) error {
	return s.sessions.Clear(ctx, conversationID)
}

func failure(conversationID, message string) types.QueryResponse {
	return types.QueryResponse{
		Success:        false,
		ConversationID: conversationID,
		Error:          message,
	}
}
