package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/docbricks-be/store"
	"google.golang.org/api/option"
)

type GeminiService struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("GEMINI_API_KEYS is required for the gemini provider")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKeys[0]))
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		apiKeys:   apiKeys,
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
	}, nil
}

// snapshot returns the active model together with the key index it was built
// from, so a failing request can tell whether rotation already happened.
func (s *GeminiService) snapshot() (*genai.GenerativeModel, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.currentKey
}

// rotateAPIKey swaps in a client on the next key. The swap happens entirely
// under the lock, and the previous client is never closed: requests already
// in flight may still hold it. When failedKey no longer matches the current
// key another request rotated first, so the current model is reused as-is.
func (s *GeminiService) rotateAPIKey(failedKey int) (*genai.GenerativeModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentKey != failedKey {
		return s.model, nil
	}

	next := (s.currentKey + 1) % len(s.apiKeys)
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[next]))
	if err != nil {
		return nil, err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	s.currentKey = next
	return s.model, nil
}

// buildHistory maps the document and prior turns onto the chat history: the
// document goes in as a leading user/model exchange, since the genai chat
// session has no system slot for it.
func (s *GeminiService) buildHistory(document string, history []store.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, 2*len(history)+2)
	contents = append(contents,
		&genai.Content{
			Parts: []genai.Part{genai.Text(fmt.Sprintf(documentSystemPrompt, document))},
			Role:  "user",
		},
		&genai.Content{
			Parts: []genai.Part{genai.Text("Understood. I will answer questions about this document.")},
			Role:  "model",
		},
	)
	for _, turn := range history {
		contents = append(contents,
			&genai.Content{Parts: []genai.Part{genai.Text(turn.Question)}, Role: "user"},
			&genai.Content{Parts: []genai.Part{genai.Text(turn.Answer)}, Role: "model"},
		)
	}
	return contents
}

func (s *GeminiService) Complete(ctx context.Context, document, question string, history []store.Turn) (string, map[string]any, error) {
	model, key := s.snapshot()
	chat := model.StartChat()
	chat.History = s.buildHistory(document, history)

	resp, err := chat.SendMessage(ctx, genai.Text(question))
	if err != nil {
		// Try rotating API key if there's an error
		model, rerr := s.rotateAPIKey(key)
		if rerr != nil {
			return "", nil, rerr
		}
		chat = model.StartChat()
		chat.History = s.buildHistory(document, history)
		resp, err = chat.SendMessage(ctx, genai.Text(question))
		if err != nil {
			return "", nil, err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", nil, errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}

	metadata := map[string]any{
		"provider": "gemini",
		"model":    s.modelName,
	}
	return content, metadata, nil
}
