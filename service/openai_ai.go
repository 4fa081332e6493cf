package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docbricks-be/store"
	"github.com/tieubaoca/docbricks-be/types"
)

const documentSystemPrompt = "You are a document assistant. Answer questions using only the document content below. If the document does not contain the answer, say so instead of guessing.\n\nDocument content:\n%s"

type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) (*OpenAIService, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // point this at a local LLM server if needed
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// buildMessages maps the document and conversation history onto the chat
// message sequence: system prompt with document text, then alternating
// user/assistant turns, then the new question.
func (s *OpenAIService) buildMessages(document, question string, history []store.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(documentSystemPrompt, document),
	})
	for _, turn := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Question},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.Answer},
		)
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})
}

func (s *OpenAIService) Complete(ctx context.Context, document, question string, history []store.Turn) (string, map[string]any, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(document, question, history),
			Model:    s.model,
		},
	)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, errors.New("no response generated")
	}

	metadata := map[string]any{
		"provider":          "openai",
		"model":             s.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}
	return resp.Choices[0].Message.Content, metadata, nil
}

func (s *OpenAIService) CompleteStream(ctx context.Context, document, question string, history []store.Turn, handler types.StreamHandler) (string, map[string]any, error) {
	stream, err := s.client.CreateChatCompletionStream(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(document, question, history),
			Model:    s.model,
		},
	)
	if err != nil {
		return "", nil, err
	}
	defer stream.Close()

	answer := ""
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		answer += chunk
		handler(chunk)
	}

	metadata := map[string]any{
		"provider": "openai",
		"model":    s.model,
	}
	return answer, metadata, nil
}
