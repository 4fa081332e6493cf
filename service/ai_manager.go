package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tieubaoca/docbricks-be/store"
	"github.com/tieubaoca/docbricks-be/types"
)

var ErrAINotConfigured = errors.New("ai provider not configured")

// AISettings selects and parameterizes a completion provider.
type AISettings struct {
	Provider      string
	Model         string
	Endpoint      string
	OpenAIAPIKey  string
	GeminiAPIKeys []string
}

// AIManager holds the active completion provider. Like the workspace
// connection, the provider can be configured (or reconfigured) at runtime;
// until the first successful Configure every completion fails with
// ErrAINotConfigured, reported as data by the orchestrator.
type AIManager struct {
	mu          sync.RWMutex
	current     AIService
	settings    AISettings
	workspaces  *WorkspaceManager
	warehouseID string
	log         zerolog.Logger
}

func NewAIManager(workspaces *WorkspaceManager, warehouseID string, log zerolog.Logger) *AIManager {
	return &AIManager{
		workspaces:  workspaces,
		warehouseID: warehouseID,
		log:         log,
	}
}

// Configure builds a provider from settings and on success swaps it in as
// the active one. A failed configure leaves the previous provider in place.
func (m *AIManager) Configure(settings AISettings) error {
	var svc AIService
	var err error
	switch settings.Provider {
	case "openai":
		svc, err = NewOpenAIService(settings.Endpoint, settings.OpenAIAPIKey, settings.Model)
	case "gemini":
		svc, err = NewGeminiService(settings.GeminiAPIKeys, settings.Model)
	case "databricks":
		svc, err = NewDatabricksAIService(m.workspaces, settings.Model, m.warehouseID)
	default:
		err = fmt.Errorf("unsupported AI provider: %q", settings.Provider)
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = svc
	m.settings = settings
	m.mu.Unlock()

	m.log.Info().Str("provider", settings.Provider).Str("model", settings.Model).Msg("AI provider configured")
	return nil
}

// Settings returns the settings of the active provider.
func (m *AIManager) Settings() AISettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

func (m *AIManager) service() (AIService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrAINotConfigured
	}
	return m.current, nil
}

func (m *AIManager) Complete(ctx context.Context, document, question string, history []store.Turn) (string, map[string]any, error) {
	svc, err := m.service()
	if err != nil {
		return "", nil, err
	}
	return svc.Complete(ctx, document, question, history)
}

// CompleteStream delegates to the active provider's stream support, falling
// back to a single-chunk delivery for providers without it.
func (m *AIManager) CompleteStream(ctx context.Context, document, question string, history []store.Turn, handler types.StreamHandler) (string, map[string]any, error) {
	svc, err := m.service()
	if err != nil {
		return "", nil, err
	}
	if streamer, ok := svc.(StreamCompleter); ok {
		return streamer.CompleteStream(ctx, document, question, history, handler)
	}
	answer, metadata, err := svc.Complete(ctx, document, question, history)
	if err == nil {
		handler(answer)
	}
	return answer, metadata, err
}
