package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tieubaoca/docbricks-be/workspace"
)

var ErrNotConnected = errors.New("workspace connection not established")

// WorkspaceManager holds the current workspace connection. Handlers share
// one manager instead of process globals; Connect rebinds the gateway for
// every consumer at once.
type WorkspaceManager struct {
	mu      sync.RWMutex
	gateway *workspace.Gateway
	host    string
	log     zerolog.Logger
}

func NewWorkspaceManager(log zerolog.Logger) *WorkspaceManager {
	return &WorkspaceManager{log: log}
}

// Connect builds a fresh client for the given credentials, verifies it, and on
// success swaps it in as the active connection. Returns the connected user.
func (m *WorkspaceManager) Connect(ctx context.Context, host, token string) (string, error) {
	client, err := workspace.NewClient(host, token)
	if err != nil {
		return "", err
	}
	gateway := workspace.NewGateway(client, workspace.NewRestClient(host, token), m.log)

	user, err := gateway.TestConnection(ctx)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.gateway = gateway
	m.host = host
	m.mu.Unlock()

	m.log.Info().Str("host", host).Str("user", user).Msg("connected to workspace")
	return user, nil
}

// Gateway returns the active gateway, or ErrNotConnected before the first
// successful Connect.
func (m *WorkspaceManager) Gateway() (*workspace.Gateway, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.gateway == nil {
		return nil, ErrNotConnected
	}
	return m.gateway, nil
}

func (m *WorkspaceManager) Host() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.host
}

// bind installs an already built gateway, for tests.
func (m *WorkspaceManager) bind(gateway *workspace.Gateway, host string) {
	m.mu.Lock()
	m.gateway = gateway
	m.host = host
	m.mu.Unlock()
}
