package mocks

import (
	"context"

	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/service"
)

// MockSessionExchanger is a mock implementation of the identity provider client
type MockSessionExchanger struct {
	Sessions     map[string]*auth.ProviderSession
	ExchangeFunc func(ctx context.Context, sessionID string) (*auth.ProviderSession, error)
	Calls        []string
}

// Verify interface compliance
var _ service.SessionExchanger = (*MockSessionExchanger)(nil)

func NewMockSessionExchanger() *MockSessionExchanger {
	return &MockSessionExchanger{Sessions: make(map[string]*auth.ProviderSession)}
}

// Exchange returns the registered session for sessionID, or ErrProviderRejected
func (m *MockSessionExchanger) Exchange(ctx context.Context, sessionID string) (*auth.ProviderSession, error) {
	m.Calls = append(m.Calls, sessionID)
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, sessionID)
	}
	session, ok := m.Sessions[sessionID]
	if !ok {
		return nil, auth.ErrProviderRejected
	}
	c := *session
	return &c, nil
}
