package transform

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hpn/hpn-transform/internal/adapter"
	"github.com/hpn/hpn-transform/internal/domain"
)

// MockBackend is a mock implementation of adapter.Backend using testify/mock.
type MockBackend struct {
	mock.Mock
	provider domain.ProviderType
	model    string
}

func newMockBackend(provider domain.ProviderType, model string) *MockBackend {
	return &MockBackend{provider: provider, model: model}
}

func (m *MockBackend) Name() domain.ProviderType { return m.provider }

func (m *MockBackend) DefaultModel() string { return m.model }

func (m *MockBackend) Transform(ctx context.Context, prompt, contextText, model string) (string, error) {
	args := m.Called(ctx, prompt, contextText, model)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ListModels(ctx context.Context) []string {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]string)
	}
	return nil
}

// stubFactory hands out pre-built backends, honouring credentials like the real factory.
type stubFactory struct {
	backends map[domain.ProviderType]adapter.Backend
	created  []domain.ProviderType
}

func (f *stubFactory) Create(provider domain.ProviderType, settings domain.Settings) (adapter.Backend, bool) {
	b, ok := f.backends[provider]
	if !ok || !settings.Credentials.Has(provider) {
		return nil, false
	}
	f.created = append(f.created, provider)
	return b, true
}
