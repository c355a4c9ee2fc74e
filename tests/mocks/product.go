package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
)

// MockProductService simula los casos de uso a los que despacha el consumidor.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, p productDomain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id string, p productDomain.Product) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DummyPublisher registra los eventos publicados; con Err simula fallos
// de transporte.
type DummyPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []productDomain.Event
}

func (p *DummyPublisher) Publish(ctx context.Context, event productDomain.Event) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// Verificación estática
var _ productDomain.EventPublisher = (*DummyPublisher)(nil)
