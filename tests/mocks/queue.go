package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/davicafu/menulab/internal/shared/infra/queue"
)

// MockQueueClient simula el cliente de la cola con testify/mock.
type MockQueueClient struct {
	mock.Mock
}

func (m *MockQueueClient) Send(ctx context.Context, destination string, body []byte) error {
	args := m.Called(ctx, destination, body)
	return args.Error(0)
}

func (m *MockQueueClient) Receive(ctx context.Context, destination string, maxMessages int, wait time.Duration) ([]queue.ReceivedMessage, error) {
	args := m.Called(ctx, destination, maxMessages, wait)
	var msgs []queue.ReceivedMessage
	if v := args.Get(0); v != nil {
		msgs = v.([]queue.ReceivedMessage)
	}
	return msgs, args.Error(1)
}

func (m *MockQueueClient) Delete(ctx context.Context, destination string, receiptHandle string) error {
	args := m.Called(ctx, destination, receiptHandle)
	return args.Error(0)
}

// Verificación estática
var _ queue.Client = (*MockQueueClient)(nil)
