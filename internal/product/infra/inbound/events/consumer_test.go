package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
	sharedEvents "github.com/davicafu/menulab/internal/shared/events"
	"github.com/davicafu/menulab/internal/shared/infra/queue"
	"github.com/davicafu/menulab/tests/mocks"
)

const testDestination = "product-events"

func testConfig() Config {
	return Config{
		Destination: testDestination,
		Enabled:     true,
		Interval:    10 * time.Millisecond,
		MaxMessages: 10,
		WaitTime:    time.Second,
	}
}

func rawCreated(t *testing.T, messageID, productID string) queue.ReceivedMessage {
	t.Helper()
	name := "Paella"
	category := "Principales"
	description := "De marisco"
	price := decimal.NewFromFloat(14.50)
	cookingTime := 35
	body, err := json.Marshal(sharedEvents.Message{
		MessageID:   messageID,
		EventType:   sharedEvents.TypeProductCreated,
		Timestamp:   time.Now().UTC(),
		ProductID:   productID,
		Name:        &name,
		Category:    &category,
		Description: &description,
		Price:       &price,
		CookingTime: &cookingTime,
	})
	if err != nil {
		t.Fatalf("marshal test message: %v", err)
	}
	return queue.ReceivedMessage{ID: messageID, Body: body, ReceiptHandle: "rh-" + messageID}
}

func TestPoll_PollingDisabled(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	cfg := testConfig()
	cfg.Enabled = false
	consumer := NewConsumer(client, service, cfg, zap.NewNop())

	// ACT
	consumer.Poll(context.Background())

	// ✅ Desactivado: ninguna interacción con la cola.
	client.AssertNotCalled(t, "Receive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	service.AssertExpectations(t)
}

func TestPoll_EmptyResult(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).Return(nil, nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestPoll_ReceiveError(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return(nil, errors.New("queue unreachable")).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	// El ciclo se aborta sin consumir nada; el siguiente tick reintenta.
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoll_SuccessfulDispatch_DeletesMessage(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	raw := rawCreated(t, "msg-1", "prod-1")
	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return([]queue.ReceivedMessage{raw}, nil).Once()
	service.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p productDomain.Product) bool {
		return p.ID == "prod-1" && p.Name == "Paella" && p.CookingTime == 35 &&
			p.Price.Equal(decimal.NewFromFloat(14.50))
	})).Return(nil).Once()
	// ✅ Un único Delete, con el mismo destino y el mismo receipt handle.
	client.On("Delete", mock.Anything, testDestination, raw.ReceiptHandle).Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	client.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestPoll_UpdateAndDeleteDispatch(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	name := "Gazpacho"
	updatedBody, _ := json.Marshal(sharedEvents.Message{
		MessageID: "msg-upd",
		EventType: sharedEvents.TypeProductUpdated,
		Timestamp: time.Now().UTC(),
		ProductID: "prod-2",
		Name:      &name,
	})
	deletedBody, _ := json.Marshal(sharedEvents.Message{
		MessageID: "msg-del",
		EventType: sharedEvents.TypeProductDeleted,
		Timestamp: time.Now().UTC(),
		ProductID: "prod-3",
	})
	batch := []queue.ReceivedMessage{
		{ID: "msg-upd", Body: updatedBody, ReceiptHandle: "rh-upd"},
		{ID: "msg-del", Body: deletedBody, ReceiptHandle: "rh-del"},
	}

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).Return(batch, nil).Once()
	service.On("UpdateProduct", mock.Anything, "prod-2", mock.MatchedBy(func(p productDomain.Product) bool {
		return p.ID == "prod-2" && p.Name == "Gazpacho"
	})).Return(nil).Once()
	service.On("DeleteProduct", mock.Anything, "prod-3").Return(nil).Once()
	client.On("Delete", mock.Anything, testDestination, "rh-upd").Return(nil).Once()
	client.On("Delete", mock.Anything, testDestination, "rh-del").Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	client.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestPoll_DispatchError_LeavesMessageAndContinues(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	failing := rawCreated(t, "msg-bad", "prod-bad")
	healthy := rawCreated(t, "msg-ok", "prod-ok")

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return([]queue.ReceivedMessage{failing, healthy}, nil).Once()
	service.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p productDomain.Product) bool {
		return p.ID == "prod-bad"
	})).Return(errors.New("downstream failure")).Once()
	service.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p productDomain.Product) bool {
		return p.ID == "prod-ok"
	})).Return(nil).Once()
	client.On("Delete", mock.Anything, testDestination, healthy.ReceiptHandle).Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	// ✅ El mensaje fallido NO se borra; el lote continúa con el resto.
	client.AssertExpectations(t)
	service.AssertExpectations(t)
	client.AssertNotCalled(t, "Delete", mock.Anything, testDestination, failing.ReceiptHandle)
}

func TestPoll_MalformedMessage_LeftForRedelivery(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	malformed := queue.ReceivedMessage{ID: "msg-raw", Body: []byte(`{not json`), ReceiptHandle: "rh-raw"}
	healthy := rawCreated(t, "msg-ok", "prod-ok")

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return([]queue.ReceivedMessage{healthy, malformed}, nil).Once()
	service.On("CreateProduct", mock.Anything, mock.Anything).Return(nil).Once()
	client.On("Delete", mock.Anything, testDestination, healthy.ReceiptHandle).Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	// ✅ Exactamente un create y un delete; el malformado queda en la cola.
	client.AssertExpectations(t)
	service.AssertExpectations(t)
	service.AssertNumberOfCalls(t, "CreateProduct", 1)
	client.AssertNotCalled(t, "Delete", mock.Anything, testDestination, malformed.ReceiptHandle)
}

func TestPoll_UnknownEventType_AckedWithoutDispatch(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	body, _ := json.Marshal(sharedEvents.Message{
		MessageID: "msg-future",
		EventType: "PRODUCT_ARCHIVED",
		Timestamp: time.Now().UTC(),
		ProductID: "prod-7",
	})
	raw := queue.ReceivedMessage{ID: "msg-future", Body: body, ReceiptHandle: "rh-future"}

	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return([]queue.ReceivedMessage{raw}, nil).Once()
	client.On("Delete", mock.Anything, testDestination, raw.ReceiptHandle).Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	// ✅ Sin despacho a ningún caso de uso, pero el mensaje se confirma.
	client.AssertExpectations(t)
	service.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), consumer.UnknownEvents())
}

func TestPoll_DuplicateCreate_TreatedAsHandled(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)

	raw := rawCreated(t, "msg-dup", "prod-dup")
	client.On("Receive", mock.Anything, testDestination, 10, time.Second).
		Return([]queue.ReceivedMessage{raw}, nil).Once()
	service.On("CreateProduct", mock.Anything, mock.Anything).
		Return(productDomain.ErrProductAlreadyExists).Once()
	client.On("Delete", mock.Anything, testDestination, raw.ReceiptHandle).Return(nil).Once()

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())
	consumer.Poll(context.Background())

	// Una reentrega duplicada no debe ciclar: se confirma el mensaje.
	client.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestStart_StopsCleanlyOnContextCancel(t *testing.T) {
	client := new(mocks.MockQueueClient)
	service := new(mocks.MockProductService)
	client.On("Receive", mock.Anything, testDestination, 10, time.Second).Return(nil, nil)

	consumer := NewConsumer(client, service, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el consumidor no se detuvo al cancelar el contexto")
	}
}

// Verificación estática de que los dobles cumplen las interfaces.
var _ ProductService = (*mocks.MockProductService)(nil)
var _ queue.Client = (*mocks.MockQueueClient)(nil)
