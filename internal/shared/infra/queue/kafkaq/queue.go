// Package kafkaq implementa la cola sobre Kafka. El writer y el reader van
// ligados a un topic en su construcción, por lo que el destino del puerto es
// informativo. El borrado se traduce en commit de offset: un mensaje sin
// commit se re-entrega al reequilibrar o reiniciar el grupo de consumo, que
// es el equivalente aquí del visibility timeout.
package kafkaq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/menulab/internal/shared/infra/queue"
)

type Queue struct {
	writer *kafka.Writer
	reader *kafka.Reader
	log    *zap.Logger

	mu      sync.Mutex
	pending map[string]kafka.Message
}

func NewQueue(writer *kafka.Writer, reader *kafka.Reader, log *zap.Logger) *Queue {
	return &Queue{
		writer:  writer,
		reader:  reader,
		log:     log,
		pending: make(map[string]kafka.Message),
	}
}

func (q *Queue) Send(ctx context.Context, destination string, body []byte) error {
	if err := q.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		return fmt.Errorf("kafka queue send: %w", err)
	}
	return nil
}

func (q *Queue) Receive(ctx context.Context, destination string, maxMessages int, wait time.Duration) ([]queue.ReceivedMessage, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var received []queue.ReceivedMessage
	for len(received) < maxMessages {
		msg, err := q.reader.FetchMessage(fetchCtx)
		if err != nil {
			// Agotar el tiempo de espera no es un fallo: la cola estaba vacía.
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if ctx.Err() != nil {
				return received, ctx.Err()
			}
			return received, fmt.Errorf("kafka queue receive: %w", err)
		}

		handle := fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
		q.mu.Lock()
		q.pending[handle] = msg
		q.mu.Unlock()

		received = append(received, queue.ReceivedMessage{
			ID:            handle,
			Body:          msg.Value,
			ReceiptHandle: handle,
		})
	}
	return received, nil
}

func (q *Queue) Delete(ctx context.Context, destination string, receiptHandle string) error {
	q.mu.Lock()
	msg, ok := q.pending[receiptHandle]
	if ok {
		delete(q.pending, receiptHandle)
	}
	q.mu.Unlock()

	if !ok {
		q.log.Warn("Receipt handle desconocido al hacer commit", zap.String("receipt_handle", receiptHandle))
		return nil
	}

	// El commit de un offset confirma también los anteriores de la misma
	// partición; es la aproximación at-least-once aceptada para Kafka.
	if err := q.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka queue delete: %w", err)
	}
	return nil
}

// Verificación estática
var _ queue.Client = (*Queue)(nil)
