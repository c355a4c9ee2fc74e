// Package memoryq implementa la cola en memoria del proceso. Se usa en
// despliegues locales sin Redis ni Kafka y en los tests.
package memoryq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/menulab/internal/shared/infra/queue"
)

const pollStep = 10 * time.Millisecond

type stored struct {
	body     []byte
	deadline time.Time
}

type destination struct {
	ready    [][]byte
	inflight map[string]stored
}

type Queue struct {
	mu           sync.Mutex
	destinations map[string]*destination
	visibility   time.Duration
}

func NewQueue(visibility time.Duration) *Queue {
	return &Queue{
		destinations: make(map[string]*destination),
		visibility:   visibility,
	}
}

func (q *Queue) dest(name string) *destination {
	d, ok := q.destinations[name]
	if !ok {
		d = &destination{inflight: make(map[string]stored)}
		q.destinations[name] = d
	}
	return d
}

func (q *Queue) Send(ctx context.Context, dest string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := q.dest(dest)
	d.ready = append(d.ready, body)
	return nil
}

func (q *Queue) Receive(ctx context.Context, dest string, maxMessages int, wait time.Duration) ([]queue.ReceivedMessage, error) {
	deadline := time.Now().Add(wait)
	for {
		msgs := q.take(dest, maxMessages)
		if len(msgs) > 0 || !time.Now().Before(deadline) {
			return msgs, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollStep):
		}
	}
}

func (q *Queue) take(dest string, maxMessages int) []queue.ReceivedMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	d := q.dest(dest)
	now := time.Now()

	// Mensajes en vuelo con visibilidad expirada: vuelven a estar listos.
	for handle, s := range d.inflight {
		if now.After(s.deadline) {
			d.ready = append(d.ready, s.body)
			delete(d.inflight, handle)
		}
	}

	var msgs []queue.ReceivedMessage
	for len(msgs) < maxMessages && len(d.ready) > 0 {
		body := d.ready[0]
		d.ready = d.ready[1:]

		handle := uuid.NewString()
		d.inflight[handle] = stored{body: body, deadline: now.Add(q.visibility)}
		msgs = append(msgs, queue.ReceivedMessage{ID: handle, Body: body, ReceiptHandle: handle})
	}
	return msgs
}

func (q *Queue) Delete(ctx context.Context, dest string, receiptHandle string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.dest(dest).inflight, receiptHandle)
	return nil
}

// Verificación estática
var _ queue.Client = (*Queue)(nil)
