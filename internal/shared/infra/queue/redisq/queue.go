// Package redisq implementa la cola sobre Redis: una lista de mensajes
// listos, un hash con los cuerpos en vuelo y un sorted set cuyo score es
// la fecha límite de visibilidad de cada mensaje entregado.
package redisq

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/menulab/internal/shared/infra/queue"
)

// pollStep es el paso de sondeo con el que se emula el long-poll.
const pollStep = 100 * time.Millisecond

type Queue struct {
	client     *redis.Client
	visibility time.Duration
	log        *zap.Logger
}

func NewQueue(client *redis.Client, visibility time.Duration, log *zap.Logger) *Queue {
	return &Queue{
		client:     client,
		visibility: visibility,
		log:        log,
	}
}

func readyKey(destination string) string {
	return fmt.Sprintf("menulab:queue:%s:ready", destination)
}

func bodiesKey(destination string) string {
	return fmt.Sprintf("menulab:queue:%s:bodies", destination)
}

func inflightKey(destination string) string {
	return fmt.Sprintf("menulab:queue:%s:inflight", destination)
}

func (q *Queue) Send(ctx context.Context, destination string, body []byte) error {
	if err := q.client.RPush(ctx, readyKey(destination), body).Err(); err != nil {
		return fmt.Errorf("redis queue send: %w", err)
	}
	return nil
}

func (q *Queue) Receive(ctx context.Context, destination string, maxMessages int, wait time.Duration) ([]queue.ReceivedMessage, error) {
	if err := q.reclaimExpired(ctx, destination); err != nil {
		return nil, fmt.Errorf("redis queue reclaim: %w", err)
	}

	deadline := time.Now().Add(wait)
	var received []queue.ReceivedMessage

	for len(received) < maxMessages {
		body, err := q.client.LPop(ctx, readyKey(destination)).Bytes()
		if err == redis.Nil {
			// Sin mensajes: si aún no hay nada seguimos esperando
			// hasta agotar el tiempo de long-poll.
			if len(received) > 0 || !time.Now().Before(deadline) {
				break
			}
			select {
			case <-ctx.Done():
				return received, ctx.Err()
			case <-time.After(pollStep):
			}
			continue
		}
		if err != nil {
			return received, fmt.Errorf("redis queue receive: %w", err)
		}

		handle := uuid.NewString()
		expiry := float64(time.Now().Add(q.visibility).UnixMilli())
		if err := q.client.HSet(ctx, bodiesKey(destination), handle, body).Err(); err != nil {
			return received, fmt.Errorf("redis queue receive: %w", err)
		}
		if err := q.client.ZAdd(ctx, inflightKey(destination), &redis.Z{Score: expiry, Member: handle}).Err(); err != nil {
			return received, fmt.Errorf("redis queue receive: %w", err)
		}

		received = append(received, queue.ReceivedMessage{
			ID:            handle,
			Body:          body,
			ReceiptHandle: handle,
		})
	}

	return received, nil
}

func (q *Queue) Delete(ctx context.Context, destination string, receiptHandle string) error {
	if err := q.client.ZRem(ctx, inflightKey(destination), receiptHandle).Err(); err != nil {
		return fmt.Errorf("redis queue delete: %w", err)
	}
	if err := q.client.HDel(ctx, bodiesKey(destination), receiptHandle).Err(); err != nil {
		return fmt.Errorf("redis queue delete: %w", err)
	}
	return nil
}

// reclaimExpired devuelve a la lista de listos los mensajes en vuelo cuyo
// visibility timeout ha expirado, para que vuelvan a entregarse.
func (q *Queue) reclaimExpired(ctx context.Context, destination string) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	expired, err := q.client.ZRangeByScore(ctx, inflightKey(destination), &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return err
	}

	for _, handle := range expired {
		body, err := q.client.HGet(ctx, bodiesKey(destination), handle).Bytes()
		if err == redis.Nil {
			// El cuerpo ya no está (borrado concurrente): limpiamos la entrada.
			_ = q.client.ZRem(ctx, inflightKey(destination), handle).Err()
			continue
		}
		if err != nil {
			return err
		}

		if err := q.client.RPush(ctx, readyKey(destination), body).Err(); err != nil {
			return err
		}
		_ = q.client.ZRem(ctx, inflightKey(destination), handle).Err()
		_ = q.client.HDel(ctx, bodiesKey(destination), handle).Err()

		q.log.Debug("♻️ Mensaje devuelto a la cola tras expirar su visibilidad",
			zap.String("destination", destination),
			zap.String("receipt_handle", handle),
		)
	}
	return nil
}

// Verificación estática
var _ queue.Client = (*Queue)(nil)
