package events

import (
	"context"

	"go.uber.org/zap"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
)

// NoopPublisher se selecciona cuando no hay cola configurada: solo deja
// traza del evento y nunca falla.
type NoopPublisher struct {
	log *zap.Logger
}

func NewNoopPublisher(log *zap.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(ctx context.Context, event productDomain.Event) error {
	p.log.Info("📭 Evento descartado: no hay cola de eventos configurada",
		zap.String("event_id", event.EventID()),
		zap.Time("occurred_on", event.OccurredOn()),
	)
	return nil
}

// Verificación estática
var _ productDomain.EventPublisher = (*NoopPublisher)(nil)
