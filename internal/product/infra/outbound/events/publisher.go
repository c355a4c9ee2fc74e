package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
	sharedEvents "github.com/davicafu/menulab/internal/shared/events"
)

// ErrMissingDestination indica que no hay cola de eventos configurada.
// Es un error de configuración: se falla de inmediato, sin reintentos.
var ErrMissingDestination = errors.New("event queue destination not configured")

// Sender es lo único que el publicador necesita del cliente de cola.
type Sender interface {
	Send(ctx context.Context, destination string, body []byte) error
}

// QueuePublisher publica eventos de dominio en la cola bajo el destino
// configurado. El envío es síncrono y sin outbox: si falla, el error se
// propaga al caso de uso que publicó.
type QueuePublisher struct {
	sender      Sender
	destination string
	log         *zap.Logger
}

func NewQueuePublisher(sender Sender, destination string, log *zap.Logger) *QueuePublisher {
	return &QueuePublisher{
		sender:      sender,
		destination: destination,
		log:         log,
	}
}

func (p *QueuePublisher) Publish(ctx context.Context, event productDomain.Event) error {
	if p.destination == "" {
		p.log.Error("Cola de eventos sin destino configurado",
			zap.String("event_id", event.EventID()),
		)
		return ErrMissingDestination
	}

	msg, err := sharedEvents.ToMessage(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message %s: %w", msg.MessageID, err)
	}

	p.log.Debug("📦 Mensaje construido",
		zap.String("message_id", msg.MessageID),
		zap.String("event_type", msg.EventType),
		zap.String("product_id", msg.ProductID),
	)

	if err := p.sender.Send(ctx, p.destination, body); err != nil {
		p.log.Error("Error publicando evento en la cola",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", msg.EventType),
			zap.Error(err),
		)
		return fmt.Errorf("send message %s: %w", msg.MessageID, err)
	}

	p.log.Info("✅ Evento publicado",
		zap.String("message_id", msg.MessageID),
		zap.String("event_type", msg.EventType),
		zap.String("product_id", msg.ProductID),
	)
	return nil
}

// Verificación estática
var _ productDomain.EventPublisher = (*QueuePublisher)(nil)
