package events

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
	sharedEvents "github.com/davicafu/menulab/internal/shared/events"
	"github.com/davicafu/menulab/internal/shared/infra/queue"
)

// ProductService define los casos de uso a los que despacha el consumidor.
// Deben tolerar entregas duplicadas y fuera de orden: la cola es at-least-once.
type ProductService interface {
	CreateProduct(ctx context.Context, p productDomain.Product) error
	UpdateProduct(ctx context.Context, id string, p productDomain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Config agrupa los parámetros de sondeo de la cola.
type Config struct {
	Destination string
	Enabled     bool
	Interval    time.Duration
	MaxMessages int
	WaitTime    time.Duration
}

// Consumer sondea la cola de eventos de producto en un único bucle: un ciclo
// debe terminar antes de que empiece el siguiente, nunca hay ciclos solapados.
// Cada mensaje se procesa de forma aislada y solo se borra de la cola tras
// despacharse con éxito; los fallidos reaparecen al expirar su visibilidad.
type Consumer struct {
	client  queue.Client
	service ProductService
	cfg     Config
	log     *zap.Logger

	// Contador de eventos de tipo desconocido descartados; la política de
	// descarte es deliberada pero debe poder observarse.
	unknownEvents atomic.Int64
}

func NewConsumer(client queue.Client, service ProductService, cfg Config, log *zap.Logger) *Consumer {
	return &Consumer{
		client:  client,
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// Start inicia el bucle de polling y bloquea hasta que el contexto se cancele.
// La parada es limpia: se respeta el ciclo en curso y se sale entre ticks.
func (c *Consumer) Start(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	c.log.Info("🚀 Consumidor de eventos iniciado",
		zap.String("destination", c.cfg.Destination),
		zap.Duration("interval", c.cfg.Interval),
		zap.Bool("enabled", c.cfg.Enabled),
	)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("🛑 Consumidor de eventos detenido.")
			return
		case <-ticker.C:
			c.Poll(ctx)
		}
	}
}

// Poll ejecuta un ciclo completo de sondeo. El fallo de un mensaje nunca
// aborta el resto del lote; un fallo de recepción aborta el ciclo sin
// consumir nada y el siguiente tick reintenta.
func (c *Consumer) Poll(ctx context.Context) {
	if !c.cfg.Enabled {
		return
	}

	msgs, err := c.client.Receive(ctx, c.cfg.Destination, c.cfg.MaxMessages, c.cfg.WaitTime)
	if err != nil {
		c.log.Error("⚠️ Error al recibir mensajes de la cola",
			zap.String("destination", c.cfg.Destination),
			zap.Error(err),
		)
		return
	}
	if len(msgs) == 0 {
		return
	}

	c.log.Info("📬 Mensajes recibidos", zap.Int("count", len(msgs)))
	for _, raw := range msgs {
		c.process(ctx, raw)
	}
}

func (c *Consumer) process(ctx context.Context, raw queue.ReceivedMessage) {
	msg, err := sharedEvents.Decode(raw.Body)
	if err != nil {
		// Sin borrado: el mensaje volverá a entregarse y, si sigue sin poder
		// leerse, la propia cola acabará moviéndolo a su dead-letter.
		c.log.Warn("Mensaje indeserializable, se deja para reentrega",
			zap.String("queue_message_id", raw.ID),
			zap.Error(err),
		)
		return
	}

	if err := c.dispatch(ctx, msg); err != nil {
		c.log.Warn("Fallo al procesar evento, se deja para reentrega",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", msg.EventType),
			zap.String("product_id", msg.ProductID),
			zap.Error(err),
		)
		return
	}

	if err := c.client.Delete(ctx, c.cfg.Destination, raw.ReceiptHandle); err != nil {
		// El mensaje ya se procesó: si el borrado falla se asume el riesgo
		// de un duplicado ocasional, los casos de uso son idempotentes.
		c.log.Error("⚠️ No se pudo borrar el mensaje procesado",
			zap.String("message_id", msg.MessageID),
			zap.String("receipt_handle", raw.ReceiptHandle),
			zap.Error(err),
		)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg sharedEvents.Message) error {
	switch msg.EventType {
	case sharedEvents.TypeProductCreated:
		err := c.service.CreateProduct(ctx, sharedEvents.ToProduct(msg))
		if errors.Is(err, productDomain.ErrProductAlreadyExists) {
			c.log.Info("Evento de creación duplicado ignorado",
				zap.String("product_id", msg.ProductID),
			)
			return nil
		}
		return err

	case sharedEvents.TypeProductUpdated:
		return c.service.UpdateProduct(ctx, msg.ProductID, sharedEvents.ToProduct(msg))

	case sharedEvents.TypeProductDeleted:
		err := c.service.DeleteProduct(ctx, msg.ProductID)
		if errors.Is(err, productDomain.ErrProductNotFound) {
			c.log.Info("Evento de borrado duplicado ignorado",
				zap.String("product_id", msg.ProductID),
			)
			return nil
		}
		return err

	default:
		// Eventos de productores más nuevos se descartan: se confirma el
		// mensaje sin acción para que no cicle hacia la dead-letter.
		c.unknownEvents.Add(1)
		c.log.Warn("Unknown event type",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", msg.EventType),
		)
		return nil
	}
}

// UnknownEvents devuelve cuántos eventos de tipo desconocido se han descartado.
func (c *Consumer) UnknownEvents() int64 {
	return c.unknownEvents.Load()
}
