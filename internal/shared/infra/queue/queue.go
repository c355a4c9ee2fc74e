// Package queue define el puerto hacia el servicio de colas gestionado.
// El servicio garantiza entrega at-least-once: un mensaje recibido y no
// borrado reaparece cuando expira su visibility timeout.
package queue

import (
	"context"
	"time"
)

// ReceivedMessage es un mensaje crudo tal y como sale de la cola.
type ReceivedMessage struct {
	ID            string
	Body          []byte
	ReceiptHandle string
}

// Client son las operaciones que este sistema necesita de la cola.
type Client interface {
	// Send encola body en el destino indicado.
	Send(ctx context.Context, destination string, body []byte) error

	// Receive devuelve hasta maxMessages mensajes, esperando como mucho
	// wait a que haya alguno disponible (long-poll).
	Receive(ctx context.Context, destination string, maxMessages int, wait time.Duration) ([]ReceivedMessage, error)

	// Delete confirma (borra) un mensaje por su receipt handle. Un mensaje
	// no borrado vuelve a entregarse pasado el visibility timeout.
	Delete(ctx context.Context, destination string, receiptHandle string) error
}
