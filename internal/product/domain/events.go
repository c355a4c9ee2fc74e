package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event es la unión cerrada de eventos de dominio de producto.
// El método no exportado impide implementaciones fuera de este paquete,
// así el dispatch por tipo es exhaustivo en tiempo de compilación.
type Event interface {
	EventID() string
	OccurredOn() time.Time
	isProductEvent()
}

// baseEvent lleva la identidad común de todos los eventos.
// Los campos no se exportan: un evento es inmutable una vez construido.
type baseEvent struct {
	eventID    string
	occurredOn time.Time
}

func newBaseEvent() baseEvent {
	return baseEvent{
		eventID:    uuid.NewString(),
		occurredOn: time.Now().UTC(),
	}
}

func (e baseEvent) EventID() string       { return e.eventID }
func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }
func (baseEvent) isProductEvent()         {}

// ProductCreated se emite cuando un producto se da de alta con éxito.
type ProductCreated struct {
	baseEvent
	product Product
}

func NewProductCreated(p Product) ProductCreated {
	return ProductCreated{baseEvent: newBaseEvent(), product: p}
}

func (e ProductCreated) Product() Product { return e.product }

// ProductUpdated se emite cuando un producto existente cambia.
type ProductUpdated struct {
	baseEvent
	product Product
}

func NewProductUpdated(p Product) ProductUpdated {
	return ProductUpdated{baseEvent: newBaseEvent(), product: p}
}

func (e ProductUpdated) Product() Product { return e.product }

// ProductDeleted se emite cuando un producto se elimina; solo conserva el ID.
type ProductDeleted struct {
	baseEvent
	productID string
}

func NewProductDeleted(productID string) ProductDeleted {
	return ProductDeleted{baseEvent: newBaseEvent(), productID: productID}
}

func (e ProductDeleted) ProductID() string { return e.productID }
