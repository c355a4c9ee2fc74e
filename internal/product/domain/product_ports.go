package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrInvalidProduct       = errors.New("invalid product")
)

// ---------- Interfaces (Ports) ----------

// ProductRepository define las operaciones persistentes para Product.
type ProductRepository interface {
	// Debe devolver ErrProductAlreadyExists si la entidad ya existe.
	Create(ctx context.Context, p *Product) error

	// Debe devolver ErrProductNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Product, error)

	// Debe devolver ErrProductNotFound si el producto no existe.
	Update(ctx context.Context, p *Product) error

	// Debe devolver ErrProductNotFound si el producto no existe.
	DeleteByID(ctx context.Context, id string) error
}

// EventPublisher publica eventos de dominio hacia la cola de eventos.
// El formato de mensaje y el destino los deciden los adapters.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
