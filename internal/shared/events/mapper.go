package events

import (
	"errors"
	"fmt"

	productDomain "github.com/davicafu/menulab/internal/product/domain"
)

// ErrUnsupportedEvent solo puede darse si alguien añade una variante al
// dominio sin actualizar este mapper; la unión es cerrada.
var ErrUnsupportedEvent = errors.New("unsupported event type")

// ToMessage convierte un evento de dominio al esquema de mensaje actual.
// El timestamp se normaliza siempre a UTC.
func ToMessage(event productDomain.Event) (Message, error) {
	switch e := event.(type) {
	case productDomain.ProductCreated:
		return productMessage(TypeProductCreated, e, e.Product()), nil
	case productDomain.ProductUpdated:
		return productMessage(TypeProductUpdated, e, e.Product()), nil
	case productDomain.ProductDeleted:
		return Message{
			MessageID: e.EventID(),
			EventType: TypeProductDeleted,
			Timestamp: e.OccurredOn().UTC(),
			ProductID: e.ProductID(),
		}, nil
	default:
		return Message{}, fmt.Errorf("%w: %T", ErrUnsupportedEvent, event)
	}
}

func productMessage(eventType string, event productDomain.Event, p productDomain.Product) Message {
	price := p.Price
	cookingTime := p.CookingTime
	return Message{
		MessageID:   event.EventID(),
		EventType:   eventType,
		Timestamp:   event.OccurredOn().UTC(),
		ProductID:   p.ID,
		Name:        &p.Name,
		Category:    &p.Category,
		Description: &p.Description,
		Price:       &price,
		CookingTime: &cookingTime,
	}
}

// ToProduct reconstruye el DTO de producto para los casos de uso.
// cookingTime ausente se interpreta como 0; price ausente queda a cero.
func ToProduct(m Message) productDomain.Product {
	p := productDomain.Product{ID: m.ProductID}
	if m.Name != nil {
		p.Name = *m.Name
	}
	if m.Category != nil {
		p.Category = *m.Category
	}
	if m.Description != nil {
		p.Description = *m.Description
	}
	if m.Price != nil {
		p.Price = *m.Price
	}
	if m.CookingTime != nil {
		p.CookingTime = *m.CookingTime
	}
	return p
}
