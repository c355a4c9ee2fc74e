package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento tal y como viajan por la cola.
const (
	TypeProductCreated = "PRODUCT_CREATED"
	TypeProductUpdated = "PRODUCT_UPDATED"
	TypeProductDeleted = "PRODUCT_DELETED"
)

// Message es el contrato de integración actual (esquema plano).
// Para borrados solo messageId, eventType, timestamp y productId tienen valor;
// el resto de campos van ausentes en el JSON.
type Message struct {
	MessageID   string           `json:"messageId"`
	EventType   string           `json:"eventType"`
	Timestamp   time.Time        `json:"timestamp"`
	ProductID   string           `json:"productId,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CookingTime *int             `json:"cookingTime,omitempty"`
}

// MarshalJSON emite price como número JSON, que es lo que fija el contrato
// de mensaje; por defecto decimal serializa entre comillas y cambiar su
// configuración global afectaría a todos los decimales del proceso.
func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	aux := struct {
		alias
		Price json.RawMessage `json:"price,omitempty"`
	}{alias: alias(m)}

	if m.Price != nil {
		aux.Price = json.RawMessage(m.Price.String())
	}
	return json.Marshal(aux)
}
