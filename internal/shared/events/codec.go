package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDeserialize se devuelve cuando ninguno de los esquemas conocidos
// consigue interpretar el payload.
var ErrDeserialize = errors.New("failed to deserialize message")

// Decoder interpreta un payload crudo de la cola como Message.
// Cada esquema de mensaje soportado es un Decoder; añadir un tercer
// esquema no cambia a los llamadores de Decode.
type Decoder interface {
	Decode(raw []byte) (Message, error)
}

// Orden de intento: primero el esquema actual, después el legado.
var decoders = []Decoder{strictDecoder{}, legacyDecoder{}}

// Decode prueba los esquemas en orden y devuelve el primer Message válido.
// Si todos fallan el payload se considera indeserializable.
func Decode(raw []byte) (Message, error) {
	var lastErr error
	for _, d := range decoders {
		m, err := d.Decode(raw)
		if err == nil {
			return m, nil
		}
		lastErr = err
	}
	return Message{}, fmt.Errorf("%w: %v", ErrDeserialize, lastErr)
}

// strictDecoder decodifica el esquema plano actual tal cual.
type strictDecoder struct{}

func (strictDecoder) Decode(raw []byte) (Message, error) {
	// Solo se aceptan objetos JSON: "null" o un escalar pasan por
	// json.Unmarshal sin error pero dejarían un Message vacío.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, errors.New("payload is not a JSON object")
	}

	// Un payload con productData es del esquema legado aunque el resto
	// de campos parezcan válidos: lo cedemos al decoder legado.
	var probe struct {
		ProductData json.RawMessage `json:"productData"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.ProductData != nil {
		return Message{}, errors.New("legacy productData payload")
	}

	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// legacyDecoder recorre el JSON como árbol genérico: admite los atributos
// del producto anidados bajo productData (con "id" en vez de "productId")
// y timestamps numéricos en epoch además del formato de fecha.
type legacyDecoder struct{}

func (legacyDecoder) Decode(raw []byte) (Message, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree map[string]interface{}
	if err := dec.Decode(&tree); err != nil {
		return Message{}, err
	}
	if tree == nil {
		return Message{}, errors.New("payload is not a JSON object")
	}

	m := Message{
		MessageID: stringField(tree, "messageId"),
		EventType: stringField(tree, "eventType"),
		Timestamp: timestampField(tree["timestamp"]),
	}

	// Los atributos del producto viven anidados en el esquema legado;
	// si no hay productData se buscan en el nivel superior.
	source := tree
	idKey := "productId"
	if nested, ok := tree["productData"].(map[string]interface{}); ok {
		source = nested
		idKey = "id"
	}

	m.ProductID = stringField(source, idKey)
	m.Name = stringPtrField(source, "name")
	m.Category = stringPtrField(source, "category")
	m.Description = stringPtrField(source, "description")
	m.Price = decimalField(source, "price")
	m.CookingTime = intField(source, "cookingTime")

	return m, nil
}

func stringField(tree map[string]interface{}, key string) string {
	if s, ok := tree[key].(string); ok {
		return s
	}
	return ""
}

func stringPtrField(tree map[string]interface{}, key string) *string {
	if s, ok := tree[key].(string); ok {
		return &s
	}
	return nil
}

func decimalField(tree map[string]interface{}, key string) *decimal.Decimal {
	switch v := tree[key].(type) {
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return &d
		}
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return &d
		}
	}
	return nil
}

func intField(tree map[string]interface{}, key string) *int {
	if n, ok := tree[key].(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			value := int(i)
			return &value
		}
	}
	return nil
}

// timestampField acepta fecha formateada o epoch numérico.
// Valores a partir de 1e12 se interpretan como milisegundos.
func timestampField(v interface{}) time.Time {
	switch ts := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			return t.UTC()
		}
	case json.Number:
		if epoch, err := ts.Float64(); err == nil {
			if epoch >= 1e12 {
				return time.UnixMilli(int64(epoch)).UTC()
			}
			return time.Unix(int64(epoch), 0).UTC()
		}
	}
	return time.Time{}
}
