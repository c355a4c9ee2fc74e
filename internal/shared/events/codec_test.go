package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_CurrentSchema(t *testing.T) {
	raw := []byte(`{
		"messageId": "msg-1",
		"eventType": "PRODUCT_CREATED",
		"timestamp": "2023-11-14T22:13:20Z",
		"productId": "prod-1",
		"name": "Paella",
		"category": "Principales",
		"description": "De marisco",
		"price": 14.50,
		"cookingTime": 35
	}`)

	msg, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "msg-1", msg.MessageID)
	assert.Equal(t, TypeProductCreated, msg.EventType)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), msg.Timestamp.UTC())
	assert.Equal(t, "prod-1", msg.ProductID)
	require.NotNil(t, msg.Name)
	assert.Equal(t, "Paella", *msg.Name)
	require.NotNil(t, msg.Price)
	assert.Equal(t, "14.5", msg.Price.String())
	require.NotNil(t, msg.CookingTime)
	assert.Equal(t, 35, *msg.CookingTime)
}

func TestDecode_LegacyEquivalence(t *testing.T) {
	// ✅ El mismo evento lógico en los dos esquemas debe decodificar igual.
	current := []byte(`{
		"messageId": "msg-2",
		"eventType": "PRODUCT_UPDATED",
		"timestamp": "2023-11-14T22:13:20Z",
		"productId": "prod-2",
		"name": "Gazpacho",
		"category": "Entrantes",
		"description": "Frío",
		"price": 6.25,
		"cookingTime": 10
	}`)
	legacy := []byte(`{
		"messageId": "msg-2",
		"eventType": "PRODUCT_UPDATED",
		"timestamp": 1700000000000,
		"productData": {
			"id": "prod-2",
			"name": "Gazpacho",
			"category": "Entrantes",
			"description": "Frío",
			"price": 6.25,
			"cookingTime": 10
		}
	}`)

	fromCurrent, err := Decode(current)
	require.NoError(t, err)
	fromLegacy, err := Decode(legacy)
	require.NoError(t, err)

	assert.Equal(t, fromCurrent.MessageID, fromLegacy.MessageID)
	assert.Equal(t, fromCurrent.EventType, fromLegacy.EventType)
	assert.Equal(t, fromCurrent.ProductID, fromLegacy.ProductID)
	assert.True(t, fromCurrent.Timestamp.Equal(fromLegacy.Timestamp))
	assert.Equal(t, *fromCurrent.Name, *fromLegacy.Name)
	assert.Equal(t, *fromCurrent.Category, *fromLegacy.Category)
	assert.Equal(t, *fromCurrent.Description, *fromLegacy.Description)
	assert.True(t, fromCurrent.Price.Equal(*fromLegacy.Price))
	assert.Equal(t, *fromCurrent.CookingTime, *fromLegacy.CookingTime)
}

func TestDecode_LegacyEpochSeconds(t *testing.T) {
	raw := []byte(`{
		"messageId": "msg-3",
		"eventType": "PRODUCT_DELETED",
		"timestamp": 1700000000,
		"productData": {"id": "prod-3"}
	}`)

	msg, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), msg.Timestamp)
	assert.Equal(t, "prod-3", msg.ProductID)
}

func TestDecode_LegacyMissingProductFields(t *testing.T) {
	raw := []byte(`{
		"messageId": "msg-4",
		"eventType": "PRODUCT_CREATED",
		"timestamp": 1700000000000,
		"productData": {"id": "prod-4", "name": "Flan"}
	}`)

	msg, err := Decode(raw)
	require.NoError(t, err)

	assert.Nil(t, msg.Price)
	assert.Nil(t, msg.CookingTime)
	assert.Nil(t, msg.Category)

	// ToProduct aplica los valores por defecto.
	p := ToProduct(msg)
	assert.Equal(t, 0, p.CookingTime)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, "Flan", p.Name)
}

func TestDecode_LegacyPriceAsString(t *testing.T) {
	raw := []byte(`{
		"messageId": "msg-5",
		"eventType": "PRODUCT_CREATED",
		"timestamp": 1700000000000,
		"productData": {"id": "prod-5", "price": "12.30"}
	}`)

	msg, err := Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, msg.Price)
	assert.Equal(t, "12.3", msg.Price.String())
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`{not json`),
		[]byte(`"solo una cadena"`),
		[]byte(`null`),
		[]byte(`  null`),
		[]byte(`123`),
		[]byte(`[1, 2]`),
		[]byte(``),
	} {
		msg, err := Decode(raw)
		assert.ErrorIs(t, err, ErrDeserialize)
		assert.Empty(t, msg.EventType)
	}
}
