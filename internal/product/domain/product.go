package domain

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del restaurante.
// Es un objeto plano de datos: su identidad es el campo ID y nada más.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CookingTime int             `json:"cooking_time"`
}
