package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementForm entrada del formulario de entrada/salida tal como llega del navegador.
type MovementForm struct {
	ProductID string `form:"produto_id" validate:"required,numeric"`
	Quantity  string `form:"quantidade" validate:"required"`
	Date      string `form:"data" validate:"required,datetime=2006-01-02"`
	Notes     string `form:"observacoes" validate:"max=2000"`
}

// MovementInput entrada ya tipada para los casos de uso de movimientos.
type MovementInput struct {
	ProductID int64
	Quantity  decimal.Decimal
	Date      time.Time
	Notes     string
}

// MovementResponse movimiento con los datos del producto para listados.
type MovementResponse struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	ProductID   int64           `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	ProductUnit string          `json:"product_unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}
