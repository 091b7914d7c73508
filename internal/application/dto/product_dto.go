package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductForm entrada del formulario de producto (crear o editar).
type ProductForm struct {
	Name  string `form:"nome" validate:"required,max=100"`
	Brand string `form:"marca" validate:"required,max=100"`
	Unit  string `form:"formato" validate:"required,max=20"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductWithStock producto del listado con su stock actual.
type ProductWithStock struct {
	ProductResponse
	CurrentStock decimal.Decimal `json:"current_stock"`
}
