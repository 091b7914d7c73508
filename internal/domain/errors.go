package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError detalla el saldo disponible cuando una salida lo excede.
type InsufficientStockError struct {
	Available decimal.Decimal
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente! Disponível: %s %s", e.Available.String(), e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ProductInUseError indica que el producto tiene movimientos y no puede eliminarse.
type ProductInUseError struct {
	SKU       string
	Movements int
}

func (e *ProductInUseError) Error() string {
	return fmt.Sprintf("produto %s possui %d movimentações e não pode ser excluído", e.SKU, e.Movements)
}

func (e *ProductInUseError) Unwrap() error { return ErrConflict }

// ValidationError error de entrada con mensaje presentable al usuario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
