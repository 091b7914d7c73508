package inventory

import (
	"github.com/shopspring/decimal"
)

// Balance es el saldo derivado: entradas - salidas. Sin redondeo.
func Balance(entries, exits decimal.Decimal) decimal.Decimal {
	return entries.Sub(exits)
}

// Exceeds indica si una salida de qty supera el disponible.
func Exceeds(qty, available decimal.Decimal) bool {
	return qty.GreaterThan(available)
}

// ExitChange describe una salida existente frente a su versión editada.
type ExitChange struct {
	OldProductID int64
	OldQuantity  decimal.Decimal
	NewProductID int64
	NewQuantity  decimal.Decimal
}

// NeedsStockCheck indica si la edición debe validarse contra el disponible.
// Mantener producto y cantidad es siempre aceptado.
func (c ExitChange) NeedsStockCheck() bool {
	return c.OldProductID != c.NewProductID || !c.OldQuantity.Equal(c.NewQuantity)
}
