package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind distingue entradas y salidas; cada tipo vive en su propia tabla.
type MovementKind string

const (
	KindEntry MovementKind = "entrada"
	KindExit  MovementKind = "saida"
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k == KindEntry || k == KindExit
}

// Movement es una entrada o salida de stock de un producto en un día.
type Movement struct {
	ID        int64
	Kind      MovementKind
	ProductID int64
	Quantity  decimal.Decimal // siempre positiva
	Date      time.Time       // día calendario (medianoche UTC)
	Notes     string
	CreatedAt time.Time
}

// DateOnly normaliza t al día calendario en UTC (sin componente horario).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
