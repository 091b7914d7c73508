package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// SumFilter acota la suma de cantidades de un producto.
// From/To nil = sin límite de ese lado; ExcludeID > 0 omite ese movimiento.
type SumFilter struct {
	ProductID int64
	From      *time.Time
	To        *time.Time
	ExcludeID int64
}

// MovementRepository define el puerto de persistencia para un tipo de movimiento
// (entradas o salidas). Cada implementación está atada a un entity.MovementKind.
type MovementRepository interface {
	Kind() entity.MovementKind
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	Update(ctx context.Context, m *entity.Movement) error
	Delete(ctx context.Context, id int64) error
	// List devuelve todos los movimientos, más recientes primero (fecha desc, id desc).
	List(ctx context.Context) ([]*entity.Movement, error)
	// SumQuantity suma cantidades sin redondeo; 0 si no hay movimientos.
	SumQuantity(ctx context.Context, f SumFilter) (decimal.Decimal, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
}
