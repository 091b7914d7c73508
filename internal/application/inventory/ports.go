package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la validación de stock y la escritura de una salida sean atómicas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		entryRepo repository.MovementRepository,
		exitRepo repository.MovementRepository,
	) error) error
}
