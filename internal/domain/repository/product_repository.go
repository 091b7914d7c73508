package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	// NextID reserva el próximo id sustituto (usado para derivar el SKU).
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update modifica nombre, marca y unidad. Nunca el SKU.
	Update(ctx context.Context, product *entity.Product) error
	// List filtra por substring (sin distinguir mayúsculas) en nombre o marca; vacío = todos.
	List(ctx context.Context, search string) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
