package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	invdomain "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// MovementUseCase CRUD de entradas o salidas. Las escrituras corren en una transacción
// que bloquea la fila del producto (SELECT FOR UPDATE); para salidas además valida
// que la cantidad no supere el disponible a la fecha de la salida.
type MovementUseCase struct {
	kind        entity.MovementKind
	txRunner    TxRunner
	productRepo repository.ProductRepository
	repo        repository.MovementRepository
}

// NewEntryUseCase construye el caso de uso de entradas.
func NewEntryUseCase(txRunner TxRunner, productRepo repository.ProductRepository, entryRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{kind: entity.KindEntry, txRunner: txRunner, productRepo: productRepo, repo: entryRepo}
}

// NewExitUseCase construye el caso de uso de salidas.
func NewExitUseCase(txRunner TxRunner, productRepo repository.ProductRepository, exitRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{kind: entity.KindExit, txRunner: txRunner, productRepo: productRepo, repo: exitRepo}
}

// Kind tipo de movimiento que maneja el caso de uso.
func (uc *MovementUseCase) Kind() entity.MovementKind { return uc.kind }

// List devuelve todos los movimientos (fecha desc) con SKU, nombre y unidad del producto.
func (uc *MovementUseCase) List(ctx context.Context) ([]dto.MovementResponse, error) {
	movements, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m, byID[m.ProductID]))
	}
	return out, nil
}

// Get obtiene un movimiento por id. domain.ErrNotFound si no existe.
func (uc *MovementUseCase) Get(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	p, err := uc.productRepo.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(m, p)
	return &resp, nil
}

// Create registra un movimiento nuevo.
//
// Retorna:
//   - *domain.ValidationError        si la cantidad, la fecha o el producto son inválidos.
//   - *domain.InsufficientStockError si es una salida mayor al disponible a su fecha.
func (uc *MovementUseCase) Create(ctx context.Context, in dto.MovementInput) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	m := &entity.Movement{
		Kind:      uc.kind,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Date:      entity.DateOnly(in.Date),
		Notes:     strings.TrimSpace(in.Notes),
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, entryRepo, exitRepo repository.MovementRepository) error {
		var err error
		product, err = lockProduct(ctx, productRepo, in.ProductID)
		if err != nil {
			return err
		}
		if uc.kind == entity.KindExit {
			calc := NewStockCalculator(entryRepo, exitRepo)
			if err := checkAvailable(ctx, calc, product, m, 0); err != nil {
				return err
			}
		}
		return uc.txRepo(entryRepo, exitRepo).Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(m, product)
	return &resp, nil
}

// Update modifica un movimiento existente. Para salidas, la validación excluye la propia
// salida del consumo ya registrado; mantener producto y cantidad siempre se acepta.
func (uc *MovementUseCase) Update(ctx context.Context, id int64, in dto.MovementInput) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	var (
		updated *entity.Movement
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, entryRepo, exitRepo repository.MovementRepository) error {
		repo := uc.txRepo(entryRepo, exitRepo)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		// Bloquear en orden de id para evitar deadlocks cuando la salida cambia de producto.
		ids := []int64{existing.ProductID, in.ProductID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		locked := map[int64]*entity.Product{}
		for _, pid := range ids {
			if _, ok := locked[pid]; ok {
				continue
			}
			p, err := productRepo.GetForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			locked[pid] = p
		}
		product = locked[in.ProductID]
		if product == nil {
			return domain.Invalid("produto_id", "Produto não encontrado")
		}

		change := invdomain.ExitChange{
			OldProductID: existing.ProductID,
			OldQuantity:  existing.Quantity,
			NewProductID: in.ProductID,
			NewQuantity:  in.Quantity,
		}
		existing.ProductID = in.ProductID
		existing.Quantity = in.Quantity
		existing.Date = entity.DateOnly(in.Date)
		existing.Notes = strings.TrimSpace(in.Notes)

		if uc.kind == entity.KindExit && change.NeedsStockCheck() {
			calc := NewStockCalculator(entryRepo, exitRepo)
			if err := checkAvailable(ctx, calc, product, existing, existing.ID); err != nil {
				return err
			}
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(updated, product)
	return &resp, nil
}

// Delete elimina un movimiento. domain.ErrNotFound si no existe.
func (uc *MovementUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *MovementUseCase) txRepo(entryRepo, exitRepo repository.MovementRepository) repository.MovementRepository {
	if uc.kind == entity.KindExit {
		return exitRepo
	}
	return entryRepo
}

func lockProduct(ctx context.Context, productRepo repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := productRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear producto: %w", err)
	}
	if p == nil {
		return nil, domain.Invalid("produto_id", "Produto não encontrado")
	}
	return p, nil
}

func checkAvailable(ctx context.Context, calc *StockCalculator, product *entity.Product, m *entity.Movement, excludeID int64) error {
	available, err := calc.AvailableForExit(ctx, product.ID, m.Date, excludeID)
	if err != nil {
		return err
	}
	if invdomain.Exceeds(m.Quantity, available) {
		return &domain.InsufficientStockError{Available: available, Unit: product.Unit}
	}
	return nil
}

func validateMovement(in dto.MovementInput) error {
	if in.ProductID <= 0 {
		return domain.Invalid("produto_id", "Selecione um produto")
	}
	if !in.Quantity.IsPositive() {
		return domain.Invalid("quantidade", "A quantidade deve ser maior que zero")
	}
	if in.Date.IsZero() {
		return domain.Invalid("data", "Informe a data")
	}
	return nil
}

func toMovementResponse(m *entity.Movement, p *entity.Product) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:        m.ID,
		Kind:      string(m.Kind),
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Date:      m.Date,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
	if p != nil {
		resp.ProductSKU = p.SKU
		resp.ProductName = p.Name
		resp.ProductUnit = p.Unit
	}
	return resp
}
