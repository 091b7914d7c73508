package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se guarda: se deriva de los movimientos.
type ProductUseCase struct {
	txRunner  inventory.TxRunner
	repo      repository.ProductRepository
	entryRepo repository.MovementRepository
	exitRepo  repository.MovementRepository
	calc      *inventory.StockCalculator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.ProductRepository, entryRepo, exitRepo repository.MovementRepository) *ProductUseCase {
	return &ProductUseCase{
		txRunner:  txRunner,
		repo:      repo,
		entryRepo: entryRepo,
		exitRepo:  exitRepo,
		calc:      inventory.NewStockCalculator(entryRepo, exitRepo),
	}
}

// Create crea un nuevo producto. El SKU se deriva del próximo id (PRD0001...) dentro de la
// misma transacción que el insert.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductForm) (*dto.ProductResponse, error) {
	in = normalizeProduct(in)
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	product := &entity.Product{Name: in.Name, Brand: in.Brand, Unit: in.Unit}
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _, _ repository.MovementRepository) error {
		id, err := productRepo.NextID(ctx)
		if err != nil {
			return fmt.Errorf("reservar id de producto: %w", err)
		}
		product.ID = id
		product.SKU = entity.SKUFor(id)
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, marca y unidad. El SKU no cambia nunca.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductForm) (*dto.ProductResponse, error) {
	in = normalizeProduct(in)
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.Brand = in.Brand
	product.Unit = in.Unit
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos (búsqueda opcional por nombre o marca) con su stock actual.
func (uc *ProductUseCase) List(ctx context.Context, search string) ([]dto.ProductWithStock, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductWithStock, 0, len(list))
	for _, p := range list {
		stock, err := uc.calc.CurrentStock(ctx, p.ID, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.ProductWithStock{ProductResponse: *toProductResponse(p), CurrentStock: stock})
	}
	return items, nil
}

// Options lista todos los productos para los selects de los formularios de movimiento.
func (uc *ProductUseCase) Options(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto. Con entradas o salidas registradas devuelve *domain.ProductInUseError.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	entries, err := uc.entryRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	exits, err := uc.exitRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n := entries + exits; n > 0 {
		return &domain.ProductInUseError{SKU: product.SKU, Movements: n}
	}
	return uc.repo.Delete(ctx, id)
}

func normalizeProduct(in dto.ProductForm) dto.ProductForm {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Unit = strings.TrimSpace(in.Unit)
	return in
}

func validateProduct(in dto.ProductForm) error {
	if in.Name == "" {
		return domain.Invalid("nome", "Informe o nome do produto")
	}
	if in.Brand == "" {
		return domain.Invalid("marca", "Informe a marca")
	}
	if in.Unit == "" {
		return domain.Invalid("formato", "Informe o formato (unidade de medida)")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Brand:     p.Brand,
		Unit:      p.Unit,
		CreatedAt: p.CreatedAt,
	}
}
