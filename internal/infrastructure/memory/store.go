// Package memory implementa los repositorios del libro de stock en memoria.
// Se usa con STORAGE=memory para correr la aplicación sin PostgreSQL y en los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ inventory.TxRunner            = (*Store)(nil)
)

// Store agrupa las tablas en memoria. Los repositorios devuelven copias:
// modificar una entidad obtenida no altera el store hasta llamar Update.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	productSeq int64
	products   map[int64]entity.Product
	movements  map[entity.MovementKind]*table
	now        func() time.Time
}

type table struct {
	seq  int64
	rows map[int64]entity.Movement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products: map[int64]entity.Product{},
		movements: map[entity.MovementKind]*table{
			entity.KindEntry: {rows: map[int64]entity.Movement{}},
			entity.KindExit:  {rows: map[int64]entity.Movement{}},
		},
		now: time.Now,
	}
}

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Entries repositorio de entradas.
func (s *Store) Entries() *MovementRepo { return &MovementRepo{s: s, kind: entity.KindEntry} }

// Exits repositorio de salidas.
func (s *Store) Exits() *MovementRepo { return &MovementRepo{s: s, kind: entity.KindExit} }

// Run serializa las transacciones. No hay rollback: los casos de uso escriben solo
// después de validar, así que un error deja el store intacto.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	entryRepo repository.MovementRepository,
	exitRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Products(), s.Entries(), s.Exits())
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
}

// NextID reserva el próximo id, como una secuencia.
func (r *ProductRepo) NextID(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.productSeq++
	return r.s.productSeq, nil
}

// Create guarda el producto; SKU duplicado devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	if p.ID > r.s.productSeq {
		r.s.productSeq = p.ID
	}
	p.CreatedAt = r.s.now()
	r.s.products[p.ID] = *p
	return nil
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update copia nombre, marca y unidad; conserva el SKU almacenado.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name = p.Name
	stored.Brand = p.Brand
	stored.Unit = p.Unit
	r.s.products[p.ID] = stored
	return nil
}

// List filtra nombre o marca sin distinguir mayúsculas (case folding Unicode).
func (r *ProductRepo) List(_ context.Context, search string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fold := cases.Fold()
	needle := fold.String(search)
	var list []*entity.Product
	for _, p := range r.s.products {
		if needle != "" &&
			!strings.Contains(fold.String(p.Name), needle) &&
			!strings.Contains(fold.String(p.Brand), needle) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Delete elimina el producto; con movimientos devuelve domain.ErrConflict.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.movements {
		for _, m := range t.rows {
			if m.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(r.s.products, id)
	return nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// MovementRepo entradas o salidas en memoria.
type MovementRepo struct {
	s    *Store
	kind entity.MovementKind
}

// Kind tipo de movimiento del repositorio.
func (r *MovementRepo) Kind() entity.MovementKind { return r.kind }

func (r *MovementRepo) table() *table { return r.s.movements[r.kind] }

// Create asigna ID y CreatedAt. Producto inexistente devuelve domain.ErrNotFound (FK).
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[m.ProductID]; !ok {
		return domain.ErrNotFound
	}
	t := r.table()
	t.seq++
	m.ID = t.seq
	m.Kind = r.kind
	m.CreatedAt = r.s.now()
	t.rows[m.ID] = *m
	return nil
}

// GetByID devuelve una copia o (nil, nil).
func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.table().rows[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// Update reemplaza producto, cantidad, fecha y observaciones.
func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := r.table()
	stored, ok := t.rows[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.products[m.ProductID]; !ok {
		return domain.ErrNotFound
	}
	stored.ProductID = m.ProductID
	stored.Quantity = m.Quantity
	stored.Date = m.Date
	stored.Notes = m.Notes
	t.rows[m.ID] = stored
	return nil
}

// Delete elimina por id.
func (r *MovementRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := r.table()
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// List fecha desc, id desc.
func (r *MovementRepo) List(_ context.Context) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Movement, 0, len(r.table().rows))
	for _, m := range r.table().rows {
		m := m
		list = append(list, &m)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// SumQuantity suma exacta según el filtro.
func (r *MovementRepo) SumQuantity(_ context.Context, f repository.SumFilter) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, m := range r.table().rows {
		if m.ProductID != f.ProductID || (f.ExcludeID > 0 && m.ID == f.ExcludeID) {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		total = total.Add(m.Quantity)
	}
	return total, nil
}

// CountByProduct cuenta los movimientos del producto.
func (r *MovementRepo) CountByProduct(_ context.Context, productID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.table().rows {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}
