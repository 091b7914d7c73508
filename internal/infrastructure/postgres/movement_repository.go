package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// tablas por tipo de movimiento
var movementTables = map[entity.MovementKind]string{
	entity.KindEntry: "stock_entries",
	entity.KindExit:  "stock_exits",
}

// MovementRepo implementación sobre PostgreSQL para entradas o salidas (usable con pool o tx).
type MovementRepo struct {
	q     Querier
	kind  entity.MovementKind
	table string
}

// NewMovementRepository construye el adaptador para el tipo indicado. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier, kind entity.MovementKind) *MovementRepo {
	table, ok := movementTables[kind]
	if !ok {
		panic(fmt.Sprintf("postgres: tipo de movimiento desconocido %q", kind))
	}
	return &MovementRepo{q: q, kind: kind, table: table}
}

// NewEntryRepository atajo para entradas.
func NewEntryRepository(q Querier) *MovementRepo { return NewMovementRepository(q, entity.KindEntry) }

// NewExitRepository atajo para salidas.
func NewExitRepository(q Querier) *MovementRepo { return NewMovementRepository(q, entity.KindExit) }

// Kind devuelve el tipo de movimiento del repositorio.
func (r *MovementRepo) Kind() entity.MovementKind { return r.kind }

// Create persiste un movimiento y completa ID y CreatedAt.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (product_id, quantity, date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, r.table)
	err := r.q.QueryRow(ctx, query, m.ProductID, m.Quantity, m.Date, m.Notes).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	m.Kind = r.kind
	return nil
}

// GetByID obtiene un movimiento por ID; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, quantity, date, notes, created_at
		FROM %s WHERE id = $1`, r.table)
	m := entity.Movement{Kind: r.kind}
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.ProductID, &m.Quantity, &m.Date, &m.Notes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.kind, err)
	}
	return &m, nil
}

// Update reemplaza producto, cantidad, fecha y observaciones.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := fmt.Sprintf(`
		UPDATE %s SET product_id = $2, quantity = $3, date = $4, notes = $5
		WHERE id = $1`, r.table)
	cmd, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Quantity, m.Date, m.Notes)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los movimientos, más recientes primero.
func (r *MovementRepo) List(ctx context.Context) ([]*entity.Movement, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, quantity, date, notes, created_at
		FROM %s ORDER BY date DESC, id DESC`, r.table)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m := entity.Movement{Kind: r.kind}
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Quantity, &m.Date, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind, err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumQuantity suma cantidades en NUMERIC (sin redondeo) según el filtro.
func (r *MovementRepo) SumQuantity(ctx context.Context, f repository.SumFilter) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(quantity), 0) FROM %s WHERE product_id = $1`, r.table)
	args := []any{f.ProductID}
	pos := 2
	if f.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.ExcludeID > 0 {
		query += fmt.Sprintf(" AND id <> $%d", pos)
		args = append(args, f.ExcludeID)
	}

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", r.kind, err)
	}
	return total, nil
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE product_id = $1`, r.table), productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	return n, nil
}
