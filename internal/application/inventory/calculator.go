package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	invdomain "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// StockCalculator deriva stock y totales de período a partir de los movimientos.
// No guarda estado: cada consulta suma en el repositorio.
type StockCalculator struct {
	entries repository.MovementRepository
	exits   repository.MovementRepository
}

// NewStockCalculator construye la calculadora sobre los repos de entradas y salidas.
func NewStockCalculator(entries, exits repository.MovementRepository) *StockCalculator {
	return &StockCalculator{entries: entries, exits: exits}
}

// CurrentStock = Σ entradas - Σ salidas con fecha <= asOf; sin asOf considera todo el histórico.
// Un producto sin movimientos tiene stock 0.
func (c *StockCalculator) CurrentStock(ctx context.Context, productID int64, asOf *time.Time) (decimal.Decimal, error) {
	f := repository.SumFilter{ProductID: productID, To: asOf}
	in, err := c.entries.SumQuantity(ctx, f)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock: sumar entradas: %w", err)
	}
	out, err := c.exits.SumQuantity(ctx, f)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock: sumar salidas: %w", err)
	}
	return invdomain.Balance(in, out), nil
}

// PeriodEntries suma entradas con fecha en [start, end]. Un límite nil deja el período
// abierto de ese lado; sin ninguno suma todo el histórico.
func (c *StockCalculator) PeriodEntries(ctx context.Context, productID int64, start, end *time.Time) (decimal.Decimal, error) {
	return c.periodTotal(ctx, c.entries, productID, start, end)
}

// PeriodExits suma salidas con fecha en [start, end], con la misma regla de límites.
func (c *StockCalculator) PeriodExits(ctx context.Context, productID int64, start, end *time.Time) (decimal.Decimal, error) {
	return c.periodTotal(ctx, c.exits, productID, start, end)
}

func (c *StockCalculator) periodTotal(ctx context.Context, repo repository.MovementRepository, productID int64, start, end *time.Time) (decimal.Decimal, error) {
	total, err := repo.SumQuantity(ctx, repository.SumFilter{ProductID: productID, From: start, To: end})
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock: total del período (%s): %w", repo.Kind(), err)
	}
	return total, nil
}

// AvailableForExit es el disponible para una salida fechada en date:
// Σ entradas(<= date) - Σ otras salidas(<= date). excludeExitID omite la salida en edición.
func (c *StockCalculator) AvailableForExit(ctx context.Context, productID int64, date time.Time, excludeExitID int64) (decimal.Decimal, error) {
	in, err := c.entries.SumQuantity(ctx, repository.SumFilter{ProductID: productID, To: &date})
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock: sumar entradas: %w", err)
	}
	out, err := c.exits.SumQuantity(ctx, repository.SumFilter{ProductID: productID, To: &date, ExcludeID: excludeExitID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock: sumar salidas: %w", err)
	}
	return invdomain.Balance(in, out), nil
}
