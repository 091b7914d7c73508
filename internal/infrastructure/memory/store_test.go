package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func day(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

func seedProduct(t *testing.T, s *memory.Store, name, brand string) *entity.Product {
	t.Helper()
	ctx := context.Background()
	id, err := s.Products().NextID(ctx)
	require.NoError(t, err)
	p := &entity.Product{ID: id, SKU: entity.SKUFor(id), Name: name, Brand: brand, Unit: "litros"}
	require.NoError(t, s.Products().Create(ctx, p))
	return p
}

func TestProductRepo_ListBusquedaSinMayusculas(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "Herbicida Glifosato", "Nortox")
	seedProduct(t, s, "Adubo Ureia", "Yara")
	seedProduct(t, s, "Inseticida", "NORTOX Agro")

	list, err := s.Products().List(context.Background(), "nortox")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PRD0001", list[0].SKU)
	assert.Equal(t, "PRD0003", list[1].SKU)

	all, err := s.Products().List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepo_UpdateNoCambiaSKU(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Adubo", "Yara")

	p.SKU = "OUTRO"
	p.Name = "Adubo NPK"
	require.NoError(t, s.Products().Update(ctx, p))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRD0001", got.SKU)
	assert.Equal(t, "Adubo NPK", got.Name)
}

func TestProductRepo_GetByIDInexistente(t *testing.T) {
	s := memory.NewStore()
	got, err := s.Products().GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepo_DeleteConMovimientos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Adubo", "Yara")
	require.NoError(t, s.Entries().Create(ctx, &entity.Movement{ProductID: p.ID, Quantity: decimal.NewFromInt(1), Date: day(1)}))

	err := s.Products().Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestMovementRepo_SumQuantityFiltros(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Adubo", "Yara")
	entries := s.Entries()
	for _, m := range []*entity.Movement{
		{ProductID: p.ID, Quantity: decimal.RequireFromString("100"), Date: day(1)},
		{ProductID: p.ID, Quantity: decimal.RequireFromString("50.125"), Date: day(3)},
	} {
		require.NoError(t, entries.Create(ctx, m))
	}

	total, err := entries.SumQuantity(ctx, repository.SumFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "150.125", total.String())

	to := day(2)
	upTo, err := entries.SumQuantity(ctx, repository.SumFilter{ProductID: p.ID, To: &to})
	require.NoError(t, err)
	assert.Equal(t, "100", upTo.String())

	excl, err := entries.SumQuantity(ctx, repository.SumFilter{ProductID: p.ID, ExcludeID: 1})
	require.NoError(t, err)
	assert.Equal(t, "50.125", excl.String())
}

func TestMovementRepo_ListOrdenFechaDesc(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Adubo", "Yara")
	exits := s.Exits()
	for _, d := range []int{2, 5, 2} {
		require.NoError(t, exits.Create(ctx, &entity.Movement{ProductID: p.ID, Quantity: decimal.NewFromInt(1), Date: day(d)}))
	}

	list, err := exits.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)
	assert.Equal(t, int64(1), list[2].ID)
	assert.Equal(t, entity.KindExit, list[0].Kind)
}

func TestMovementRepo_GetByIDDevuelveCopia(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Adubo", "Yara")
	require.NoError(t, s.Entries().Create(ctx, &entity.Movement{ProductID: p.ID, Quantity: decimal.NewFromInt(5), Date: day(1)}))

	m, err := s.Entries().GetByID(ctx, 1)
	require.NoError(t, err)
	m.Quantity = decimal.NewFromInt(500)

	again, err := s.Entries().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "5", again.Quantity.String())
}

func TestMovementRepo_CreateProductoInexistente(t *testing.T) {
	s := memory.NewStore()
	err := s.Entries().Create(context.Background(), &entity.Movement{ProductID: 7, Quantity: decimal.NewFromInt(1), Date: day(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RunContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(_ repository.ProductRepository, _, _ repository.MovementRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
