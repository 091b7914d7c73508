package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalance_SinRedondeo(t *testing.T) {
	got := inventory.Balance(d("100.05"), d("30.025"))
	assert.True(t, d("70.025").Equal(got), "got %s", got)
}

func TestExceeds(t *testing.T) {
	assert.False(t, inventory.Exceeds(d("70"), d("70")), "igual al disponible se acepta")
	assert.True(t, inventory.Exceeds(d("70.0001"), d("70")))
	assert.True(t, inventory.Exceeds(d("1"), d("-5")))
}

func TestExitChange_NeedsStockCheck(t *testing.T) {
	same := inventory.ExitChange{OldProductID: 1, OldQuantity: d("30"), NewProductID: 1, NewQuantity: d("30.0")}
	assert.False(t, same.NeedsStockCheck(), "mismo producto y cantidad no requiere validación")

	more := same
	more.NewQuantity = d("31")
	assert.True(t, more.NeedsStockCheck())

	moved := same
	moved.NewProductID = 2
	assert.True(t, moved.NeedsStockCheck())
}
