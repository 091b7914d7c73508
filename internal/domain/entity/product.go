package entity

import (
	"fmt"
	"time"
)

// SKUPrefix prefijo del código legible de producto.
const SKUPrefix = "PRD"

// Product representa un producto del inventario.
// SKU se asigna una sola vez al crear y no se modifica después.
type Product struct {
	ID        int64
	SKU       string
	Name      string
	Brand     string
	Unit      string // unidad de medida libre: litros, mg, kg...
	CreatedAt time.Time
}

// SKUFor genera el SKU a partir del id sustituto: PRD0001, PRD0042, PRD12345.
func SKUFor(id int64) string {
	return fmt.Sprintf("%s%04d", SKUPrefix, id)
}
