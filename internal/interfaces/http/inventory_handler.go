package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// movementLabels textos y rutas de cada tipo de movimiento.
type movementLabels struct {
	Title    string // Entradas / Saídas
	Singular string // Entrada / Saída
	BasePath string // /entradas, /saidas
	NewPath  string // /entradas/nova
}

func labelsFor(kind entity.MovementKind) movementLabels {
	if kind == entity.KindExit {
		return movementLabels{Title: "Saídas", Singular: "Saída", BasePath: "/saidas", NewPath: "/saidas/nova"}
	}
	return movementLabels{Title: "Entradas", Singular: "Entrada", BasePath: "/entradas", NewPath: "/entradas/nova"}
}

// InventoryHandler maneja las páginas de entradas o salidas (protegido).
type InventoryHandler struct {
	uc       *inventory.MovementUseCase
	products *usecase.ProductUseCase
	labels   movementLabels
}

// NewInventoryHandler construye el handler para el tipo de movimiento del caso de uso.
func NewInventoryHandler(uc *inventory.MovementUseCase, products *usecase.ProductUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, products: products, labels: labelsFor(uc.Kind())}
}

// List GET /entradas | /saidas. Orden: fecha desc.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "movimentos", fiber.Map{
		"Title":     h.labels.Title,
		"Labels":    h.labels,
		"Movements": items,
	})
}

// New GET /entradas/nova | /saidas/nova.
func (h *InventoryHandler) New(c *fiber.Ctx) error {
	data, err := h.formData(c, "Nova "+h.labels.Singular, h.labels.NewPath, dto.MovementForm{})
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "movimento_form", data)
}

// Create POST /entradas/nova | /saidas/nova. Salidas mayores al disponible re-renderizan el
// formulario (422) con el saldo disponible y no se guardan.
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	form, in, err := parseMovementForm(c)
	data, derr := h.formData(c, "Nova "+h.labels.Singular, h.labels.NewPath, form)
	if derr != nil {
		return derr
	}
	if err != nil {
		return renderFormError(c, err, "movimento_form", data)
	}
	if _, err := h.uc.Create(c.UserContext(), in); err != nil {
		return renderFormError(c, err, "movimento_form", data)
	}
	return redirectWithFlash(c, h.labels.BasePath, FlashSuccess, h.labels.Singular+" registrada com sucesso!")
}

// Edit GET /entradas/:id/editar | /saidas/:id/editar.
func (h *InventoryHandler) Edit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	form := dto.MovementForm{
		ProductID: fmt.Sprint(m.ProductID),
		Quantity:  m.Quantity.String(),
		Date:      m.Date.Format(dateLayout),
		Notes:     m.Notes,
	}
	data, err := h.formData(c, "Editar "+h.labels.Singular, h.editPath(id), form)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "movimento_form", data)
}

// Update POST /entradas/:id/editar | /saidas/:id/editar.
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	form, in, err := parseMovementForm(c)
	data, derr := h.formData(c, "Editar "+h.labels.Singular, h.editPath(id), form)
	if derr != nil {
		return derr
	}
	if err != nil {
		return renderFormError(c, err, "movimento_form", data)
	}
	if _, err := h.uc.Update(c.UserContext(), id, in); err != nil {
		return renderFormError(c, err, "movimento_form", data)
	}
	return redirectWithFlash(c, h.labels.BasePath, FlashSuccess, h.labels.Singular+" atualizada com sucesso!")
}

// Delete POST /entradas/:id/deletar | /saidas/:id/deletar.
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return redirectWithFlash(c, h.labels.BasePath, FlashSuccess, h.labels.Singular+" excluída com sucesso!")
}

func (h *InventoryHandler) formData(c *fiber.Ctx, title, action string, form dto.MovementForm) (fiber.Map, error) {
	products, err := h.products.Options(c.UserContext())
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"Title":    title,
		"Action":   action,
		"Labels":   h.labels,
		"Form":     form,
		"Products": products,
	}, nil
}

func (h *InventoryHandler) editPath(id int64) string {
	return fmt.Sprintf("%s/%d/editar", h.labels.BasePath, id)
}
