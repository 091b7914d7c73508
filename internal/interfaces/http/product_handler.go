package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain"
)

// ProductHandler maneja las páginas de productos (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List GET /produtos?search=. Búsqueda por nombre o marca; cada fila muestra el stock actual.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	search := c.Query("search")
	items, err := h.uc.List(c.UserContext(), search)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "produtos", fiber.Map{
		"Title":    "Produtos",
		"Products": items,
		"Search":   search,
	})
}

// New GET /produtos/novo.
func (h *ProductHandler) New(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "produto_form", productFormData("Novo Produto", "/produtos/novo", dto.ProductForm{}, ""))
}

// Create POST /produtos/novo.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	form, err := parseProductForm(c)
	data := productFormData("Novo Produto", "/produtos/novo", form, "")
	if err != nil {
		return renderFormError(c, err, "produto_form", data)
	}
	out, err := h.uc.Create(c.UserContext(), form)
	if err != nil {
		return renderFormError(c, err, "produto_form", data)
	}
	return redirectWithFlash(c, "/produtos", FlashSuccess, fmt.Sprintf("Produto %s cadastrado com sucesso!", out.SKU))
}

// Edit GET /produtos/:id/editar. El SKU se muestra solo lectura.
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	form := dto.ProductForm{Name: p.Name, Brand: p.Brand, Unit: p.Unit}
	return render(c, fiber.StatusOK, "produto_form", productFormData("Editar Produto", editProductPath(id), form, p.SKU))
}

// Update POST /produtos/:id/editar.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	form, err := parseProductForm(c)
	data := productFormData("Editar Produto", editProductPath(id), form, p.SKU)
	if err != nil {
		return renderFormError(c, err, "produto_form", data)
	}
	if _, err := h.uc.Update(c.UserContext(), id, form); err != nil {
		return renderFormError(c, err, "produto_form", data)
	}
	return redirectWithFlash(c, "/produtos", FlashSuccess, "Produto atualizado com sucesso!")
}

// Delete POST /produtos/:id/deletar. Con movimientos registrados no se elimina.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		var inUse *domain.ProductInUseError
		if errors.As(err, &inUse) {
			return redirectWithFlash(c, "/produtos", FlashError,
				fmt.Sprintf("Não é possível excluir o produto %s: existem %d movimentações registradas.", inUse.SKU, inUse.Movements))
		}
		if errors.Is(err, domain.ErrConflict) {
			return redirectWithFlash(c, "/produtos", FlashError, "Não é possível excluir o produto: existem movimentações registradas.")
		}
		return err
	}
	return redirectWithFlash(c, "/produtos", FlashSuccess, "Produto excluído com sucesso!")
}

func productFormData(title, action string, form dto.ProductForm, sku string) fiber.Map {
	return fiber.Map{"Title": title, "Action": action, "Form": form, "SKU": sku}
}

func editProductPath(id int64) string {
	return fmt.Sprintf("/produtos/%d/editar", id)
}
