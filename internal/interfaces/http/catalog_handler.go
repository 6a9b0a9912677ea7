package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bitmx/cotizador-api/internal/application/catalog"
	"github.com/bitmx/cotizador-api/internal/application/dto"
)

// CatalogHandler expone las lecturas de catálogo y directorio que alimentan la
// captura de cotizaciones (protegido).
type CatalogHandler struct {
	uc *catalog.LookupUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.LookupUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Products lista productos activos del catálogo.
// GET /api/products
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de página inválidos"})
	}
	out, err := h.uc.Products(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Customers lista clientes del directorio.
// GET /api/customers
func (h *CatalogHandler) Customers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de página inválidos"})
	}
	out, err := h.uc.Customers(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Contacts lista los contactos activos de un cliente.
// GET /api/customers/:id/contacts
func (h *CatalogHandler) Contacts(c *fiber.Ctx) error {
	out, err := h.uc.Contacts(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
