package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// CatalogHandler expone las listas de categorías y destinatarios.
type CatalogHandler struct {
	catalog entity.Catalog
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog entity.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Get godoc
// @Summary      Catálogo de categorías y destinatarios
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.CatalogResponse{Categories: h.catalog.Categories, Recipients: h.catalog.Recipients})
}
