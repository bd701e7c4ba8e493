package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
)

// InventoryHandler maneja los movimientos de stock de un producto (protegido).
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Allocate godoc
// @Summary      Afectación (salida hacia un service)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.AllocateRequest  true  "quantity, recipient, observation"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/allocations [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.ProductID = id
	out, err := h.uc.Allocate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Restock godoc
// @Summary      Registrar entrada o salida con fecha opcional
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "type (ENTREE|SORTIE), quantity, recipient, observation, date"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.ProductID = id
	out, err := h.uc.Restock(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
