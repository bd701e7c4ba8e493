package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain"
)

// HistoryHandler consulta del historial de movimientos (protegido).
type HistoryHandler struct {
	uc *inventory.HistoryUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *inventory.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// Query godoc
// @Summary      Historial de movimientos
// @Description  Más recientes primero. resulting_stock es el stock actual del producto.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        article     query  string  false  "Nombre contiene"
// @Param        recipient   query  string  false  "Destinatario exacto"
// @Param        type        query  string  false  "ENTREE, SORTIE o Tous"
// @Param        product_id  query  int     false  "Producto (prioridad sobre article)"
// @Param        limit       query  int     false  "Máximo de filas"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *HistoryHandler) Query(c *fiber.Ctx) error {
	q, err := parseHistoryQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Query(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseHistoryQuery lee los filtros del historial de la query string.
func parseHistoryQuery(c *fiber.Ctx) (dto.HistoryQuery, error) {
	q := dto.HistoryQuery{
		Article:   c.Query("article"),
		Recipient: c.Query("recipient"),
		Type:      c.Query("type"),
	}
	if s := c.Query("product_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return q, domain.Invalid("product_id", "debe ser un entero positivo")
		}
		q.ProductID = &id
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, domain.Invalid("limit", "debe ser un entero")
		}
		q.Limit = n
	}
	return q, nil
}
