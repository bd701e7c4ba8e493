package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/drb-alger/gestion-magasin/internal/application/report"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// ReportHandler descarga de exports (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Inventory godoc
// @Summary      Export del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format    query  string  true   "xlsx o pdf"
// @Param        q         query  string  false  "Nombre contiene"
// @Param        category  query  string  false  "Categoría exacta"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	format, err := report.ParseFormat(c.Query("format", string(report.FormatXLSX)))
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.uc.RenderInventory(c.UserContext(), format, entity.ProductFilter{
		NameContains: c.Query("q"),
		Category:     c.Query("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}

// History godoc
// @Summary      Export del historial
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format      query  string  true   "xlsx o pdf"
// @Param        article     query  string  false  "Nombre contiene"
// @Param        recipient   query  string  false  "Destinatario exacto"
// @Param        type        query  string  false  "ENTREE, SORTIE o Tous"
// @Param        product_id  query  int     false  "Producto"
// @Param        limit       query  int     false  "Máximo de filas"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/history [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	format, err := report.ParseFormat(c.Query("format", string(report.FormatXLSX)))
	if err != nil {
		return writeError(c, err)
	}
	q, err := parseHistoryQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.uc.RenderHistory(c.UserContext(), format, q)
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}

func sendDocument(c *fiber.Ctx, doc *report.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Send(doc.Data)
}
