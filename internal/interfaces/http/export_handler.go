package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/reports"
)

// ExportHandler descarga de la colección completa.
type ExportHandler struct {
	uc *reports.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *reports.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// CSV godoc
// @Summary      Exportar leads a CSV
// @Description  Sin contenido (204) si no hay leads.
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/exports/leads.csv [get]
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	rep, err := h.uc.CSV(CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendReport(c, rep)
}

// XLSX godoc
// @Summary      Exportar leads a Excel
// @Description  Hoja Leads con la misma estructura del CSV y hoja Summary con los indicadores.
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/exports/leads.xlsx [get]
func (h *ExportHandler) XLSX(c *fiber.Ctx) error {
	rep, err := h.uc.XLSX(CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendReport(c, rep)
}
