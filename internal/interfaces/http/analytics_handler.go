package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
)

// AnalyticsHandler indicadores de conversión.
type AnalyticsHandler struct {
	uc *analytics.SummaryUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.SummaryUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de conversión
// @Description  Conteos por estado, tasa de conversión (Closed / total, un decimal)
// @Description  y desempeño por grupo de producto. Solo administradores.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen de conversión en PDF
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/summary.pdf [get]
func (h *AnalyticsHandler) SummaryPDF(c *fiber.Ctx) error {
	rep, err := h.uc.SummaryPDF(c.UserContext(), CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendReport(c, rep)
}

// sendReport escribe un archivo como adjunto.
func sendReport(c *fiber.Ctx, rep export.Report) error {
	c.Attachment(rep.Filename)
	c.Set(fiber.HeaderContentType, rep.ContentType)
	return c.Send(rep.Content)
}
