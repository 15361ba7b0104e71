// Package analytics contiene los casos de uso del resumen del administrador.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
	"github.com/jhoicas/conversion-pro/internal/domain/stats"
)

// SummaryPDFGenerator renderiza el resumen como PDF.
type SummaryPDFGenerator interface {
	GenerateSummaryPDF(ctx context.Context, sum stats.Summary, generatedAt time.Time) ([]byte, error)
}

// LeadSource colección completa de leads.
type LeadSource interface {
	All() []entity.Lead
}

// SummaryUseCase cifras del resumen sobre la colección completa.
//
// El cálculo es puro (stats.Summarize); el caso de uso sólo controla el
// acceso y el formato de salida.
type SummaryUseCase struct {
	leads LeadSource
	pdf   SummaryPDFGenerator
	now   func() time.Time
}

// NewSummaryUseCase construye el caso de uso. pdf puede ser nil si no se
// expone la descarga en PDF.
func NewSummaryUseCase(leads LeadSource, pdf SummaryPDFGenerator) *SummaryUseCase {
	return &SummaryUseCase{leads: leads, pdf: pdf, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SummaryUseCase) WithClock(now func() time.Time) *SummaryUseCase {
	uc.now = now
	return uc
}

// Compute devuelve el resumen (sólo administradores).
func (uc *SummaryUseCase) Compute(user entity.User) (stats.Summary, error) {
	if !user.IsAdmin() {
		return stats.Summary{}, domain.ErrForbidden
	}
	return stats.Summarize(uc.leads.All()), nil
}

// GetSummary construye el SummaryResponse.
func (uc *SummaryUseCase) GetSummary(user entity.User) (*dto.SummaryResponse, error) {
	sum, err := uc.Compute(user)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponse(sum), nil
}

// SummaryPDF genera el resumen en PDF.
func (uc *SummaryUseCase) SummaryPDF(ctx context.Context, user entity.User) (export.Report, error) {
	if uc.pdf == nil {
		return export.Report{}, fmt.Errorf("pdf no configurado: %w", domain.ErrInvalidInput)
	}
	sum, err := uc.Compute(user)
	if err != nil {
		return export.Report{}, err
	}
	now := uc.now()
	content, err := uc.pdf.GenerateSummaryPDF(ctx, sum, now)
	if err != nil {
		return export.Report{}, fmt.Errorf("resumen pdf: %w", err)
	}
	return export.Report{
		Filename:    "summary_" + now.Format("2006-01-02") + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// ToSummaryResponse convierte el resumen a su DTO.
func ToSummaryResponse(sum stats.Summary) *dto.SummaryResponse {
	groups := make([]dto.GroupPerformanceDTO, 0, len(sum.Groups))
	for _, g := range sum.Groups {
		groups = append(groups, dto.GroupPerformanceDTO{
			Group:  string(g.Group),
			Count:  g.Count,
			Closed: g.Closed,
			Rate:   g.Rate,
		})
	}
	return &dto.SummaryResponse{
		Total:          sum.Total,
		Open:           sum.ByStatus.Open,
		WIP:            sum.ByStatus.WIP,
		Closed:         sum.ByStatus.Closed,
		SaleLost:       sum.ByStatus.SaleLost,
		ConversionRate: sum.ConversionLabel(),
		Groups:         groups,
	}
}
