// Package reports genera los archivos de exportación de la colección.
package reports

import (
	"fmt"
	"time"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
	"github.com/jhoicas/conversion-pro/internal/domain/stats"
)

// XLSXContentType tipo MIME de un libro xlsx.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpreadsheetWriter serializa la colección como libro xlsx.
type SpreadsheetWriter interface {
	WriteLeads(leads []entity.Lead, sum stats.Summary) ([]byte, error)
}

// LeadSource colección completa de leads.
type LeadSource interface {
	All() []entity.Lead
}

// ExportUseCase reporte de ventas (sólo administradores). Una colección
// vacía no genera archivo: devuelve domain.ErrEmptyCollection.
type ExportUseCase struct {
	leads  LeadSource
	sheets SpreadsheetWriter
	now    func() time.Time
}

// NewExportUseCase construye el caso de uso. sheets puede ser nil (sólo CSV).
func NewExportUseCase(leads LeadSource, sheets SpreadsheetWriter) *ExportUseCase {
	return &ExportUseCase{leads: leads, sheets: sheets, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ExportUseCase) WithClock(now func() time.Time) *ExportUseCase {
	uc.now = now
	return uc
}

func (uc *ExportUseCase) collection(user entity.User) ([]entity.Lead, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	all := uc.leads.All()
	if len(all) == 0 {
		return nil, domain.ErrEmptyCollection
	}
	return all, nil
}

// CSV reporte delimitado por comas (cabecera + una línea por lead).
func (uc *ExportUseCase) CSV(user entity.User) (export.Report, error) {
	all, err := uc.collection(user)
	if err != nil {
		return export.Report{}, err
	}
	rep, ok := export.CSV(all, uc.now())
	if !ok {
		return export.Report{}, domain.ErrEmptyCollection
	}
	return rep, nil
}

// XLSX libro con la hoja de leads y la hoja de resumen.
func (uc *ExportUseCase) XLSX(user entity.User) (export.Report, error) {
	if uc.sheets == nil {
		return export.Report{}, fmt.Errorf("xlsx no configurado: %w", domain.ErrInvalidInput)
	}
	all, err := uc.collection(user)
	if err != nil {
		return export.Report{}, err
	}
	content, err := uc.sheets.WriteLeads(all, stats.Summarize(all))
	if err != nil {
		return export.Report{}, fmt.Errorf("exportar xlsx: %w", err)
	}
	return export.Report{
		Filename:    export.Filename(uc.now(), "xlsx"),
		ContentType: XLSXContentType,
		Content:     content,
	}, nil
}
