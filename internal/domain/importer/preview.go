package importer

import (
	"fmt"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// Preview lote importado pendiente de confirmar. Sólo vive en memoria;
// nada se persiste hasta el commit.
type Preview struct {
	Filename      string
	DefaultStatus entity.Status
	Records       []Candidate
	Rejected      []RowError
}

// NewPreview construye la vista previa a partir del resultado del parser.
func NewPreview(filename string, defaultStatus entity.Status, res Result) *Preview {
	return &Preview{
		Filename:      filename,
		DefaultStatus: defaultStatus,
		Records:       res.Records,
		Rejected:      res.Rejected,
	}
}

// ValidDefaultStatus indica si s puede usarse como estado por defecto.
func ValidDefaultStatus(s entity.Status) bool {
	return s == entity.StatusOpen || s == entity.StatusWIP
}

// SetDefaultStatus cambia el estado por defecto y reetiqueta todas las filas
// de la vista previa, incluidas las que traían estado propio.
func (p *Preview) SetDefaultStatus(s entity.Status) error {
	if !ValidDefaultStatus(s) {
		return fmt.Errorf("estado por defecto %q: %w", s, domain.ErrInvalidInput)
	}
	p.DefaultStatus = s
	for i := range p.Records {
		p.Records[i].Status = s
	}
	return nil
}

// DeleteRow quita la fila i (0-based) de la vista previa.
func (p *Preview) DeleteRow(i int) error {
	if i < 0 || i >= len(p.Records) {
		return fmt.Errorf("fila %d: %w", i, domain.ErrNotFound)
	}
	p.Records = append(p.Records[:i], p.Records[i+1:]...)
	return nil
}
