package leads

import (
	"strings"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/validation"
)

// FormFromRequest traduce la entrada HTTP/CLI al formulario del dominio.
func FormFromRequest(in dto.LeadRequest) validation.EntryForm {
	return validation.EntryForm{
		Date:               strings.TrimSpace(in.Date),
		EmployeeName:       strings.TrimSpace(in.EmployeeName),
		CustomerName:       strings.TrimSpace(in.CustomerName),
		MobileNumber:       strings.TrimSpace(in.MobileNumber),
		Group:              entity.ProductGroup(strings.TrimSpace(in.Group)),
		Description:        in.Description,
		ProductDescription: in.ProductDescription,
		SKU:                strings.TrimSpace(in.SKU),
		SKUDescription:     in.SKUDescription,
		Status:             entity.Status(strings.TrimSpace(in.Status)),
		BillNumber:         strings.TrimSpace(in.BillNumber),
		ReasonLost:         strings.TrimSpace(in.ReasonLost),
	}
}

// ToLeadResponse convierte un lead a su DTO.
func ToLeadResponse(l entity.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:                 l.ID,
		Date:               l.Date,
		EmployeeName:       l.EmployeeName,
		EmployeeID:         l.EmployeeID,
		CustomerName:       l.CustomerName,
		MobileNumber:       l.MobileNumber,
		Group:              string(l.Group),
		Description:        l.Description,
		ProductDescription: l.ProductDescription,
		SKU:                l.SKU,
		SKUDescription:     l.SKUDescription,
		Status:             string(l.Status),
		Origin:             string(l.Origin),
		BillNumber:         l.BillNumber,
		ReasonLost:         l.ReasonLost,
		CreatedAt:          l.CreatedAt,
	}
}

// ToLeadResponses convierte una lista; nunca devuelve nil.
func ToLeadResponses(ls []entity.Lead) []dto.LeadResponse {
	out := make([]dto.LeadResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, ToLeadResponse(l))
	}
	return out
}
