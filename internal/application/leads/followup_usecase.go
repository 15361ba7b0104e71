package leads

import (
	"fmt"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/pkg/phone"
)

// FollowUpUseCase enlaces de llamada y WhatsApp para leads abiertos.
type FollowUpUseCase struct {
	book   *Book
	region string
}

// NewFollowUpUseCase construye el caso de uso; region es la región por
// defecto de los móviles sin prefijo internacional (p. ej. "IN").
func NewFollowUpUseCase(book *Book, region string) *FollowUpUseCase {
	return &FollowUpUseCase{book: book, region: region}
}

// Links devuelve los enlaces del lead. Los leads Closed o Sale Lost ya no
// admiten seguimiento.
func (uc *FollowUpUseCase) Links(user entity.User, id string) (*dto.FollowUpResponse, error) {
	l, err := uc.book.Get(user, id)
	if err != nil {
		return nil, err
	}
	if l.Status.IsTerminal() {
		return nil, fmt.Errorf("lead en estado %s: %w", l.Status, domain.ErrConflict)
	}
	links, err := phone.FollowUp(l.MobileNumber, uc.region)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &dto.FollowUpResponse{
		LeadID:   l.ID,
		Customer: l.CustomerName,
		E164:     links.E164,
		Tel:      links.Tel,
		WhatsApp: links.WhatsApp,
	}, nil
}
