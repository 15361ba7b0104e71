package leads

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/listing"
)

// ListUseCase lista paginada con estado por sesión (vista, filtros, página
// y selección).
type ListUseCase struct {
	book *Book

	mu       sync.Mutex
	sessions map[string]*listing.Session
}

// NewListUseCase crea el caso de uso sobre la colección.
func NewListUseCase(book *Book) *ListUseCase {
	return &ListUseCase{book: book, sessions: map[string]*listing.Session{}}
}

// session devuelve (o crea) el estado de la sesión. Debe llamarse con mu tomado.
func (uc *ListUseCase) session(sessionID string, user entity.User) *listing.Session {
	s, ok := uc.sessions[sessionID]
	if !ok || s.User.ID != user.ID {
		s = listing.NewSession(user)
		uc.sessions[sessionID] = s
	}
	return s
}

// List aplica la consulta al estado de la sesión y devuelve la página.
func (uc *ListUseCase) List(sessionID string, user entity.User, q dto.LeadListQuery) (*dto.LeadPageResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.session(sessionID, user)

	if q.View != "" {
		if err := s.SetView(listing.View(strings.ToLower(q.View))); err != nil {
			return nil, err
		}
	}
	if q.PageSize != 0 {
		if err := s.SetPageSize(q.PageSize); err != nil {
			return nil, err
		}
	}
	criteria := listing.Criteria{Search: q.Search}
	if q.Status != "" {
		st, ok := entity.ParseStatus(q.Status)
		if !ok {
			return nil, fmt.Errorf("estado %q: %w", q.Status, domain.ErrInvalidInput)
		}
		criteria.Status = st
	}
	s.Criteria = criteria

	p := s.Apply(uc.book.All(), q.Page)
	return toPageResponse(s, p), nil
}

func toPageResponse(s *listing.Session, p listing.Page) *dto.LeadPageResponse {
	return &dto.LeadPageResponse{
		View:     string(s.View),
		Items:    ToLeadResponses(p.Items),
		Selected: s.Selected(),
		PageResponse: dto.PageResponse{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
			Total:      p.Total,
		},
	}
}

// current recalcula la página vigente sin cambiar filtros. Si la colección
// cambió de tamaño desde la última consulta, la selección se vacía.
func (uc *ListUseCase) current(s *listing.Session) {
	s.Apply(uc.book.All(), 0)
}

// Toggle alterna un id de la página actual en la selección.
func (uc *ListUseCase) Toggle(sessionID string, user entity.User, id string) (*dto.SelectionResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.session(sessionID, user)
	uc.current(s)
	if err := s.Toggle(id); err != nil {
		return nil, err
	}
	return &dto.SelectionResponse{Selected: s.Selected()}, nil
}

// ToggleAll alterna la selección de toda la página actual.
func (uc *ListUseCase) ToggleAll(sessionID string, user entity.User) (*dto.SelectionResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.session(sessionID, user)
	uc.current(s)
	if err := s.ToggleAll(); err != nil {
		return nil, err
	}
	return &dto.SelectionResponse{Selected: s.Selected()}, nil
}

// DeleteSelected borra los leads seleccionados y vacía la selección.
func (uc *ListUseCase) DeleteSelected(ctx context.Context, sessionID string, user entity.User) (int, error) {
	uc.mu.Lock()
	s := uc.session(sessionID, user)
	uc.current(s)
	ids, err := s.TakeSelection()
	uc.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return uc.book.DeleteMany(ctx, user, ids)
}

// Forget descarta el estado de una sesión (logout).
func (uc *ListUseCase) Forget(sessionID string) {
	uc.mu.Lock()
	delete(uc.sessions, sessionID)
	uc.mu.Unlock()
}
