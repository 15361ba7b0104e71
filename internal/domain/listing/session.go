package listing

import (
	"fmt"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// Session estado de la lista de un usuario: vista, filtros, página y
// selección. La página vuelve a 1 y la selección se vacía cuando cambia la
// vista o el tamaño del subconjunto visible. Cambiar de página o de tamaño de
// página también vacía la selección.
type Session struct {
	User     entity.User
	View     View
	Criteria Criteria
	Page     int
	PageSize int

	lastView  View
	lastCount int
	lastPage  int
	lastSize  int
	primed    bool
	pageIDs   []string
	selected  map[string]struct{}
}

// NewSession crea el estado inicial (vista manual, página 1, 25 por página).
func NewSession(u entity.User) *Session {
	return &Session{
		User:     u,
		View:     ViewManual,
		Page:     1,
		PageSize: DefaultPageSize,
		selected: map[string]struct{}{},
	}
}

// SetView cambia la pestaña activa.
func (s *Session) SetView(v View) error {
	if !v.Valid() {
		return fmt.Errorf("vista %q: %w", v, domain.ErrInvalidInput)
	}
	s.View = v
	return nil
}

// SetPageSize cambia el tamaño de página; vuelve a la página 1.
func (s *Session) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		return fmt.Errorf("tamaño de página %d: %w", n, domain.ErrInvalidInput)
	}
	if n != s.PageSize {
		s.PageSize = n
		s.Page = 1
	}
	return nil
}

// Apply recalcula el subconjunto visible y la página actual. Si requested > 0
// y no hubo reinicio, se navega a esa página (ajustada al rango).
func (s *Session) Apply(leads []entity.Lead, requested int) Page {
	visible := Filter(leads, s.View, s.Criteria, s.User)

	reset := s.primed && (s.View != s.lastView || len(visible) != s.lastCount)
	if reset {
		s.Page = 1
		s.clearSelection()
	} else if requested > 0 {
		s.Page = requested
	}
	s.primed = true
	s.lastView = s.View
	s.lastCount = len(visible)

	p := Paginate(visible, s.Page, s.PageSize)
	s.Page = p.Page
	// La selección pertenece a una página concreta.
	if p.Page != s.lastPage || s.PageSize != s.lastSize {
		s.clearSelection()
	}
	s.lastPage = p.Page
	s.lastSize = s.PageSize
	s.pageIDs = s.pageIDs[:0]
	for _, l := range p.Items {
		s.pageIDs = append(s.pageIDs, l.ID)
	}
	return p
}

// ── Selección (sólo administradores) ─────────────────────────────────────────

func (s *Session) requireAdmin() error {
	if !s.User.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Toggle marca o desmarca un id de la página actual.
func (s *Session) Toggle(id string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if !s.onPage(id) {
		return fmt.Errorf("lead %s fuera de la página actual: %w", id, domain.ErrNotFound)
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
	return nil
}

// ToggleAll alterna entre selección vacía y todos los ids de la página actual.
func (s *Session) ToggleAll() error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if len(s.Selected()) > 0 {
		s.clearSelection()
		return nil
	}
	for _, id := range s.pageIDs {
		s.selected[id] = struct{}{}
	}
	return nil
}

// Selected devuelve los ids seleccionados en el orden de la página.
func (s *Session) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for _, id := range s.pageIDs {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// TakeSelection devuelve la selección y la vacía (borrado múltiple).
func (s *Session) TakeSelection() ([]string, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	ids := s.Selected()
	s.clearSelection()
	return ids, nil
}

func (s *Session) clearSelection() {
	s.selected = map[string]struct{}{}
}

func (s *Session) onPage(id string) bool {
	for _, pid := range s.pageIDs {
		if pid == id {
			return true
		}
	}
	return false
}
