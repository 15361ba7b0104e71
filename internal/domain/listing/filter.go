// Package listing calcula el subconjunto visible de leads, la ventana de
// paginación y la selección múltiple de la lista.
package listing

import (
	"strings"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// View pestaña activa de la lista.
type View string

const (
	ViewManual View = "manual"
	ViewBulk   View = "bulk"
)

// Valid indica si v pertenece a la enumeración.
func (v View) Valid() bool { return v == ViewManual || v == ViewBulk }

// Origin origen de lead que admite la vista.
func (v View) Origin() entity.LeadOrigin {
	switch v {
	case ViewBulk:
		return entity.OriginBulk
	case ViewManual:
		return entity.OriginManual
	default:
		return entity.OriginManual
	}
}

// Criteria filtros de texto y estado. Los valores vacíos no filtran.
type Criteria struct {
	Search string
	Status entity.Status
}

// Filter aplica, en orden, partición por origen, visibilidad, búsqueda y
// estado. Conserva el orden de la colección (más recientes primero).
func Filter(leads []entity.Lead, view View, c Criteria, user entity.User) []entity.Lead {
	origin := view.Origin()
	search := strings.ToLower(c.Search)
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Origin != origin {
			continue
		}
		if !l.VisibleTo(user) {
			continue
		}
		if !matchesSearch(l, search) {
			continue
		}
		if c.Status != "" && l.Status != c.Status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// matchesSearch busca en nombre y SKU sin distinguir mayúsculas y en el móvil
// tal como está guardado.
func matchesSearch(l entity.Lead, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.CustomerName), search) ||
		strings.Contains(l.MobileNumber, search) ||
		strings.Contains(strings.ToLower(l.SKU), search)
}
