package listing

import "github.com/jhoicas/conversion-pro/internal/domain/entity"

// DefaultPageSize tamaño de página inicial.
const DefaultPageSize = 25

// PageSizes tamaños de página seleccionables.
func PageSizes() []int { return []int{25, 50, 100, 250} }

// ValidPageSize indica si n es uno de los tamaños seleccionables.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes() {
		if s == n {
			return true
		}
	}
	return false
}

// Page ventana sobre el subconjunto filtrado.
type Page struct {
	Items      []entity.Lead
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// TotalPages devuelve ceil(count/size); nunca menor que 1.
func TotalPages(count, size int) int {
	if size < 1 {
		size = 1
	}
	n := (count + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage ajusta page al rango [1, TotalPages].
func ClampPage(page, count, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(count, size); page > last {
		return last
	}
	return page
}

// Paginate corta la página solicitada (1-based, ajustada al rango válido).
func Paginate(items []entity.Lead, page, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	page = ClampPage(page, len(items), size)
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return Page{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(items), size),
		Total:      len(items),
	}
}
