package listing_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/listing"
)

var (
	admin    = entity.User{ID: "30530", Name: "Super Admin", Role: entity.RoleAdmin}
	employee = entity.User{ID: "1234", Name: "Sales Associate", Role: entity.RoleEmployee}
)

func lead(id string, origin entity.LeadOrigin, status entity.Status, owner string) entity.Lead {
	return entity.Lead{
		ID: id, Origin: origin, Status: status, EmployeeID: owner,
		CustomerName: "Customer " + id, MobileNumber: "98765432" + id[len(id)-2:],
		SKU: "SKU-" + id, Group: entity.GroupApple,
	}
}

func manyLeads(n int, origin entity.LeadOrigin) []entity.Lead {
	out := make([]entity.Lead, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lead(fmt.Sprintf("L%03d", i), origin, entity.StatusOpen, "1234"))
	}
	return out
}

// ── Filter ────────────────────────────────────────────────────────────────────

func TestFilter_ParticionPorOrigen(t *testing.T) {
	leads := []entity.Lead{
		lead("a01", entity.OriginManual, entity.StatusOpen, "1"),
		lead("b02", entity.OriginBulk, entity.StatusOpen, "1"),
	}

	manual := listing.Filter(leads, listing.ViewManual, listing.Criteria{}, admin)
	bulk := listing.Filter(leads, listing.ViewBulk, listing.Criteria{}, admin)

	require.Len(t, manual, 1)
	assert.Equal(t, "a01", manual[0].ID)
	require.Len(t, bulk, 1)
	assert.Equal(t, "b02", bulk[0].ID)
}

func TestFilter_VisibilidadEmpleado(t *testing.T) {
	leads := []entity.Lead{
		lead("a01", entity.OriginManual, entity.StatusClosed, "1234"),   // propio cerrado
		lead("a02", entity.OriginManual, entity.StatusClosed, "999"),    // ajeno cerrado
		lead("a03", entity.OriginManual, entity.StatusSaleLost, "999"),  // ajeno perdido
		lead("a04", entity.OriginManual, entity.StatusWIP, "999"),       // ajeno abierto
		lead("a05", entity.OriginManual, entity.StatusOpen, "999"),      // ajeno abierto
	}

	got := listing.Filter(leads, listing.ViewManual, listing.Criteria{}, employee)

	ids := make([]string, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.ID)
		assert.True(t, l.EmployeeID == employee.ID || !l.Status.IsTerminal())
	}
	assert.Equal(t, []string{"a01", "a04", "a05"}, ids)
	assert.Len(t, listing.Filter(leads, listing.ViewManual, listing.Criteria{}, admin), 5)
}

func TestFilter_BusquedaYEstado(t *testing.T) {
	a := lead("a01", entity.OriginManual, entity.StatusOpen, "1")
	a.CustomerName = "Jane Doe"
	a.MobileNumber = "9876543210"
	a.SKU = "IPH-16"
	b := lead("a02", entity.OriginManual, entity.StatusWIP, "1")
	b.CustomerName = "Ravi"
	b.MobileNumber = "9123456780"
	leads := []entity.Lead{a, b}

	by := func(c listing.Criteria) int { return len(listing.Filter(leads, listing.ViewManual, c, admin)) }

	assert.Equal(t, 1, by(listing.Criteria{Search: "JANE"}))
	assert.Equal(t, 1, by(listing.Criteria{Search: "43210"}))
	assert.Equal(t, 1, by(listing.Criteria{Search: "iph"}))
	assert.Equal(t, 2, by(listing.Criteria{Search: "a"}))
	assert.Equal(t, 1, by(listing.Criteria{Status: entity.StatusWIP}))
	assert.Equal(t, 0, by(listing.Criteria{Search: "jane", Status: entity.StatusWIP}))
}

func TestFilter_Idempotente(t *testing.T) {
	leads := append(manyLeads(10, entity.OriginManual), lead("x99", entity.OriginManual, entity.StatusClosed, "777"))
	c := listing.Criteria{Search: "customer"}

	once := listing.Filter(leads, listing.ViewManual, c, employee)
	twice := listing.Filter(once, listing.ViewManual, c, employee)

	assert.Equal(t, once, twice)
}

// ── Paginate ──────────────────────────────────────────────────────────────────

func TestPaginate_CubreTodoSinDuplicados(t *testing.T) {
	items := manyLeads(53, entity.OriginManual)
	for _, size := range []int{1, 7, 25, 50, 100} {
		seen := map[string]int{}
		pages := listing.TotalPages(len(items), size)
		for p := 1; p <= pages; p++ {
			for _, l := range listing.Paginate(items, p, size).Items {
				seen[l.ID]++
			}
		}
		assert.Len(t, seen, len(items), "size %d", size)
		for id, n := range seen {
			assert.Equal(t, 1, n, "id %s size %d", id, size)
		}
	}
}

func TestPaginate_AjustaPagina(t *testing.T) {
	items := manyLeads(30, entity.OriginManual)

	p := listing.Paginate(items, 9, 25)
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Items, 5)
	assert.Equal(t, 2, p.TotalPages)

	p = listing.Paginate(nil, 3, 25)
	assert.Equal(t, 1, p.Page)
	assert.Empty(t, p.Items)
}

// ── Session ───────────────────────────────────────────────────────────────────

func TestSession_ReiniciaPaginaAlCambiarVistaOConteo(t *testing.T) {
	leads := append(manyLeads(60, entity.OriginManual), manyLeads(3, entity.OriginBulk)...)
	s := listing.NewSession(admin)

	assert.Equal(t, 1, s.Apply(leads, 0).Page)
	assert.Equal(t, 3, s.Apply(leads, 3).Page)

	// mismo conteo: se respeta la página pedida
	assert.Equal(t, 2, s.Apply(leads, 2).Page)

	// cambia el conteo: vuelve a 1 aunque se pida otra página
	assert.Equal(t, 1, s.Apply(leads[1:], 3).Page)

	// cambia la vista
	require.NoError(t, s.SetView(listing.ViewBulk))
	p := s.Apply(leads[1:], 2)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 3, p.Total)
}

func TestSession_SeleccionSoloAdmin(t *testing.T) {
	leads := manyLeads(5, entity.OriginManual)
	s := listing.NewSession(employee)
	s.Apply(leads, 0)

	assert.ErrorIs(t, s.Toggle(leads[0].ID), domain.ErrForbidden)
	assert.ErrorIs(t, s.ToggleAll(), domain.ErrForbidden)
	_, err := s.TakeSelection()
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSession_SeleccionarTodoAlternaPaginaActual(t *testing.T) {
	leads := manyLeads(30, entity.OriginManual)
	s := listing.NewSession(admin)
	s.Apply(leads, 0)

	require.NoError(t, s.ToggleAll())
	assert.Len(t, s.Selected(), 25)

	require.NoError(t, s.ToggleAll())
	assert.Empty(t, s.Selected())

	require.NoError(t, s.Toggle(leads[3].ID))
	assert.Equal(t, []string{leads[3].ID}, s.Selected())
	assert.ErrorIs(t, s.Toggle(leads[28].ID), domain.ErrNotFound)
}

func TestSession_CambioDeConteoVaciaSeleccion(t *testing.T) {
	leads := manyLeads(10, entity.OriginManual)
	s := listing.NewSession(admin)
	s.Apply(leads, 0)
	require.NoError(t, s.ToggleAll())

	s.Apply(leads[2:], 0)

	assert.Empty(t, s.Selected())
}

func TestSession_CambioDePaginaVaciaSeleccion(t *testing.T) {
	leads := manyLeads(30, entity.OriginManual)
	s := listing.NewSession(admin)
	s.Apply(leads, 1)
	require.NoError(t, s.ToggleAll())
	require.Len(t, s.Selected(), 25)

	p := s.Apply(leads, 2)
	require.Len(t, p.Items, 5)
	assert.Empty(t, s.Selected())

	// seleccionar todo en la página 2 marca sus 5 ids
	require.NoError(t, s.ToggleAll())
	assert.Equal(t, []string{"L025", "L026", "L027", "L028", "L029"}, s.Selected())

	// volver a la página 1 no recupera la selección anterior
	s.Apply(leads, 1)
	assert.Empty(t, s.Selected())
	require.NoError(t, s.ToggleAll())
	assert.Len(t, s.Selected(), 25)
}

func TestSession_CambioDeTamanoVaciaSeleccion(t *testing.T) {
	leads := manyLeads(30, entity.OriginManual)
	s := listing.NewSession(admin)
	s.Apply(leads, 0)
	require.NoError(t, s.ToggleAll())

	require.NoError(t, s.SetPageSize(50))
	p := s.Apply(leads, 0)

	assert.Len(t, p.Items, 30)
	assert.Empty(t, s.Selected())
	require.NoError(t, s.ToggleAll())
	assert.Len(t, s.Selected(), 30)
}

func TestSession_TakeSelectionVacia(t *testing.T) {
	leads := manyLeads(4, entity.OriginManual)
	s := listing.NewSession(admin)
	s.Apply(leads, 0)
	require.NoError(t, s.Toggle(leads[0].ID))
	require.NoError(t, s.Toggle(leads[2].ID))

	ids, err := s.TakeSelection()

	require.NoError(t, err)
	assert.Equal(t, []string{leads[0].ID, leads[2].ID}, ids)
	assert.Empty(t, s.Selected())
}

func TestSession_PageSize(t *testing.T) {
	s := listing.NewSession(admin)
	assert.ErrorIs(t, s.SetPageSize(30), domain.ErrInvalidInput)
	require.NoError(t, s.SetPageSize(100))
	assert.Equal(t, 100, s.PageSize)
}
