package leads_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/importer"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/memstore"
)

func seedBulk(t *testing.T, b *leads.Book, n int) {
	t.Helper()
	batch := make([]importer.Candidate, n)
	for i := range batch {
		batch[i] = importer.Candidate{
			CustomerName: fmt.Sprintf("Customer %02d", i),
			MobileNumber: "9876543210",
			Group:        entity.GroupApple,
			Status:       entity.StatusOpen,
		}
	}
	_, err := b.AddBatch(context.Background(), admin, batch)
	require.NoError(t, err)
}

func TestList_PaginaYVista(t *testing.T) {
	store := memstore.New()
	defer store.Close()
	b := newBook(t, store)
	seedBulk(t, b, 30)
	uc := leads.NewListUseCase(b)

	manual, err := uc.List("s1", admin, dto.LeadListQuery{})
	require.NoError(t, err)
	assert.Equal(t, "manual", manual.View)
	assert.Zero(t, manual.Total)
	assert.Equal(t, 1, manual.TotalPages)

	page, err := uc.List("s1", admin, dto.LeadListQuery{View: "bulk"})
	require.NoError(t, err)
	assert.Equal(t, 30, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 25)

	page, err = uc.List("s1", admin, dto.LeadListQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "bulk", page.View)
}

func TestList_ConsultaInvalida(t *testing.T) {
	store := memstore.New()
	defer store.Close()
	uc := leads.NewListUseCase(newBook(t, store))

	_, err := uc.List("s", admin, dto.LeadListQuery{View: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List("s", admin, dto.LeadListQuery{PageSize: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List("s", admin, dto.LeadListQuery{Status: "Pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_SeleccionYBorrado(t *testing.T) {
	store := memstore.New()
	defer store.Close()
	b := newBook(t, store)
	seedBulk(t, b, 3)
	uc := leads.NewListUseCase(b)
	ctx := context.Background()

	page, err := uc.List("s", admin, dto.LeadListQuery{View: "bulk"})
	require.NoError(t, err)

	sel, err := uc.Toggle("s", admin, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{page.Items[0].ID}, sel.Selected)

	_, err = uc.Toggle("s", admin, "not-on-page")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := uc.DeleteSelected(ctx, "s", admin)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, b.Len())

	page, err = uc.List("s", admin, dto.LeadListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Selected)

	sel, err = uc.ToggleAll("s", admin)
	require.NoError(t, err)
	assert.Len(t, sel.Selected, 2)
	sel, err = uc.ToggleAll("s", admin)
	require.NoError(t, err)
	assert.Empty(t, sel.Selected)
}

func TestList_SeleccionNoAdmin(t *testing.T) {
	store := memstore.New()
	defer store.Close()
	uc := leads.NewListUseCase(newBook(t, store))

	_, err := uc.ToggleAll("s", employee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.DeleteSelected(context.Background(), "s", employee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
