package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/application/auth"
	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/application/imports"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/application/reports"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/kvrepo"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/memstore"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/conversion-pro/internal/interfaces/http"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

type api struct {
	app  *fiber.App
	book *leads.Book
}

func newAPI(t *testing.T) api {
	t.Helper()
	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })

	book := leads.NewBook(kvrepo.NewLeadRepository(store, zerolog.Nop()), zerolog.Nop(), nil)
	require.NoError(t, book.Start(context.Background()))
	t.Cleanup(book.Stop)

	sheets := spreadsheet.New()
	authUC := auth.NewAuthUseCase([]auth.Credential{
		{ID: "30530", Password: "admin123", Name: "Super Admin", Role: entity.RoleAdmin},
		{ID: "1234", Password: "emp123", Name: "Sales Associate", Role: entity.RoleEmployee},
	}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(false)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		Book:       book,
		ListUC:     leads.NewListUseCase(book),
		FollowUpUC: leads.NewFollowUpUseCase(book, "IN"),
		ImportUC:   imports.NewImportUseCase(book, sheets, imports.Options{}, zerolog.Nop(), nil),
		SummaryUC:  analytics.NewSummaryUseCase(book, nil),
		ExportUC:   reports.NewExportUseCase(book, sheets),
		JWTSecret:  testJWTSecret,
	})
	return api{app: app, book: book}
}

func (a api) login(t *testing.T, id, password string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{ID: id, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return "Bearer " + out.Token
}

func (a api) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func lead() dto.LeadRequest {
	return dto.LeadRequest{
		EmployeeName: "Sales Associate",
		CustomerName: "Jane Doe",
		MobileNumber: "9876543210",
		Description:  "iPhone 15",
	}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{ID: "30530", Password: "x"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{ID: "30530"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMe_DevuelveUsuarioDelToken(t *testing.T) {
	a := newAPI(t)
	tok := a.login(t, "1234", "emp123")

	var me dto.UserResponse
	decode(t, a.do(t, http.MethodGet, "/api/auth/me", tok, nil), &me)
	assert.Equal(t, dto.UserResponse{ID: "1234", Name: "Sales Associate", Role: "EMPLOYEE"}, me)
}

func TestRutasProtegidas_SinToken401(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodGet, "/api/leads", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ── Leads ─────────────────────────────────────────────────────────────────────

func TestCrearLead_EmpleadoYValidacion(t *testing.T) {
	a := newAPI(t)
	tok := a.login(t, "1234", "emp123")

	resp := a.do(t, http.MethodPost, "/api/leads", tok, lead())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.LeadResponse
	decode(t, resp, &created)
	assert.Equal(t, "9876543210", created.MobileNumber)
	assert.Equal(t, "Sales Associate", created.EmployeeName)

	bad := lead()
	bad.MobileNumber = "123"
	bad.CustomerName = ""
	resp = a.do(t, http.MethodPost, "/api/leads", tok, bad)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var verr dto.ValidationErrorResponse
	decode(t, resp, &verr)
	assert.Contains(t, verr.Fields, "mobileNumber")
	assert.Contains(t, verr.Fields, "customerName")
}

func TestBorrarLead_SoloAdmin(t *testing.T) {
	a := newAPI(t)
	emp := a.login(t, "1234", "emp123")
	adm := a.login(t, "30530", "admin123")

	var created dto.LeadResponse
	decode(t, a.do(t, http.MethodPost, "/api/leads", emp, lead()), &created)

	resp := a.do(t, http.MethodDelete, "/api/leads/"+created.ID, emp, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodDelete, "/api/leads/"+created.ID, adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/leads/"+created.ID, adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListar_EmpleadoSoloVeLosSuyos(t *testing.T) {
	a := newAPI(t)
	emp := a.login(t, "1234", "emp123")
	adm := a.login(t, "30530", "admin123")

	a.do(t, http.MethodPost, "/api/leads", emp, lead()).Body.Close()
	a.do(t, http.MethodPost, "/api/leads", adm, lead()).Body.Close()

	var page dto.LeadPageResponse
	decode(t, a.do(t, http.MethodGet, "/api/leads?view=manual", emp, nil), &page)
	assert.Equal(t, 1, page.Total)

	decode(t, a.do(t, http.MethodGet, "/api/leads?view=manual&page_size=50", adm, nil), &page)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 50, page.PageSize)

	resp := a.do(t, http.MethodGet, "/api/leads?status=Pending", adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWipe_RequiereConfirmacion(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")
	a.do(t, http.MethodPost, "/api/leads", adm, lead()).Body.Close()

	resp := a.do(t, http.MethodDelete, "/api/leads/all", adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)
	assert.Equal(t, 1, a.book.Len())

	var out dto.CountResponse
	decode(t, a.do(t, http.MethodDelete, "/api/leads?origin=Manual&confirm=true", adm, nil), &out)
	assert.Equal(t, 1, out.Deleted)
	assert.Zero(t, a.book.Len())
}

func TestSeleccion_BorraLosMarcados(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")
	var l1, l2 dto.LeadResponse
	decode(t, a.do(t, http.MethodPost, "/api/leads", adm, lead()), &l1)
	decode(t, a.do(t, http.MethodPost, "/api/leads", adm, lead()), &l2)

	a.do(t, http.MethodGet, "/api/leads?view=manual", adm, nil).Body.Close()
	var sel dto.SelectionResponse
	decode(t, a.do(t, http.MethodPost, "/api/leads/selection/toggle", adm, dto.SelectionRequest{ID: l2.ID}), &sel)
	assert.Equal(t, []string{l2.ID}, sel.Selected)

	var out dto.CountResponse
	decode(t, a.do(t, http.MethodDelete, "/api/leads/selection", adm, nil), &out)
	assert.Equal(t, 1, out.Deleted)
	assert.Equal(t, 1, a.book.Len())
}

func TestFollowUp_EnlacesYCerrado(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")
	var l dto.LeadResponse
	decode(t, a.do(t, http.MethodPost, "/api/leads", adm, lead()), &l)

	var fu dto.FollowUpResponse
	decode(t, a.do(t, http.MethodGet, "/api/leads/"+l.ID+"/follow-up", adm, nil), &fu)
	assert.Equal(t, "tel:+919876543210", fu.Tel)
	assert.True(t, strings.HasPrefix(fu.WhatsApp, "https://wa.me/919876543210"))

	closed := lead()
	closed.Status = "Closed"
	closed.BillNumber = "B-1"
	a.do(t, http.MethodPut, "/api/leads/"+l.ID, adm, closed).Body.Close()

	resp := a.do(t, http.MethodGet, "/api/leads/"+l.ID+"/follow-up", adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ── Importación ───────────────────────────────────────────────────────────────

func upload(t *testing.T, a api, token, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("default_status", "WIP"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", token)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestImportacion_SubirYConfirmar(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")
	csv := "Customer Name,Mobile No\nJane,9876543210\nJohn,12345\n"

	resp := upload(t, a, adm, "leads.csv", csv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ImportPreviewResponse
	decode(t, resp, &p)
	require.Len(t, p.Records, 1)
	assert.Equal(t, "WIP", p.Records[0].Status)
	assert.Len(t, p.Rejected, 1)

	var out dto.ImportCommitResponse
	resp = a.do(t, http.MethodPost, "/api/imports/"+p.ID+"/commit", adm, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &out)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, "Bulk", out.Leads[0].Origin)

	resp = a.do(t, http.MethodGet, "/api/imports/"+p.ID, adm, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PREVIEW_NOT_FOUND")
}

func TestImportacion_EmpleadoBloqueado(t *testing.T) {
	a := newAPI(t)
	emp := a.login(t, "1234", "emp123")
	resp := upload(t, a, emp, "leads.csv", "Customer Name,Mobile No\n")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── Analítica y exportación ───────────────────────────────────────────────────

func TestExportCSV_VacioYConDatos(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")

	resp := a.do(t, http.MethodGet, "/api/exports/leads.csv", adm, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	a.do(t, http.MethodPost, "/api/leads", adm, lead()).Body.Close()
	resp = a.do(t, http.MethodGet, "/api/exports/leads.csv", adm, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales_report_")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Jane Doe")
}

func TestResumen_TasaDeConversion(t *testing.T) {
	a := newAPI(t)
	adm := a.login(t, "30530", "admin123")
	a.do(t, http.MethodPost, "/api/leads", adm, lead()).Body.Close()
	closed := lead()
	closed.Status = "Closed"
	closed.BillNumber = "B-7"
	a.do(t, http.MethodPost, "/api/leads", adm, closed).Body.Close()

	var sum dto.SummaryResponse
	decode(t, a.do(t, http.MethodGet, "/api/analytics/summary", adm, nil), &sum)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Closed)
	assert.Equal(t, "50.0", sum.ConversionRate)

	emp := a.login(t, "1234", "emp123")
	resp := a.do(t, http.MethodGet, "/api/analytics/summary", emp, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMeta_Enumeraciones(t *testing.T) {
	a := newAPI(t)
	tok := a.login(t, "1234", "emp123")
	var meta dto.MetaResponse
	decode(t, a.do(t, http.MethodGet, "/api/meta", tok, nil), &meta)
	assert.Equal(t, []int{25, 50, 100, 250}, meta.PageSizes)
	assert.Equal(t, []string{"Open", "WIP"}, meta.ImportStatuses)
	assert.Contains(t, meta.Statuses, "Sale Lost")
}
