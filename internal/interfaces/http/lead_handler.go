package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// LeadHandler CRUD, lista paginada, selección y seguimiento de leads.
type LeadHandler struct {
	book     *leads.Book
	list     *leads.ListUseCase
	followUp *leads.FollowUpUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(book *leads.Book, list *leads.ListUseCase, followUp *leads.FollowUpUseCase) *LeadHandler {
	return &LeadHandler{book: book, list: list, followUp: followUp}
}

// List godoc
// @Summary      Lista paginada de leads
// @Description  El estado (vista, filtros, página, selección) se guarda por sesión.
// @Description  Si cambia la vista o el número de leads visibles, vuelve a la página 1.
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        view       query  string  false  "manual | bulk"
// @Param        search     query  string  false  "cliente, móvil o SKU"
// @Param        status     query  string  false  "Open | WIP | Closed | Sale Lost"
// @Param        page       query  int     false  "página (1-based)"
// @Param        page_size  query  int     false  "25, 50, 100, 250"
// @Success      200  {object}  dto.LeadPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var q dto.LeadListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.list.List(GetSessionID(c), CurrentUser(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar lead manual
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LeadRequest  true  "lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.book.Create(c.UserContext(), CurrentUser(c), leads.FormFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(leads.ToLeadResponse(l))
}

// Get godoc
// @Summary      Obtener lead
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id del lead"
// @Success      200  {object}  dto.LeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	l, err := h.book.Get(CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(leads.ToLeadResponse(l))
}

// Update godoc
// @Summary      Editar lead
// @Description  id, dueño, origen y fecha de creación no cambian.
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "id del lead"
// @Param        body  body  dto.LeadRequest  true  "lead"
// @Success      200   {object}  dto.LeadResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/leads/{id} [put]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.book.Update(c.UserContext(), CurrentUser(c), c.Params("id"), leads.FormFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(leads.ToLeadResponse(l))
}

// Delete godoc
// @Summary      Borrar lead (admin)
// @Tags         leads
// @Security     Bearer
// @Param        id   path  string  true  "id del lead"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [delete]
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	if err := h.book.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FollowUp godoc
// @Summary      Enlaces de llamada y WhatsApp
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id del lead"
// @Success      200  {object}  dto.FollowUpResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/follow-up [get]
func (h *LeadHandler) FollowUp(c *fiber.Ctx) error {
	out, err := h.followUp.Links(CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Selección ─────────────────────────────────────────────────────────────────

// ToggleSelection godoc
// @Summary      Alternar un lead de la página actual en la selección (admin)
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectionRequest  true  "id"
// @Success      200   {object}  dto.SelectionResponse
// @Router       /api/leads/selection/toggle [post]
func (h *LeadHandler) ToggleSelection(c *fiber.Ctx) error {
	var in dto.SelectionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := requestValidator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id es requerido"})
	}
	out, err := h.list.Toggle(GetSessionID(c), CurrentUser(c), in.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleAll godoc
// @Summary      Seleccionar o deseleccionar toda la página actual (admin)
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SelectionResponse
// @Router       /api/leads/selection/all [post]
func (h *LeadHandler) ToggleAll(c *fiber.Ctx) error {
	out, err := h.list.ToggleAll(GetSessionID(c), CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSelected godoc
// @Summary      Borrar los leads seleccionados (admin)
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/leads/selection [delete]
func (h *LeadHandler) DeleteSelected(c *fiber.Ctx) error {
	n, err := h.list.DeleteSelected(c.UserContext(), GetSessionID(c), CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Deleted: n})
}

// ── Borrado masivo ────────────────────────────────────────────────────────────

// WipeOrigin godoc
// @Summary      Borrar todos los leads de un origen (admin)
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        origin   query  string  true  "Manual | Bulk"
// @Param        confirm  query  bool    true  "debe ser true"
// @Success      200  {object}  dto.CountResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/leads [delete]
func (h *LeadHandler) WipeOrigin(c *fiber.Ctx) error {
	origin := entity.LeadOrigin(c.Query("origin"))
	n, err := h.book.WipeOrigin(c.UserContext(), CurrentUser(c), origin, c.QueryBool("confirm"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Deleted: n})
}

// WipeAll godoc
// @Summary      Borrar la colección completa (admin)
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        confirm  query  bool  true  "debe ser true"
// @Success      200  {object}  dto.CountResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/leads/all [delete]
func (h *LeadHandler) WipeAll(c *fiber.Ctx) error {
	n, err := h.book.WipeAll(c.UserContext(), CurrentUser(c), c.QueryBool("confirm"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Deleted: n})
}
