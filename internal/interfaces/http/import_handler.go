package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/application/imports"
)

// maxUploadBytes límite del archivo de importación.
const maxUploadBytes = 10 << 20

// ImportHandler carga masiva: subir, revisar y confirmar.
type ImportHandler struct {
	uc *imports.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *imports.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir archivo CSV o XLSX y generar vista previa
// @Description  Las filas inválidas se reportan en rejected. La vista previa expira a los 30 minutos sin uso.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file            formData  file    true   "archivo .csv o .xlsx"
// @Param        default_status  formData  string  false  "Open | WIP"
// @Success      201  {object}  dto.ImportPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/imports [post]
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	if fh.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo supera 10 MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	out, err := h.uc.Upload(c.UserContext(), CurrentUser(c), fh.Filename, content, c.FormValue("default_status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Ver vista previa
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id de la vista previa"
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [get]
func (h *ImportHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetDefaultStatus godoc
// @Summary      Cambiar el estado por defecto de la vista previa
// @Description  Reetiqueta todas las filas con el nuevo estado.
// @Tags         imports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "id de la vista previa"
// @Param        body  body  dto.DefaultStatusRequest  true  "Open | WIP"
// @Success      200   {object}  dto.ImportPreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/default-status [put]
func (h *ImportHandler) SetDefaultStatus(c *fiber.Ctx) error {
	var in dto.DefaultStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := requestValidator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser Open o WIP"})
	}
	out, err := h.uc.SetDefaultStatus(CurrentUser(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteRow godoc
// @Summary      Quitar una fila de la vista previa
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "id de la vista previa"
// @Param        index  path  int     true  "índice de la fila"
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/rows/{index} [delete]
func (h *ImportHandler) DeleteRow(c *fiber.Ctx) error {
	idx, err := imports.ParseIndex(c.Params("index"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.DeleteRow(CurrentUser(c), c.Params("id"), idx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar importación
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id de la vista previa"
// @Success      201  {object}  dto.ImportCommitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/commit [post]
func (h *ImportHandler) Commit(c *fiber.Ctx) error {
	out, err := h.uc.Commit(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Discard godoc
// @Summary      Descartar vista previa
// @Tags         imports
// @Security     Bearer
// @Param        id   path  string  true  "id de la vista previa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [delete]
func (h *ImportHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
