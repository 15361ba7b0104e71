package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/listing"
)

// Meta godoc
// @Summary      Enumeraciones para formularios y filtros
// @Tags         meta
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MetaResponse
// @Router       /api/meta [get]
func Meta(c *fiber.Ctx) error {
	out := dto.MetaResponse{
		LostReasons:    entity.LostReasons(),
		PageSizes:      listing.PageSizes(),
		ImportStatuses: []string{string(entity.StatusOpen), string(entity.StatusWIP)},
	}
	for _, s := range entity.Statuses() {
		out.Statuses = append(out.Statuses, string(s))
	}
	for _, g := range entity.ProductGroups() {
		out.Groups = append(out.Groups, string(g))
	}
	return c.JSON(out)
}
