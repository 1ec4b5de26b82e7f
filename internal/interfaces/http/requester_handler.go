package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
)

// requesterService lo implementa *usecase.RequesterUseCase.
type requesterService interface {
	Create(ctx context.Context, in dto.CreateRequesterRequest) (*dto.RequesterResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RequesterResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateRequesterRequest) (*dto.RequesterResponse, error)
	List(ctx context.Context, obraID string, limit, offset int) (*dto.RequesterListResponse, error)
	Delete(ctx context.Context, id string) error
}

// RequesterHandler solicitantes habilitados por obra.
type RequesterHandler struct {
	uc requesterService
}

// NewRequesterHandler construye el handler.
func NewRequesterHandler(uc requesterService) *RequesterHandler {
	return &RequesterHandler{uc: uc}
}

func (h *RequesterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequesterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *RequesterHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *RequesterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRequesterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List lista los solicitantes de una obra. GET /api/requesters?obra_id=
func (h *RequesterHandler) List(c *fiber.Ctx) error {
	obraID := strings.TrimSpace(c.Query("obra_id"))
	if obraID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_OBRA", Message: "obra_id es requerido"})
	}
	page := pageParams(c)
	out, err := h.uc.List(c.Context(), obraID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *RequesterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
