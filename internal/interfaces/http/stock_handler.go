package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
)

// stockService lo implementa *inventory.StockUseCase.
type stockService interface {
	RegisterMovement(ctx context.Context, obraID, userID string, in dto.RegisterMovementRequest) (*dto.CreatedResponse, error)
	CreateRequisition(ctx context.Context, obraID string, in dto.CreateRequisitionRequest) (*dto.CreatedResponse, error)
	ExportMovements(ctx context.Context, obraID string) ([]byte, error)
}

// StockHandler entradas, salidas y requerimientos de una obra.
type StockHandler struct {
	uc stockService
}

// NewStockHandler construye el handler.
func NewStockHandler(uc stockService) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        obraID  path  string                       true  "ID de la obra"
// @Param        body    body  dto.RegisterMovementRequest  true  "type (ENTRADA|SALIDA), item{kind,id}, quantity, document_ref, requisition_id"
// @Success      201  {object}  dto.CreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/obras/{obraID}/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovement(c.Context(), c.Params("obraID"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateRequisition godoc
// @Summary      Crear requerimiento
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        obraID  path  string                        true  "ID de la obra"
// @Param        body    body  dto.CreateRequisitionRequest  true  "requester, lines[]"
// @Success      201  {object}  dto.CreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/obras/{obraID}/requisitions [post]
func (h *StockHandler) CreateRequisition(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRequisition(c.Context(), c.Params("obraID"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ExportMovements godoc
// @Summary      Exportar kardex a Excel
// @Tags         stock
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        obraID  path  string  true  "ID de la obra"
// @Success      200
// @Router       /api/obras/{obraID}/movements/export.xlsx [get]
func (h *StockHandler) ExportMovements(c *fiber.Ctx) error {
	obraID := c.Params("obraID")
	out, err := h.uc.ExportMovements(c.Context(), obraID)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimeXLSX, fmt.Sprintf("kardex-%s.xlsx", obraID), out)
}
