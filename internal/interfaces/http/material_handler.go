package http

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
)

// materialService lo implementa *usecase.MaterialUseCase.
type materialService interface {
	Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.MaterialListResponse, error)
	Delete(ctx context.Context, id string) error
}

// materialSheetService lo implementa *usecase.MaterialSheetUseCase.
type materialSheetService interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
	Export(ctx context.Context) ([]byte, error)
}

// MaterialHandler catálogo de materiales.
type MaterialHandler struct {
	uc    materialService
	sheet materialSheetService
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc materialService, sheet materialSheetService) *MaterialHandler {
	return &MaterialHandler{uc: uc, sheet: sheet}
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "code, name, unit, category_id, min_stock"
// @Success      201  {object}  dto.MaterialResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un material. GET /api/materials/:id
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza un material. PUT /api/materials/:id
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List lista materiales. GET /api/materials?limit=&offset=
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	page := pageParams(c)
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un material. DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar materiales desde Excel
// @Description  Crea o actualiza por código. Las filas sin datos obligatorios se informan en unmatched_rows.
// @Tags         materials
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla .xlsx"
// @Success      200  {object}  dto.ImportResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/materials/import [post]
func (h *MaterialHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el archivo en el campo 'file'"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.sheet.Import(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export descarga el catálogo en Excel. GET /api/materials/export.xlsx
func (h *MaterialHandler) Export(c *fiber.Ctx) error {
	out, err := h.sheet.Export(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimeXLSX, "materiales.xlsx", out)
}
