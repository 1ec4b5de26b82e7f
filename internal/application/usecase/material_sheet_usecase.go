package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

const exportPageSize = 500

// MaterialSheetUseCase importación y exportación del catálogo de materiales en planilla.
type MaterialSheetUseCase struct {
	materials  repository.MaterialRepository
	categories repository.CategoryRepository
	codec      MaterialSheetCodec
	catalog    CatalogInvalidator
	log        zerolog.Logger
}

// NewMaterialSheetUseCase construye el caso de uso.
func NewMaterialSheetUseCase(
	materials repository.MaterialRepository,
	categories repository.CategoryRepository,
	codec MaterialSheetCodec,
	catalog CatalogInvalidator,
	log zerolog.Logger,
) *MaterialSheetUseCase {
	if catalog == nil {
		catalog = noopInvalidator{}
	}
	return &MaterialSheetUseCase{
		materials:  materials,
		categories: categories,
		codec:      codec,
		catalog:    catalog,
		log:        log.With().Str("component", "material_import").Logger(),
	}
}

// Import crea o actualiza materiales por código. Las categorías inexistentes se
// crean. Las filas que no se pudieron leer o guardar se informan con su motivo;
// el resto de la planilla se procesa igual.
func (uc *MaterialSheetUseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	sheet, err := uc.codec.ReadMaterials(r)
	if err != nil {
		return nil, err
	}

	res := &dto.ImportResultDTO{UnmatchedRows: append([]dto.UnmatchedRowDTO{}, sheet.Unmatched...)}
	categoryIDs := make(map[string]string)

	for _, row := range sheet.Rows {
		created, err := uc.importRow(ctx, row, categoryIDs)
		if err != nil {
			uc.log.Warn().Err(err).Int("fila", row.Row).Str("codigo", row.Code).Msg("fila no importada")
			res.UnmatchedRows = append(res.UnmatchedRows, dto.UnmatchedRowDTO{Row: row.Row, Reason: err.Error()})
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	res.Failed = len(res.UnmatchedRows)

	if res.Created+res.Updated > 0 {
		uc.catalog.InvalidateAll(ctx)
	}
	uc.log.Info().
		Int("creados", res.Created).
		Int("actualizados", res.Updated).
		Int("fallidos", res.Failed).
		Msg("importación de materiales")
	return res, nil
}

func (uc *MaterialSheetUseCase) importRow(ctx context.Context, row dto.MaterialRow, categoryIDs map[string]string) (bool, error) {
	categoryID, err := uc.resolveCategory(ctx, row.Category, categoryIDs)
	if err != nil {
		return false, err
	}
	minStock := row.MinStock
	if minStock.IsNegative() {
		minStock = decimal.Zero
	}

	existing, err := uc.materials.GetByCode(ctx, row.Code)
	if err != nil {
		return false, fmt.Errorf("buscar código %s: %w", row.Code, err)
	}
	now := time.Now()
	if existing != nil {
		existing.Name = row.Name
		existing.Unit = row.Unit
		if categoryID != "" {
			existing.CategoryID = categoryID
		}
		existing.MinStock = minStock
		existing.UpdatedAt = now
		if err := uc.materials.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("actualizar código %s: %w", row.Code, err)
		}
		return false, nil
	}

	m := &entity.Material{
		ID:         uuid.New().String(),
		Code:       row.Code,
		Name:       row.Name,
		Unit:       row.Unit,
		CategoryID: categoryID,
		MinStock:   minStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.materials.Create(ctx, m); err != nil {
		return false, fmt.Errorf("crear código %s: %w", row.Code, err)
	}
	return true, nil
}

// resolveCategory devuelve el ID de la categoría por nombre, creándola si no existe.
func (uc *MaterialSheetUseCase) resolveCategory(ctx context.Context, name string, cache map[string]string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}
	c, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("buscar categoría %q: %w", name, err)
	}
	if c == nil {
		now := time.Now()
		c = &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
		if err := uc.categories.Create(ctx, c); err != nil {
			return "", fmt.Errorf("crear categoría %q: %w", name, err)
		}
	}
	cache[key] = c.ID
	return c.ID, nil
}

// Export genera la planilla con todo el catálogo de materiales.
func (uc *MaterialSheetUseCase) Export(ctx context.Context) ([]byte, error) {
	names := make(map[string]string)
	for offset := 0; ; offset += exportPageSize {
		page, err := uc.categories.List(ctx, exportPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("exportar materiales: categorías: %w", err)
		}
		for _, c := range page {
			names[c.ID] = c.Name
		}
		if len(page) < exportPageSize {
			break
		}
	}

	var rows []dto.MaterialRow
	for offset := 0; ; offset += exportPageSize {
		page, err := uc.materials.List(ctx, exportPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("exportar materiales: %w", err)
		}
		for _, m := range page {
			rows = append(rows, dto.MaterialRow{
				Code:     m.Code,
				Name:     m.Name,
				Unit:     m.Unit,
				Category: names[m.CategoryID],
				MinStock: m.MinStock,
			})
		}
		if len(page) < exportPageSize {
			break
		}
	}
	return uc.codec.WriteMaterials(rows)
}
