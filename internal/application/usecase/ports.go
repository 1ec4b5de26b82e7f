package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
)

// CatalogInvalidator descarta el catálogo cacheado tras una escritura.
// Lo implementa analytics.CatalogCache.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, obraID string)
	InvalidateAll(ctx context.Context)
}

// MaterialSheetCodec lectura y escritura de la planilla de materiales (xlsx).
type MaterialSheetCodec interface {
	ReadMaterials(r io.Reader) (*dto.MaterialSheet, error)
	WriteMaterials(rows []dto.MaterialRow) ([]byte, error)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) {}
func (noopInvalidator) InvalidateAll(context.Context)      {}
