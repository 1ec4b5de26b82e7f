package inventory

import (
	"context"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// CatalogReader nombres del catálogo de una obra (lo implementa analytics.CatalogCache).
type CatalogReader interface {
	Items(ctx context.Context, obraID string, forceRefresh bool) ([]entity.CatalogItem, error)
}

// MovementSheetWriter genera la planilla del kardex.
type MovementSheetWriter interface {
	WriteMovements(obraID string, rows []dto.MovementRow) ([]byte, error)
}
