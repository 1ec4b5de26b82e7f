package repository

import (
	"context"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// MovementRepository lectura del kardex de movimientos de una obra.
type MovementRepository interface {
	// ListByObra devuelve todos los movimientos de la obra, del más reciente al más antiguo.
	ListByObra(ctx context.Context, obraID string) ([]entity.Movement, error)
}

// RequisitionRepository lectura de requerimientos con sus líneas.
type RequisitionRepository interface {
	ListByObra(ctx context.Context, obraID string) ([]entity.Requisition, error)
}

// InventoryRepository lectura del stock actual por ítem.
type InventoryRepository interface {
	SnapshotByObra(ctx context.Context, obraID string) ([]entity.InventorySnapshot, error)
}

// CorrectionRepository líneas de orden de compra registradas con cantidad cero.
// No depende de la obra: el conjunto se cruza por (requerimiento, ítem).
type CorrectionRepository interface {
	ZeroQuantityLines(ctx context.Context) ([]entity.CorrectionKey, error)
}

// CatalogRepository nombres visibles de materiales, equipos y EPP de una obra.
type CatalogRepository interface {
	ItemsByObra(ctx context.Context, obraID string) ([]entity.CatalogItem, error)
}

// ChangeNotifier suscripción a cambios de inventario de una obra (movimientos,
// requerimientos, atenciones). onChange se invoca una vez por notificación y no
// debe bloquear. La función devuelta cancela la suscripción.
type ChangeNotifier interface {
	Subscribe(ctx context.Context, obraID string, onChange func()) (unsubscribe func(), err error)
}
