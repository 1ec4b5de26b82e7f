package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

var _ repository.StockCommandRepository = (*StockCommandRepo)(nil)

// StockCommandRepo delega las escrituras de stock a los procedimientos almacenados
// registrar_movimiento y crear_requerimiento, que bloquean la fila de inventario y
// escriben kardex y stock en la misma transacción.
type StockCommandRepo struct {
	db Querier
}

// NewStockCommandRepository construye el repositorio.
func NewStockCommandRepository(db Querier) *StockCommandRepo {
	return &StockCommandRepo{db: db}
}

// RegisterMovement registra una entrada o salida y devuelve el ID del movimiento.
func (r *StockCommandRepo) RegisterMovement(ctx context.Context, cmd repository.MovementCommand) (string, error) {
	materialID, equipoID, eppID := cmd.Item.Columns()
	query := `SELECT registrar_movimiento($1, $2, $3, $4, $5, $6, $7, $8, $9)::text`

	var id string
	err := r.db.QueryRow(ctx, query,
		cmd.ObraID, cmd.Type, materialID, equipoID, eppID, cmd.Quantity,
		nullIfEmpty(cmd.DocumentRef), nullIfEmpty(cmd.RequisitionID), nullIfEmpty(cmd.CreatedBy),
	).Scan(&id)
	if err != nil {
		return "", mapWriteError("registrar movimiento", err)
	}
	return id, nil
}

// requisitionLineJSON línea en el formato jsonb que espera crear_requerimiento.
type requisitionLineJSON struct {
	MaterialID  *string         `json:"material_id"`
	EquipoID    *string         `json:"equipo_id"`
	EppID       *string         `json:"epp_id"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Descripcion string          `json:"descripcion,omitempty"`
}

// CreateRequisition crea el requerimiento con sus líneas y devuelve su ID.
func (r *StockCommandRepo) CreateRequisition(ctx context.Context, cmd repository.RequisitionCommand) (string, error) {
	lines := make([]requisitionLineJSON, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		materialID, equipoID, eppID := l.Item.Columns()
		lines = append(lines, requisitionLineJSON{
			MaterialID:  materialID,
			EquipoID:    equipoID,
			EppID:       eppID,
			Cantidad:    l.Quantity,
			Descripcion: l.Description,
		})
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("crear requerimiento: líneas: %w", err)
	}

	var id string
	err = r.db.QueryRow(ctx, `SELECT crear_requerimiento($1, $2, $3::jsonb)::text`,
		cmd.ObraID, cmd.Requester, string(payload),
	).Scan(&id)
	if err != nil {
		return "", mapWriteError("crear requerimiento", err)
	}
	return id, nil
}
