package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// MovementCommand datos de una entrada o salida a registrar.
type MovementCommand struct {
	ObraID      string
	Type        string // entity.MovementEntrada | entity.MovementSalida
	Item        entity.ItemRef
	Quantity    decimal.Decimal
	DocumentRef string
	// RequisitionID opcional: la salida atiende una línea de ese requerimiento.
	RequisitionID string
	CreatedBy     string
}

// RequisitionLineCommand línea de un requerimiento nuevo.
type RequisitionLineCommand struct {
	Item        entity.ItemRef
	Quantity    decimal.Decimal
	Description string
}

// RequisitionCommand requerimiento a crear.
type RequisitionCommand struct {
	ObraID    string
	Requester string
	Lines     []RequisitionLineCommand
}

// StockCommandRepository operaciones de escritura delegadas a procedimientos
// almacenados: el stock, el kardex y la numeración se actualizan de forma atómica
// en la base de datos.
type StockCommandRepository interface {
	// RegisterMovement registra el movimiento y actualiza el stock. Devuelve el ID creado.
	RegisterMovement(ctx context.Context, cmd MovementCommand) (string, error)
	// CreateRequisition crea el requerimiento con sus líneas. Devuelve el ID creado.
	CreateRequisition(ctx context.Context, cmd RequisitionCommand) (string, error)
}
