package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySnapshot stock actual de un ítem en una obra. Una fila por (obra, ítem);
// se mantiene en origen con cada movimiento.
type InventorySnapshot struct {
	ObraID      string
	Item        ItemRef
	OnHand      decimal.Decimal
	LastEntryAt *time.Time
}
