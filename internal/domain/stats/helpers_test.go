package stats_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// now fijo para todos los tests: domingo 15/03/2026 12:00 UTC.
var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func material(id string) entity.ItemRef {
	return entity.ItemRef{Kind: entity.ItemMaterial, ID: id}
}

func entrada(item entity.ItemRef, q float64, doc string, at time.Time) entity.Movement {
	return entity.Movement{Type: entity.MovementEntrada, Item: item, Quantity: dec(q), DocumentRef: doc, CreatedAt: at}
}

func salida(item entity.ItemRef, q float64, at time.Time) entity.Movement {
	return entity.Movement{Type: entity.MovementSalida, Item: item, Quantity: dec(q), CreatedAt: at}
}

func snapshot(item entity.ItemRef, onHand float64) entity.InventorySnapshot {
	return entity.InventorySnapshot{Item: item, OnHand: dec(onHand)}
}

func line(item entity.ItemRef, requested float64, fulfilled *decimal.Decimal, status entity.LineStatus) entity.RequisitionLine {
	return entity.RequisitionLine{Item: item, Requested: dec(requested), Fulfilled: fulfilled, Status: status}
}

// assertDec compara decimales por valor (no por representación interna).
func assertDec(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %v, obtenido %s", want, got.String())
}
