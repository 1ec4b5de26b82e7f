package stats

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// Origen de compra de una entrada, según el documento de referencia.
const (
	OriginPettyCash     = "caja_chica"
	OriginPurchaseOrder = "orden_compra"
	OriginOther         = "otros"
)

var originLabels = map[string]string{
	OriginPettyCash:     "Caja chica",
	OriginPurchaseOrder: "Orden de compra",
	OriginOther:         "Otros",
}

// EntrySummary totales de entradas en la ventana.
type EntrySummary struct {
	Total         decimal.Decimal
	PettyCash     decimal.Decimal
	PurchaseOrder decimal.Decimal
}

// OriginShare participación de un origen de compra en las entradas.
type OriginShare struct {
	Origin   string
	Label    string
	Quantity decimal.Decimal
	Percent  int
}

// classifyDocument determina el origen de compra por el texto del documento:
// "CC" o "CAJA" es caja chica; "OC" u "ORDEN" es orden de compra.
func classifyDocument(ref string) string {
	up := strings.ToUpper(ref)
	switch {
	case strings.Contains(up, "CC"), strings.Contains(up, "CAJA"):
		return OriginPettyCash
	case strings.Contains(up, "OC"), strings.Contains(up, "ORDEN"):
		return OriginPurchaseOrder
	default:
		return OriginOther
	}
}

// EntryTotals suma las entradas de la ventana y las separa por origen de compra.
func EntryTotals(movements []entity.Movement, p Period, now time.Time) EntrySummary {
	var s EntrySummary
	for _, m := range movements {
		if !m.IsEntrada() || !p.Contains(m.CreatedAt, now) {
			continue
		}
		q := qty(m.Quantity)
		s.Total = s.Total.Add(q)
		switch classifyDocument(m.DocumentRef) {
		case OriginPettyCash:
			s.PettyCash = s.PettyCash.Add(q)
		case OriginPurchaseOrder:
			s.PurchaseOrder = s.PurchaseOrder.Add(q)
		}
	}
	return s
}

// PurchaseOrigin reparte el total de entradas entre caja chica, orden de compra y
// el remanente ("otros", solo si es positivo). Las categorías en cero se omiten.
func PurchaseOrigin(e EntrySummary) []OriginShare {
	shares := []OriginShare{}
	if !e.Total.IsPositive() {
		return shares
	}
	add := func(origin string, q decimal.Decimal) {
		if !q.IsPositive() {
			return
		}
		shares = append(shares, OriginShare{
			Origin:   origin,
			Label:    originLabels[origin],
			Quantity: q,
			Percent:  percent(q, e.Total),
		})
	}
	add(OriginPettyCash, e.PettyCash)
	add(OriginPurchaseOrder, e.PurchaseOrder)
	add(OriginOther, e.Total.Sub(e.PettyCash).Sub(e.PurchaseOrder))
	return shares
}
