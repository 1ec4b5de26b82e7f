package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

const (
	unmetDemandCap = 8

	agingHighDays     = 7
	agingCriticalDays = 14
)

// UnmetDemandItem demanda pendiente que el stock actual no cubre.
type UnmetDemandItem struct {
	Item         entity.ItemRef
	Name         string
	Shortfall    decimal.Decimal // suma de faltantes de las líneas incluidas
	OnHand       decimal.Decimal
	Requisitions int // requerimientos distintos afectados
	MaxWaitDays  int // antigüedad del requerimiento más viejo
}

// AgingSummary líneas abiertas por antigüedad del requerimiento.
type AgingSummary struct {
	Normal   int // ≤ 7 días
	High     int // > 7 días
	Critical int // > 14 días
	Total    int
}

// UnmetDemand ranking de ítems con líneas pendientes o parciales cuyo faltante
// (solicitado − atendido) supera el stock actual. Ordena por la espera más larga;
// máximo 8.
func UnmetDemand(
	reqs []entity.Requisition,
	inventory []entity.InventorySnapshot,
	filter Filter,
	names Names,
	now time.Time,
) []UnmetDemandItem {
	onHand := onHandIndex(inventory)

	type acc struct {
		item      UnmetDemandItem
		requisits map[string]struct{}
	}
	byItem := make(map[string]*acc)
	var order []string

	filter.forEachValidLine(reqs, nil, func(r entity.Requisition, l entity.RequisitionLine) {
		if !l.Status.IsOpen() {
			return
		}
		k := l.Item.Key()
		if k == "" {
			return
		}
		shortfall := qty(l.Requested).Sub(qty(l.FulfilledQty()))
		if !shortfall.IsPositive() {
			return
		}
		stock := onHand[k]
		if !stock.LessThan(shortfall) {
			return
		}
		a, ok := byItem[k]
		if !ok {
			a = &acc{
				item:      UnmetDemandItem{Item: l.Item, Name: names.Of(l.Item), OnHand: stock},
				requisits: make(map[string]struct{}),
			}
			byItem[k] = a
			order = append(order, k)
		}
		a.item.Shortfall = a.item.Shortfall.Add(shortfall)
		a.requisits[r.ID] = struct{}{}
		if wait := daysSince(r.SubmittedAt, now); wait > a.item.MaxWaitDays {
			a.item.MaxWaitDays = wait
		}
	})

	items := make([]UnmetDemandItem, 0, len(order))
	for _, k := range order {
		a := byItem[k]
		a.item.Requisitions = len(a.requisits)
		items = append(items, a.item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MaxWaitDays > items[j].MaxWaitDays
	})
	if len(items) > unmetDemandCap {
		items = items[:unmetDemandCap]
	}
	return items
}

// PendingAging cuenta las líneas pendientes o parciales por días desde la emisión
// del requerimiento: > 14 crítico, > 7 alto, resto normal.
func PendingAging(reqs []entity.Requisition, filter Filter, now time.Time) AgingSummary {
	var s AgingSummary
	filter.forEachValidLine(reqs, nil, func(r entity.Requisition, l entity.RequisitionLine) {
		if !l.Status.IsOpen() {
			return
		}
		switch age := daysSince(r.SubmittedAt, now); {
		case age > agingCriticalDays:
			s.Critical++
		case age > agingHighDays:
			s.High++
		default:
			s.Normal++
		}
		s.Total++
	})
	return s
}
