package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

const (
	topRequestersCap = 6

	// UnknownRequester etiqueta de requerimientos sin solicitante.
	UnknownRequester = "Sin solicitante"
)

// EfficiencySummary atención de requerimientos emitidos en la ventana.
type EfficiencySummary struct {
	Approved       decimal.Decimal // total solicitado
	Fulfilled      decimal.Decimal // total atendido
	PettyCash      decimal.Decimal // atendido por caja chica
	FulfillmentPct int             // atendido / solicitado
	PettyCashPct   int             // caja chica / atendido
}

// RequesterTotal cantidad solicitada por un solicitante.
type RequesterTotal struct {
	Name     string
	Quantity decimal.Decimal
	Lines    int
}

// Efficiency suma solicitado, atendido y atendido por caja chica de las líneas
// válidas cuyos requerimientos se emitieron en la ventana.
func Efficiency(reqs []entity.Requisition, filter Filter, p Period, now time.Time) EfficiencySummary {
	var s EfficiencySummary
	inWindow := func(r entity.Requisition) bool { return p.Contains(r.SubmittedAt, now) }
	filter.forEachValidLine(reqs, inWindow, func(_ entity.Requisition, l entity.RequisitionLine) {
		s.Approved = s.Approved.Add(qty(l.Requested))
		s.Fulfilled = s.Fulfilled.Add(qty(l.FulfilledQty()))
		s.PettyCash = s.PettyCash.Add(qty(l.FulfilledPettyCash))
	})
	s.FulfillmentPct = percent(s.Fulfilled, s.Approved)
	s.PettyCashPct = percent(s.PettyCash, s.Fulfilled)
	return s
}

// TopRequesters solicitantes con mayor cantidad solicitada en la ventana. Máximo 6.
func TopRequesters(reqs []entity.Requisition, filter Filter, p Period, now time.Time) []RequesterTotal {
	byName := make(map[string]*RequesterTotal)
	var order []string
	inWindow := func(r entity.Requisition) bool { return p.Contains(r.SubmittedAt, now) }
	filter.forEachValidLine(reqs, inWindow, func(r entity.Requisition, l entity.RequisitionLine) {
		name := strings.TrimSpace(r.Requester)
		if name == "" {
			name = UnknownRequester
		}
		t, ok := byName[name]
		if !ok {
			t = &RequesterTotal{Name: name}
			byName[name] = t
			order = append(order, name)
		}
		t.Quantity = t.Quantity.Add(qty(l.Requested))
		t.Lines++
	})

	totals := make([]RequesterTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, *byName[name])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Quantity.GreaterThan(totals[j].Quantity)
	})
	if len(totals) > topRequestersCap {
		totals = totals[:topRequestersCap]
	}
	return totals
}
