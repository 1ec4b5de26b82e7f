package stats

import "time"

// Report resultado de los nueve reductores para una obra y un período.
type Report struct {
	ObraID        string
	Period        Period
	GeneratedAt   time.Time
	DataLoadedAt  time.Time
	Entries       EntrySummary
	Origins       []OriginShare
	StockRisk     []StockRiskItem
	UnmetDemand   []UnmetDemandItem
	WeeklyFlow    []WeekFlow
	TopConsumed   []ConsumedItem
	Aging         AgingSummary
	Efficiency    EfficiencySummary
	TopRequesters []RequesterTotal
}

// Compute ejecuta todos los reductores sobre el dataset. Los reductores no dependen
// entre sí; un dataset nil produce un reporte vacío.
func Compute(ds *Dataset, p Period, now time.Time) Report {
	if ds == nil {
		ds = &Dataset{}
	}
	filter := NewFilter(ds.Corrections)
	entries := EntryTotals(ds.Movements, p, now)

	return Report{
		ObraID:        ds.ObraID,
		Period:        p,
		GeneratedAt:   now,
		DataLoadedAt:  ds.LoadedAt,
		Entries:       entries,
		Origins:       PurchaseOrigin(entries),
		StockRisk:     StockRisk(ds.Movements, ds.Inventory, ds.Names, now),
		UnmetDemand:   UnmetDemand(ds.Requisitions, ds.Inventory, filter, ds.Names, now),
		WeeklyFlow:    WeeklyFlow(ds.Movements, p, now),
		TopConsumed:   TopConsumed(ds.Movements, ds.Names, p, now),
		Aging:         PendingAging(ds.Requisitions, filter, now),
		Efficiency:    Efficiency(ds.Requisitions, filter, p, now),
		TopRequesters: TopRequesters(ds.Requisitions, filter, p, now),
	}
}
