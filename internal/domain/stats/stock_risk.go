package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

const (
	// StockRiskWindowDays ventana fija de consumo para estimar el ritmo de salida,
	// independiente del período elegido.
	StockRiskWindowDays = 30

	// UnboundedStockDays días de stock cuando no hubo consumo en la ventana. No es una
	// cantidad real de días: se muestra como "sin consumo".
	UnboundedStockDays = 999

	stockCriticalDays = 7
	stockLowDays      = 14
	stockRiskCap      = 10
)

// StockLevel clasificación del riesgo de quiebre.
type StockLevel string

const (
	StockCritical StockLevel = "critico"
	StockLow      StockLevel = "bajo"
	StockOK       StockLevel = "ok"
)

// StockRiskItem ítem con riesgo de quiebre de stock.
type StockRiskItem struct {
	Item          entity.ItemRef
	Name          string
	OnHand        decimal.Decimal
	Outbound30    decimal.Decimal
	DailyBurn     decimal.Decimal // salidas/día en la ventana fija
	DaysRemaining int
	Unbounded     bool // DaysRemaining == UnboundedStockDays
	Level         StockLevel
}

// ClassifyStock estima los días de cobertura y el nivel de riesgo.
// dias = floor(stock / (salidas30 / 30)); sin salidas devuelve UnboundedStockDays.
func ClassifyStock(onHand, outbound30 decimal.Decimal) (days int, unbounded bool, level StockLevel) {
	onHand, outbound30 = qty(onHand), qty(outbound30)
	if !outbound30.IsPositive() {
		return UnboundedStockDays, true, StockOK
	}
	days = int(onHand.Mul(decimal.NewFromInt(StockRiskWindowDays)).Div(outbound30).Floor().IntPart())
	switch {
	case days <= stockCriticalDays:
		level = StockCritical
	case days <= stockLowDays:
		level = StockLow
	default:
		level = StockOK
	}
	return days, false, level
}

// StockRisk ranking de ítems en nivel bajo o crítico, de menos a más días de
// cobertura. Máximo 10.
func StockRisk(
	movements []entity.Movement,
	inventory []entity.InventorySnapshot,
	names Names,
	now time.Time,
) []StockRiskItem {
	window := Period{days: StockRiskWindowDays}
	outbound := make(map[string]decimal.Decimal)
	for _, m := range movements {
		if !m.IsSalida() || !window.Contains(m.CreatedAt, now) {
			continue
		}
		if k := m.Item.Key(); k != "" {
			outbound[k] = outbound[k].Add(qty(m.Quantity))
		}
	}

	days30 := decimal.NewFromInt(StockRiskWindowDays)
	items := []StockRiskItem{}
	for _, s := range inventory {
		k := s.Item.Key()
		if k == "" {
			continue
		}
		out := outbound[k]
		days, unbounded, level := ClassifyStock(s.OnHand, out)
		if level == StockOK {
			continue
		}
		items = append(items, StockRiskItem{
			Item:          s.Item,
			Name:          names.Of(s.Item),
			OnHand:        qty(s.OnHand),
			Outbound30:    out,
			DailyBurn:     out.Div(days30).Round(2),
			DaysRemaining: days,
			Unbounded:     unbounded,
			Level:         level,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysRemaining < items[j].DaysRemaining
	})
	if len(items) > stockRiskCap {
		items = items[:stockRiskCap]
	}
	return items
}
