package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardDTO respuesta de GET /api/obras/:obraID/dashboard.
// Los widgets de inventario (riesgo de stock, demanda no cubierta, antigüedad)
// ignoran el período: reflejan el estado actual de la obra.
type DashboardDTO struct {
	ObraID       string    `json:"obra_id"`
	Period       string    `json:"period"` // "7", "30", "90" o "all"
	PeriodLabel  string    `json:"period_label"`
	GeneratedAt  time.Time `json:"generated_at"`
	DataLoadedAt time.Time `json:"data_loaded_at"`

	Entries       EntrySummaryDTO     `json:"entries"`
	Origins       []OriginShareDTO    `json:"origins"`
	StockRisk     []StockRiskDTO      `json:"stock_risk"`
	UnmetDemand   []UnmetDemandDTO    `json:"unmet_demand"`
	WeeklyFlow    []WeekFlowDTO       `json:"weekly_flow"`
	TopConsumed   []ConsumedItemDTO   `json:"top_consumed"`
	Aging         AgingDTO            `json:"aging"`
	Efficiency    EfficiencyDTO       `json:"efficiency"`
	TopRequesters []RequesterTotalDTO `json:"top_requesters"`
}

// EntrySummaryDTO totales de entradas en la ventana.
type EntrySummaryDTO struct {
	Total         decimal.Decimal `json:"total"`
	PettyCash     decimal.Decimal `json:"petty_cash"`
	PurchaseOrder decimal.Decimal `json:"purchase_order"`
}

// OriginShareDTO porción del gráfico de origen de compras.
type OriginShareDTO struct {
	Origin   string          `json:"origin"`
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
	Percent  int             `json:"percent"`
}

// StockRiskDTO ítem con riesgo de quiebre.
// DaysRemaining es nil cuando el ítem no tuvo salidas (cobertura ilimitada).
type StockRiskDTO struct {
	ItemKind      string          `json:"item_kind"`
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Outbound30    decimal.Decimal `json:"outbound_30d"`
	DailyBurn     decimal.Decimal `json:"daily_burn"`
	DaysRemaining *int            `json:"days_remaining"`
	DaysLabel     string          `json:"days_label"` // "5 días" o "sin consumo"
	Level         string          `json:"level"`      // critico | bajo | ok
}

// UnmetDemandDTO ítem con demanda pendiente no cubierta por el stock.
type UnmetDemandDTO struct {
	ItemKind     string          `json:"item_kind"`
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Requisitions int             `json:"requisitions"`
	MaxWaitDays  int             `json:"max_wait_days"`
}

// WeekFlowDTO barra semanal de entradas y salidas.
type WeekFlowDTO struct {
	Week     string          `json:"week"`
	Label    string          `json:"label"`
	Entradas decimal.Decimal `json:"entradas"`
	Salidas  decimal.Decimal `json:"salidas"`
}

// ConsumedItemDTO ítem del ranking de consumo.
type ConsumedItemDTO struct {
	Name     string          `json:"name"`
	Entradas decimal.Decimal `json:"entradas"`
	Salidas  decimal.Decimal `json:"salidas"`
}

// AgingDTO líneas abiertas por antigüedad.
type AgingDTO struct {
	Normal   int `json:"normal"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// EfficiencyDTO atención de requerimientos.
type EfficiencyDTO struct {
	Approved       decimal.Decimal `json:"approved"`
	Fulfilled      decimal.Decimal `json:"fulfilled"`
	PettyCash      decimal.Decimal `json:"petty_cash"`
	FulfillmentPct int             `json:"fulfillment_pct"`
	PettyCashPct   int             `json:"petty_cash_pct"`
}

// RequesterTotalDTO solicitante del ranking.
type RequesterTotalDTO struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Lines    int             `json:"lines"`
}

// RefreshResponse respuesta de POST /api/obras/:obraID/dashboard/refresh.
type RefreshResponse struct {
	ObraID       string    `json:"obra_id"`
	Generation   uint64    `json:"generation"`
	DataLoadedAt time.Time `json:"data_loaded_at"`
}
