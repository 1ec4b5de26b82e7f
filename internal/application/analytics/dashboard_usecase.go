// Package analytics contiene la ingesta de datos de obra y los casos de uso del
// tablero de almacén: carga en paralelo, dataset vivo por obra y proyección de
// los indicadores a DTO.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

// DashboardPDFGenerator genera el reporte imprimible del tablero.
type DashboardPDFGenerator interface {
	GenerateDashboardPDF(ctx context.Context, dashboard *dto.DashboardDTO) ([]byte, error)
}

// DashboardUseCase calcula el tablero de una obra sobre el dataset vivo.
//
// El período solo filtra por fecha; el dataset se carga una vez por obra y se
// comparte entre consultas de distintos períodos.
type DashboardUseCase struct {
	monitor       *Monitor
	catalog       *CatalogCache
	pdf           DashboardPDFGenerator
	defaultPeriod stats.Period
	clock         func() time.Time
}

// NewDashboardUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewDashboardUseCase(monitor *Monitor, catalog *CatalogCache, pdf DashboardPDFGenerator, defaultPeriod stats.Period) *DashboardUseCase {
	return &DashboardUseCase{
		monitor:       monitor,
		catalog:       catalog,
		pdf:           pdf,
		defaultPeriod: defaultPeriod,
		clock:         time.Now,
	}
}

// GetDashboard devuelve el tablero de la obra para el período indicado
// ("7", "30", "90", "all"; vacío usa el período por defecto).
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, obraID, period string) (*dto.DashboardDTO, error) {
	report, err := uc.report(ctx, obraID, period)
	if err != nil {
		return nil, err
	}
	return toDashboardDTO(report), nil
}

// DashboardPDF genera el tablero de la obra en PDF.
func (uc *DashboardUseCase) DashboardPDF(ctx context.Context, obraID, period string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("dashboard: generador PDF no configurado")
	}
	d, err := uc.GetDashboard(ctx, obraID, period)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateDashboardPDF(ctx, d)
}

// Refresh fuerza la recarga de la obra, incluido su catálogo.
func (uc *DashboardUseCase) Refresh(ctx context.Context, obraID string) (*dto.RefreshResponse, error) {
	if strings.TrimSpace(obraID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.catalog != nil {
		uc.catalog.Invalidate(ctx, obraID)
	}
	st := uc.monitor.Reload(ctx, obraID, true)
	if err := usable(st); err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		ObraID:       obraID,
		Generation:   st.Generation,
		DataLoadedAt: st.Dataset.LoadedAt,
	}, nil
}

// CurrentEvent estado vigente de la obra como evento del tablero. Es el primer
// mensaje de un stream recién abierto; también activa la suscripción a cambios.
func (uc *DashboardUseCase) CurrentEvent(ctx context.Context, obraID string) (string, []byte, error) {
	if strings.TrimSpace(obraID) == "" {
		return "", nil, domain.ErrInvalidInput
	}
	st := uc.monitor.State(ctx, obraID)
	if !st.Loaded() {
		return "", nil, domain.ErrNotLoaded
	}
	return EncodeEvent(st)
}

func (uc *DashboardUseCase) report(ctx context.Context, obraID, period string) (stats.Report, error) {
	if strings.TrimSpace(obraID) == "" {
		return stats.Report{}, domain.ErrInvalidInput
	}
	p := uc.defaultPeriod
	if strings.TrimSpace(period) != "" {
		var err error
		if p, err = stats.ParsePeriod(period); err != nil {
			return stats.Report{}, err
		}
	}

	st := uc.monitor.State(ctx, obraID)
	if err := usable(st); err != nil {
		return stats.Report{}, err
	}
	return stats.Compute(st.Dataset, p, uc.clock()), nil
}

// usable devuelve el error de la última carga, o ErrNotLoaded si todavía no hay
// un dataset aplicado.
func usable(st State) error {
	if st.Err != nil {
		return st.Err
	}
	if !st.Loaded() || st.Dataset == nil {
		return domain.ErrNotLoaded
	}
	return nil
}

// ── Proyección a DTO ──────────────────────────────────────────────────────────

func toDashboardDTO(r stats.Report) *dto.DashboardDTO {
	out := &dto.DashboardDTO{
		ObraID:       r.ObraID,
		Period:       r.Period.String(),
		PeriodLabel:  periodLabel(r.Period),
		GeneratedAt:  r.GeneratedAt,
		DataLoadedAt: r.DataLoadedAt,
		Entries: dto.EntrySummaryDTO{
			Total:         r.Entries.Total,
			PettyCash:     r.Entries.PettyCash,
			PurchaseOrder: r.Entries.PurchaseOrder,
		},
		Origins:       make([]dto.OriginShareDTO, 0, len(r.Origins)),
		StockRisk:     make([]dto.StockRiskDTO, 0, len(r.StockRisk)),
		UnmetDemand:   make([]dto.UnmetDemandDTO, 0, len(r.UnmetDemand)),
		WeeklyFlow:    make([]dto.WeekFlowDTO, 0, len(r.WeeklyFlow)),
		TopConsumed:   make([]dto.ConsumedItemDTO, 0, len(r.TopConsumed)),
		TopRequesters: make([]dto.RequesterTotalDTO, 0, len(r.TopRequesters)),
		Aging: dto.AgingDTO{
			Normal:   r.Aging.Normal,
			High:     r.Aging.High,
			Critical: r.Aging.Critical,
			Total:    r.Aging.Total,
		},
		Efficiency: dto.EfficiencyDTO{
			Approved:       r.Efficiency.Approved,
			Fulfilled:      r.Efficiency.Fulfilled,
			PettyCash:      r.Efficiency.PettyCash,
			FulfillmentPct: r.Efficiency.FulfillmentPct,
			PettyCashPct:   r.Efficiency.PettyCashPct,
		},
	}

	for _, o := range r.Origins {
		out.Origins = append(out.Origins, dto.OriginShareDTO{
			Origin: o.Origin, Label: o.Label, Quantity: o.Quantity, Percent: o.Percent,
		})
	}
	for _, s := range r.StockRisk {
		item := dto.StockRiskDTO{
			ItemKind:   string(s.Item.Kind),
			ItemID:     s.Item.ID,
			Name:       s.Name,
			OnHand:     s.OnHand,
			Outbound30: s.Outbound30,
			DailyBurn:  s.DailyBurn,
			DaysLabel:  "sin consumo",
			Level:      string(s.Level),
		}
		if !s.Unbounded {
			days := s.DaysRemaining
			item.DaysRemaining = &days
			item.DaysLabel = daysLabel(days)
		}
		out.StockRisk = append(out.StockRisk, item)
	}
	for _, u := range r.UnmetDemand {
		out.UnmetDemand = append(out.UnmetDemand, dto.UnmetDemandDTO{
			ItemKind:     string(u.Item.Kind),
			ItemID:       u.Item.ID,
			Name:         u.Name,
			Shortfall:    u.Shortfall,
			OnHand:       u.OnHand,
			Requisitions: u.Requisitions,
			MaxWaitDays:  u.MaxWaitDays,
		})
	}
	for _, w := range r.WeeklyFlow {
		out.WeeklyFlow = append(out.WeeklyFlow, dto.WeekFlowDTO{
			Week: w.Key, Label: w.Label, Entradas: w.Entradas, Salidas: w.Salidas,
		})
	}
	for _, c := range r.TopConsumed {
		out.TopConsumed = append(out.TopConsumed, dto.ConsumedItemDTO{
			Name: c.Name, Entradas: c.Entradas, Salidas: c.Salidas,
		})
	}
	for _, t := range r.TopRequesters {
		out.TopRequesters = append(out.TopRequesters, dto.RequesterTotalDTO{
			Name: t.Name, Quantity: t.Quantity, Lines: t.Lines,
		})
	}
	return out
}

func daysLabel(days int) string {
	if days == 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", days)
}

// periodLabel etiqueta legible del período, ej: "Últimos 30 días".
func periodLabel(p stats.Period) string {
	if p == stats.PeriodAll {
		return "Todo el historial"
	}
	return fmt.Sprintf("Últimos %d días", p.Days())
}
