// Package pdf genera el reporte imprimible del tablero de almacén de una obra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Obra + período          │  Fecha de datos          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Entradas / Caja chica / OC / Atención              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Riesgo de stock                                      │
//	│  TABLA: Demanda no cubierta                                  │
//	│  TABLA: Flujo semanal                                        │
//	│  TABLA: Más consumidos / Solicitantes                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: antigüedad de pendientes                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorLow      = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.DashboardPDFGenerator = (*DashboardReportGenerator)(nil)

// DashboardReportGenerator implementa analytics.DashboardPDFGenerator usando Maroto v2.
type DashboardReportGenerator struct {
	author string
}

// NewDashboardReportGenerator construye el generador. author aparece en los metadatos.
func NewDashboardReportGenerator(author string) *DashboardReportGenerator {
	return &DashboardReportGenerator{author: author}
}

// GenerateDashboardPDF genera el PDF del tablero y devuelve sus bytes.
func (g *DashboardReportGenerator) GenerateDashboardPDF(_ context.Context, d *dto.DashboardDTO) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pdf: tablero vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tablero de almacén - obra "+d.ObraID, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(stockRiskRows(d.StockRisk)...)
	m.AddRows(unmetDemandRows(d.UnmetDemand)...)
	m.AddRows(weeklyFlowRows(d.WeeklyFlow)...)
	m.AddRows(rankingRows(d)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(agingRow(d.Aging))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(d *dto.DashboardDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("TABLERO DE ALMACÉN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Obra: "+d.ObraID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(d.PeriodLabel, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Datos al "+d.DataLoadedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func summaryRow(d *dto.DashboardDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6}),
		)
	}
	return row.New(16).Add(
		kpi("Entradas", formatQuantity(d.Entries.Total)),
		kpi("Caja chica", formatQuantity(d.Entries.PettyCash)),
		kpi("Orden de compra", formatQuantity(d.Entries.PurchaseOrder)),
		kpi("Atención", fmt.Sprintf("%d%%", d.Efficiency.FulfillmentPct)),
	)
}

func stockRiskRows(items []dto.StockRiskDTO) []core.Row {
	rows := []core.Row{sectionTitle("Riesgo de quiebre de stock")}
	if len(items) == 0 {
		return append(rows, emptyRow("Sin ítems en riesgo"))
	}
	rows = append(rows, tableHeader([]string{"Ítem", "Stock", "Salidas 30d", "Cobertura"}, []int{6, 2, 2, 2}))
	for _, s := range items {
		color := colorLow
		if s.Level == "critico" {
			color = colorCritical
		}
		rows = append(rows, row.New(6).Add(
			cell(s.Name, 6, align.Left, nil),
			cell(formatQuantity(s.OnHand), 2, align.Right, nil),
			cell(formatQuantity(s.Outbound30), 2, align.Right, nil),
			cell(s.DaysLabel, 2, align.Right, color),
		))
	}
	return rows
}

func unmetDemandRows(items []dto.UnmetDemandDTO) []core.Row {
	rows := []core.Row{sectionTitle("Demanda no cubierta")}
	if len(items) == 0 {
		return append(rows, emptyRow("Sin demanda pendiente"))
	}
	rows = append(rows, tableHeader([]string{"Ítem", "Faltante", "Stock", "Req.", "Espera"}, []int{5, 2, 2, 1, 2}))
	for _, u := range items {
		rows = append(rows, row.New(6).Add(
			cell(u.Name, 5, align.Left, nil),
			cell(formatQuantity(u.Shortfall), 2, align.Right, nil),
			cell(formatQuantity(u.OnHand), 2, align.Right, nil),
			cell(fmt.Sprintf("%d", u.Requisitions), 1, align.Center, nil),
			cell(fmt.Sprintf("%d d", u.MaxWaitDays), 2, align.Right, nil),
		))
	}
	return rows
}

func weeklyFlowRows(weeks []dto.WeekFlowDTO) []core.Row {
	rows := []core.Row{sectionTitle("Flujo semanal")}
	if len(weeks) == 0 {
		return append(rows, emptyRow("Sin movimientos en el período"))
	}
	rows = append(rows, tableHeader([]string{"Semana", "Entradas", "Salidas"}, []int{6, 3, 3}))
	for _, w := range weeks {
		rows = append(rows, row.New(6).Add(
			cell(w.Label, 6, align.Left, nil),
			cell(formatQuantity(w.Entradas), 3, align.Right, nil),
			cell(formatQuantity(w.Salidas), 3, align.Right, nil),
		))
	}
	return rows
}

// rankingRows más consumidos y solicitantes lado a lado.
func rankingRows(d *dto.DashboardDTO) []core.Row {
	rows := []core.Row{row.New(8).Add(
		col.New(6).Add(text.New("Más consumidos", sectionTextProps)),
		col.New(6).Add(text.New("Solicitantes", sectionTextProps)),
	)}
	n := len(d.TopConsumed)
	if len(d.TopRequesters) > n {
		n = len(d.TopRequesters)
	}
	if n == 0 {
		return append(rows, emptyRow("Sin consumos ni requerimientos en el período"))
	}
	for i := 0; i < n; i++ {
		var left, leftQty, right, rightQty string
		if i < len(d.TopConsumed) {
			left, leftQty = d.TopConsumed[i].Name, formatQuantity(d.TopConsumed[i].Salidas)
		}
		if i < len(d.TopRequesters) {
			right, rightQty = d.TopRequesters[i].Name, formatQuantity(d.TopRequesters[i].Quantity)
		}
		rows = append(rows, row.New(6).Add(
			cell(left, 4, align.Left, nil),
			cell(leftQty, 2, align.Right, nil),
			cell(right, 4, align.Left, nil),
			cell(rightQty, 2, align.Right, nil),
		))
	}
	return rows
}

func agingRow(a dto.AgingDTO) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Líneas pendientes: %d   |   Normal: %d   |   Más de 7 días: %d   |   Más de 14 días: %d",
			a.Total, a.Normal, a.High, a.Critical,
		), props.Text{Size: 8, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

var sectionTextProps = props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}

func sectionTitle(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(text.New(title, sectionTextProps)))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1})))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	p := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
	if color != nil {
		p.Color = color
		p.Style = fontstyle.Bold
	}
	return col.New(size).Add(text.New(value, p))
}

// formatQuantity formatea con punto de miles y coma decimal (hasta 2 decimales).
// Ej: 25000 → "25.000", 1234.5 → "1.234,5"
func formatQuantity(d decimal.Decimal) string {
	s := d.Round(2).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+2)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
