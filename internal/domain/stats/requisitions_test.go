package stats_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

func TestEfficiency_SolicitadoCeroNoDivide(t *testing.T) {
	got := stats.Efficiency(nil, stats.NewFilter(nil), stats.PeriodAll, now)
	assert.Equal(t, 0, got.FulfillmentPct)
	assert.Equal(t, 0, got.PettyCashPct)
	assert.True(t, got.Approved.IsZero())
}

func TestEfficiency_ParticipacionCajaChica(t *testing.T) {
	m := material("m")
	l := line(m, 10, decPtr(8), entity.LineParcial)
	l.FulfilledPettyCash = dec(2)
	reqs := []entity.Requisition{
		{ID: "r1", SubmittedAt: daysAgo(3), Lines: []entity.RequisitionLine{l}},
		{ID: "r2", SubmittedAt: daysAgo(45), Lines: []entity.RequisitionLine{ // fuera de ventana
			line(m, 100, decPtr(100), entity.LineAtendido),
		}},
	}

	got := stats.Efficiency(reqs, stats.NewFilter(nil), stats.Period30, now)

	assertDec(t, 10, got.Approved)
	assertDec(t, 8, got.Fulfilled)
	assertDec(t, 2, got.PettyCash)
	assert.Equal(t, 80, got.FulfillmentPct)
	assert.Equal(t, 25, got.PettyCashPct)
}

// Escenario de punta a punta: tres líneas, solo la parcial es válida.
//   - Pendiente 10/0 excluida por el conjunto de correcciones.
//   - Parcial 5/2 válida.
//   - Cancelada sin atención excluida por la regla de respaldo.
func TestEfficiency_EscenarioCorreccionesYCanceladas(t *testing.T) {
	reqs := []entity.Requisition{{
		ID:          "req-100",
		Requester:   "Ing. Residente",
		SubmittedAt: daysAgo(5),
		Lines: []entity.RequisitionLine{
			line(material("cemento"), 10, decPtr(0), entity.LinePendiente),
			line(material("arena"), 5, decPtr(2), entity.LineParcial),
			line(material("yeso"), 4, nil, entity.LineCancelado),
		},
	}}
	corrections := entity.NewCorrectionSet([]entity.CorrectionKey{{RequisitionID: "req-100", ItemID: "cemento"}})

	got := stats.Efficiency(reqs, stats.NewFilter(corrections), stats.Period30, now)

	assertDec(t, 5, got.Approved)
	assertDec(t, 2, got.Fulfilled)
	assert.Equal(t, 40, got.FulfillmentPct)
}

func TestTopRequesters_AgrupaYEtiquetaSinNombre(t *testing.T) {
	m := material("m")
	reqs := []entity.Requisition{
		{ID: "1", Requester: "Carlos", SubmittedAt: daysAgo(1), Lines: []entity.RequisitionLine{line(m, 3, nil, entity.LinePendiente)}},
		{ID: "2", Requester: "Carlos ", SubmittedAt: daysAgo(2), Lines: []entity.RequisitionLine{line(m, 4, nil, entity.LinePendiente)}},
		{ID: "3", Requester: "", SubmittedAt: daysAgo(2), Lines: []entity.RequisitionLine{line(m, 10, nil, entity.LinePendiente)}},
		{ID: "4", Requester: "Ana", SubmittedAt: daysAgo(2), Lines: []entity.RequisitionLine{line(m, 50, nil, entity.LineCancelado)}},
	}

	got := stats.TopRequesters(reqs, stats.NewFilter(nil), stats.PeriodAll, now)

	require.Len(t, got, 2)
	assert.Equal(t, stats.UnknownRequester, got[0].Name)
	assertDec(t, 10, got[0].Quantity)
	assert.Equal(t, "Carlos", got[1].Name)
	assertDec(t, 7, got[1].Quantity)
	assert.Equal(t, 2, got[1].Lines)
}

func TestTopRequesters_Tope6(t *testing.T) {
	var reqs []entity.Requisition
	for i := 0; i < 9; i++ {
		reqs = append(reqs, entity.Requisition{
			ID:          fmt.Sprint(i),
			Requester:   fmt.Sprintf("Solicitante %d", i),
			SubmittedAt: daysAgo(1),
			Lines:       []entity.RequisitionLine{line(material("m"), float64(i+1), nil, entity.LinePendiente)},
		})
	}

	got := stats.TopRequesters(reqs, stats.NewFilter(nil), stats.Period7, now)

	require.Len(t, got, 6)
	assert.Equal(t, "Solicitante 8", got[0].Name)
	assert.Equal(t, "Solicitante 3", got[5].Name)
}
