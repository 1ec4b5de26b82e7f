package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
)

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ta := newTestApp()
	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ── Tablero ───────────────────────────────────────────────────────────────────

func TestDashboard_Get(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/dashboard?period=90", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "obra-1", ta.dashboard.gotObra)
	assert.Equal(t, "90", ta.dashboard.gotPeriod)

	var out dto.DashboardDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "90", out.Period)
}

func TestDashboard_PeriodoDesconocidoEs400(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/dashboard?period=15", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body).Code)
}

func TestDashboard_FalloDeIngestaEs503(t *testing.T) {
	ta := newTestApp()
	ta.dashboard.err = errors.Join(domain.ErrIngestion, errors.New("timeout"))

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/dashboard", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DATA_UNAVAILABLE", decodeError(t, resp.Body).Code)
}

func TestDashboard_RefreshSinDatosCargadosEs503(t *testing.T) {
	ta := newTestApp()
	ta.dashboard.err = domain.ErrNotLoaded

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodPost, "/api/obras/obra-1/dashboard/refresh", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DATA_UNAVAILABLE", decodeError(t, resp.Body).Code)
}

func TestDashboard_Refresh(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodPost, "/api/obras/obra-1/dashboard/refresh", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.RefreshResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, uint64(2), out.Generation)
}

func TestDashboard_ReportePDF(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/dashboard/report.pdf?period=all", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "tablero-obra-1.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4", string(body))
}

func TestDashboard_StreamEmiteEstadoYEventos(t *testing.T) {
	ta := newTestApp()
	go func() {
		// espera al registro del cliente, publica y cierra el hub para terminar el stream
		for ta.hub.Clients("obra-1") == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		ta.hub.Publish("obra-1", "dashboard_updated", []byte(`{"generation":2}`))
		ta.hub.Publish("obra-2", "dashboard_updated", []byte(`{"generation":9}`))
		time.Sleep(50 * time.Millisecond)
		ta.hub.Close()
	}()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/dashboard/stream", nil), 3000)

	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, "event: dashboard_updated\ndata: {\"obra_id\":\"obra-1\",\"generation\":1}\n\n")
	assert.Contains(t, text, `data: {"generation":2}`)
	assert.NotContains(t, text, `"generation":9`)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func TestStock_RegistrarMovimiento(t *testing.T) {
	ta := newTestApp()
	body := `{"type":"SALIDA","item":{"kind":"material","id":"m-1"},"quantity":"5","document_ref":"VS-10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/obras/obra-1/movements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "almacenero-1")

	resp, err := ta.app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "almacenero-1", ta.stock.gotUser)
	assert.Equal(t, "SALIDA", ta.stock.gotMove.Type)
	assert.Equal(t, "5", ta.stock.gotMove.Quantity.String())
}

func TestStock_StockInsuficienteEs409(t *testing.T) {
	ta := newTestApp()
	ta.stock.err = domain.ErrConflict
	req := httptest.NewRequest(http.MethodPost, "/api/obras/obra-1/movements", strings.NewReader(`{"type":"SALIDA"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := ta.app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStock_CuerpoInvalido(t *testing.T) {
	ta := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/obras/obra-1/requisitions", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := ta.app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Code)
}

func TestStock_ExportarKardex(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/obras/obra-1/movements/export.xlsx", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kardex-obra-1.xlsx")
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func TestMaterials_Importar(t *testing.T) {
	ta := newTestApp()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "materiales.xlsx")
	require.NoError(t, err)
	_, _ = part.Write([]byte("contenido"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/materials/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := ta.app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "contenido", ta.sheet.got)
	var out dto.ImportResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.UnmatchedRows, 1)
	assert.Equal(t, 4, out.UnmatchedRows[0].Row)
}

func TestMaterials_ImportarSinArchivo(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodPost, "/api/materials/import", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decodeError(t, resp.Body).Code)
}

func TestMaterials_NoEncontradoYPaginacion(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/materials/m-404", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/materials?limit=500&offset=-3", nil))
	require.NoError(t, err)
	var out dto.MaterialListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 100, out.Page.Limit)
	assert.Equal(t, 0, out.Page.Offset)
}

func TestCategories_EliminarConMaterialesEs409(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodDelete, "/api/categories/c-1", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, resp.Body).Code)
}

func TestRequesters_ListaRequiereObra(t *testing.T) {
	ta := newTestApp()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/requesters", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/requesters?obra_id=obra-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "obra-1", ta.requesters.gotObra)
}
