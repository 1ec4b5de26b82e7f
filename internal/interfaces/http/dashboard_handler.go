package http

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/sse"
)

// dashboardService lo que el handler necesita del caso de uso del tablero.
// Lo implementa *analytics.DashboardUseCase.
type dashboardService interface {
	GetDashboard(ctx context.Context, obraID, period string) (*dto.DashboardDTO, error)
	DashboardPDF(ctx context.Context, obraID, period string) ([]byte, error)
	Refresh(ctx context.Context, obraID string) (*dto.RefreshResponse, error)
	CurrentEvent(ctx context.Context, obraID string) (string, []byte, error)
}

// DashboardHandler maneja los endpoints del tablero de almacén de una obra.
type DashboardHandler struct {
	uc   dashboardService
	hub  *sse.Hub
	ping time.Duration
}

// NewDashboardHandler construye el handler. ping es el intervalo de keep-alive del stream.
func NewDashboardHandler(uc dashboardService, hub *sse.Hub, ping time.Duration) *DashboardHandler {
	if ping <= 0 {
		ping = 25 * time.Second
	}
	return &DashboardHandler{uc: uc, hub: hub, ping: ping}
}

// Get godoc
// @Summary      Tablero de almacén de la obra
// @Description  Indicadores de entradas, riesgo de stock, demanda no cubierta, flujo semanal,
//
//	consumo, antigüedad de pendientes, origen de compras, atención y solicitantes.
//
// @Tags         dashboard
// @Produce      json
// @Param        obraID  path   string  true   "ID de la obra"
// @Param        period  query  string  false  "7 | 30 | 90 | all (por defecto 30)"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/obras/{obraID}/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetDashboard(c.Context(), c.Params("obraID"), c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Recargar datos de la obra
// @Tags         dashboard
// @Produce      json
// @Param        obraID  path  string  true  "ID de la obra"
// @Success      200  {object}  dto.RefreshResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/obras/{obraID}/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.Context(), c.Params("obraID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Tablero en PDF
// @Tags         dashboard
// @Produce      application/pdf
// @Param        obraID  path   string  true   "ID de la obra"
// @Param        period  query  string  false  "7 | 30 | 90 | all"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/obras/{obraID}/dashboard/report.pdf [get]
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	obraID := c.Params("obraID")
	out, err := h.uc.DashboardPDF(c.Context(), obraID, c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimePDF, fmt.Sprintf("tablero-%s.pdf", obraID), out)
}

// Stream godoc
// @Summary      Eventos del tablero (SSE)
// @Description  Emite el estado vigente al conectar y luego dashboard_updated / dashboard_error
//
//	cada vez que los datos de la obra se recargan.
//
// @Tags         dashboard
// @Produce      text/event-stream
// @Param        obraID  path  string  true  "ID de la obra"
// @Router       /api/obras/{obraID}/dashboard/stream [get]
func (h *DashboardHandler) Stream(c *fiber.Ctx) error {
	obraID := c.Params("obraID")
	name, data, err := h.uc.CurrentEvent(c.Context(), obraID)
	if err != nil {
		return writeError(c, err)
	}
	client := h.hub.Register(obraID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unregister(client.ID)
		ticker := time.NewTicker(h.ping)
		defer ticker.Stop()

		if writeEvent(w, name, string(data)) != nil {
			return
		}
		for {
			select {
			case ev, ok := <-client.Events:
				if !ok {
					return
				}
				if writeEvent(w, ev.Type, ev.Data) != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				// Flush falla cuando el cliente cerró la conexión
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// writeEvent escribe un evento SSE. Los saltos de línea del payload van en
// líneas data: separadas.
func writeEvent(w *bufio.Writer, event, data string) error {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := w.WriteString(b.String()); err != nil {
		return err
	}
	return w.Flush()
}
