package http_test

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/sse"
	apphttp "github.com/jhoicas/almacen-obra-api/internal/interfaces/http"
)

// ── Servicios simulados ───────────────────────────────────────────────────────

type stubDashboard struct {
	err       error
	gotObra   string
	gotPeriod string
	pdf       []byte
	event     string
	eventData string
}

func (s *stubDashboard) GetDashboard(_ context.Context, obraID, period string) (*dto.DashboardDTO, error) {
	s.gotObra, s.gotPeriod = obraID, period
	if s.err != nil {
		return nil, s.err
	}
	if period == "15" {
		return nil, domain.ErrInvalidInput
	}
	return &dto.DashboardDTO{ObraID: obraID, Period: period, Origins: []dto.OriginShareDTO{}}, nil
}

func (s *stubDashboard) DashboardPDF(_ context.Context, obraID, period string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pdf, nil
}

func (s *stubDashboard) Refresh(_ context.Context, obraID string) (*dto.RefreshResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RefreshResponse{ObraID: obraID, Generation: 2, DataLoadedAt: time.Now()}, nil
}

func (s *stubDashboard) CurrentEvent(_ context.Context, obraID string) (string, []byte, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.event, []byte(s.eventData), nil
}

type stubStock struct {
	err     error
	gotUser string
	gotMove dto.RegisterMovementRequest
}

func (s *stubStock) RegisterMovement(_ context.Context, obraID, userID string, in dto.RegisterMovementRequest) (*dto.CreatedResponse, error) {
	s.gotUser, s.gotMove = userID, in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CreatedResponse{ID: "mov-1"}, nil
}

func (s *stubStock) CreateRequisition(_ context.Context, obraID string, in dto.CreateRequisitionRequest) (*dto.CreatedResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CreatedResponse{ID: "req-1"}, nil
}

func (s *stubStock) ExportMovements(context.Context, string) ([]byte, error) {
	return []byte("xlsx"), s.err
}

type stubMaterials struct{}

func (stubMaterials) Create(_ context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	return &dto.MaterialResponse{ID: "m-1", Code: in.Code, Name: in.Name}, nil
}

func (stubMaterials) GetByID(_ context.Context, id string) (*dto.MaterialResponse, error) {
	return nil, domain.ErrNotFound
}

func (stubMaterials) Update(_ context.Context, id string, _ dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	return &dto.MaterialResponse{ID: id}, nil
}

func (stubMaterials) List(_ context.Context, limit, offset int) (*dto.MaterialListResponse, error) {
	return &dto.MaterialListResponse{Items: []dto.MaterialResponse{}, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (stubMaterials) Delete(context.Context, string) error { return nil }

type stubSheet struct{ got string }

func (s *stubSheet) Import(_ context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.got = string(b)
	return &dto.ImportResultDTO{Created: 2, UnmatchedRows: []dto.UnmatchedRowDTO{{Row: 4, Reason: "falta código"}}, Failed: 1}, nil
}

func (s *stubSheet) Export(context.Context) ([]byte, error) { return []byte("xlsx"), nil }

type stubCategories struct{}

func (stubCategories) Create(_ context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	return &dto.CategoryResponse{ID: "c-1", Name: in.Name}, nil
}
func (stubCategories) GetByID(context.Context, string) (*dto.CategoryResponse, error) {
	return &dto.CategoryResponse{ID: "c-1"}, nil
}
func (stubCategories) Update(_ context.Context, id string, _ dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	return &dto.CategoryResponse{ID: id}, nil
}
func (stubCategories) List(context.Context, int, int) (*dto.CategoryListResponse, error) {
	return &dto.CategoryListResponse{Items: []dto.CategoryResponse{}}, nil
}
func (stubCategories) Delete(context.Context, string) error { return domain.ErrConflict }

type stubRequesters struct{ gotObra string }

func (s *stubRequesters) Create(_ context.Context, in dto.CreateRequesterRequest) (*dto.RequesterResponse, error) {
	return &dto.RequesterResponse{ID: "s-1", ObraID: in.ObraID, Name: in.Name}, nil
}
func (s *stubRequesters) GetByID(context.Context, string) (*dto.RequesterResponse, error) {
	return &dto.RequesterResponse{ID: "s-1"}, nil
}
func (s *stubRequesters) Update(_ context.Context, id string, _ dto.UpdateRequesterRequest) (*dto.RequesterResponse, error) {
	return &dto.RequesterResponse{ID: id}, nil
}
func (s *stubRequesters) List(_ context.Context, obraID string, _, _ int) (*dto.RequesterListResponse, error) {
	s.gotObra = obraID
	return &dto.RequesterListResponse{Items: []dto.RequesterResponse{}}, nil
}
func (s *stubRequesters) Delete(context.Context, string) error { return nil }

// ── App de prueba ─────────────────────────────────────────────────────────────

type testApp struct {
	app        *fiber.App
	hub        *sse.Hub
	dashboard  *stubDashboard
	stock      *stubStock
	sheet      *stubSheet
	requesters *stubRequesters
}

func newTestApp() *testApp {
	t := &testApp{
		hub:        sse.NewHub(zerolog.Nop()),
		dashboard:  &stubDashboard{pdf: []byte("%PDF-1.4"), event: "dashboard_updated", eventData: `{"obra_id":"obra-1","generation":1}`},
		stock:      &stubStock{},
		sheet:      &stubSheet{},
		requesters: &stubRequesters{},
	}
	t.app = fiber.New()
	apphttp.Router(t.app, apphttp.RouterDeps{
		Dashboard:  apphttp.NewDashboardHandler(t.dashboard, t.hub, time.Hour),
		Stock:      apphttp.NewStockHandler(t.stock),
		Materials:  apphttp.NewMaterialHandler(stubMaterials{}, t.sheet),
		Categories: apphttp.NewCategoryHandler(stubCategories{}),
		Requesters: apphttp.NewRequesterHandler(t.requesters),
	})
	return t
}
