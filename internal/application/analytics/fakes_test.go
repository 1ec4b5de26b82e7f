package analytics_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/infrastructure/cache"
)

// ── Repositorios de lectura como funciones ────────────────────────────────────

type movementsFunc func(ctx context.Context, obraID string) ([]entity.Movement, error)

func (f movementsFunc) ListByObra(ctx context.Context, obraID string) ([]entity.Movement, error) {
	return f(ctx, obraID)
}

type requisitionsFunc func(ctx context.Context, obraID string) ([]entity.Requisition, error)

func (f requisitionsFunc) ListByObra(ctx context.Context, obraID string) ([]entity.Requisition, error) {
	return f(ctx, obraID)
}

type inventoryFunc func(ctx context.Context, obraID string) ([]entity.InventorySnapshot, error)

func (f inventoryFunc) SnapshotByObra(ctx context.Context, obraID string) ([]entity.InventorySnapshot, error) {
	return f(ctx, obraID)
}

type correctionsFunc func(ctx context.Context) ([]entity.CorrectionKey, error)

func (f correctionsFunc) ZeroQuantityLines(ctx context.Context) ([]entity.CorrectionKey, error) {
	return f(ctx)
}

type catalogFunc func(ctx context.Context, obraID string) ([]entity.CatalogItem, error)

func (f catalogFunc) ItemsByObra(ctx context.Context, obraID string) ([]entity.CatalogItem, error) {
	return f(ctx, obraID)
}

// ── Fixture ───────────────────────────────────────────────────────────────────

var cemento = entity.ItemRef{Kind: entity.ItemMaterial, ID: "cemento"}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// obraFixture datos de una obra con un ítem crítico (10 en stock, 90 salidas en 30 días).
type obraFixture struct {
	now          time.Time
	catalogCalls atomic.Int32
}

func newFixture() *obraFixture { return &obraFixture{now: time.Now()} }

func (f *obraFixture) deps(catalog analytics.CacheBackend) analytics.LoaderDeps {
	cat := catalogFunc(func(context.Context, string) ([]entity.CatalogItem, error) {
		f.catalogCalls.Add(1)
		return []entity.CatalogItem{{Item: cemento, Name: "Cemento Sol", Unit: "bolsa"}}, nil
	})
	return analytics.LoaderDeps{
		Movements: movementsFunc(func(context.Context, string) ([]entity.Movement, error) {
			return []entity.Movement{
				{Type: entity.MovementEntrada, Item: cemento, Quantity: dec(100), DocumentRef: "OC-001", CreatedAt: f.now.AddDate(0, 0, -10)},
				{Type: entity.MovementSalida, Item: cemento, Quantity: dec(90), CreatedAt: f.now.AddDate(0, 0, -5)},
			}, nil
		}),
		Requisitions: requisitionsFunc(func(context.Context, string) ([]entity.Requisition, error) {
			return []entity.Requisition{{
				ID: "req-1", Requester: "Ing. Residente", SubmittedAt: f.now.AddDate(0, 0, -3),
				Lines: []entity.RequisitionLine{
					{Item: cemento, Requested: dec(40), Status: entity.LinePendiente},
				},
			}}, nil
		}),
		Inventory: inventoryFunc(func(context.Context, string) ([]entity.InventorySnapshot, error) {
			return []entity.InventorySnapshot{{Item: cemento, OnHand: dec(10)}}, nil
		}),
		Corrections: correctionsFunc(func(context.Context) ([]entity.CorrectionKey, error) {
			return []entity.CorrectionKey{{RequisitionID: "req-9", ItemID: "arena"}}, nil
		}),
		Catalog: analytics.NewCatalogCache(cat, catalog, time.Hour, zerolog.Nop()),
	}
}

func newMemoryBackend() analytics.CacheBackend { return cache.NewMemory() }

// ── Notificador y publicador ──────────────────────────────────────────────────

type fakeNotifier struct {
	mu        sync.Mutex
	callbacks map[string]func()
	cancelled map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{callbacks: map[string]func(){}, cancelled: map[string]bool{}}
}

func (n *fakeNotifier) Subscribe(_ context.Context, obraID string, onChange func()) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.callbacks[obraID] = onChange
	return func() {
		n.mu.Lock()
		n.cancelled[obraID] = true
		n.mu.Unlock()
	}, nil
}

func (n *fakeNotifier) notify(obraID string) {
	n.mu.Lock()
	cb := n.callbacks[obraID]
	n.mu.Unlock()
	cb()
}

type published struct {
	obraID string
	event  string
	data   string
}

type fakePublisher struct {
	events chan published
}

func newFakePublisher() *fakePublisher { return &fakePublisher{events: make(chan published, 16)} }

func (p *fakePublisher) Publish(obraID, event string, data []byte) {
	p.events <- published{obraID: obraID, event: event, data: string(data)}
}
