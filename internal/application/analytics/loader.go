package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

// Fuentes de la ingesta, usadas en IngestionError.
const (
	SourceMovements    = "movimientos"
	SourceRequisitions = "requerimientos"
	SourceInventory    = "inventario"
	SourceCorrections  = "correcciones"
	SourceCatalog      = "catalogo"
)

// IngestionError fallo de una de las lecturas remotas. La carga completa se descarta.
type IngestionError struct {
	ObraID string
	Source string
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingesta obra %s: %s: %v", e.ObraID, e.Source, e.Err)
}

// Unwrap permite errors.Is(err, domain.ErrIngestion) y llegar a la causa.
func (e *IngestionError) Unwrap() []error { return []error{domain.ErrIngestion, e.Err} }

// LoaderDeps repositorios de lectura usados por la ingesta.
type LoaderDeps struct {
	Movements    repository.MovementRepository
	Requisitions repository.RequisitionRepository
	Inventory    repository.InventoryRepository
	Corrections  repository.CorrectionRepository
	Catalog      *CatalogCache
}

// Loader lee los registros crudos de una obra.
//
// Cinco lecturas en paralelo:
//  1. movimientos de la obra
//  2. requerimientos con sus líneas
//  3. stock actual
//  4. conjunto de correcciones a cero
//  5. catálogo de nombres (vía caché)
//
// Si cualquiera falla se cancelan las demás y no se devuelve nada parcial.
type Loader struct {
	deps  LoaderDeps
	log   zerolog.Logger
	clock func() time.Time
}

// NewLoader construye la ingesta.
func NewLoader(deps LoaderDeps, log zerolog.Logger) *Loader {
	return &Loader{
		deps:  deps,
		log:   log.With().Str("component", "loader").Logger(),
		clock: time.Now,
	}
}

// Load lee el dataset completo de la obra. forceCatalog ignora el catálogo cacheado.
func (l *Loader) Load(ctx context.Context, obraID string, forceCatalog bool) (*stats.Dataset, error) {
	start := l.clock()
	var (
		movements    []entity.Movement
		requisitions []entity.Requisition
		inventory    []entity.InventorySnapshot
		corrections  []entity.CorrectionKey
		catalog      []entity.CatalogItem
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(source string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return &IngestionError{ObraID: obraID, Source: source, Err: err}
			}
			return nil
		})
	}

	fetch(SourceMovements, func(ctx context.Context) (err error) {
		movements, err = l.deps.Movements.ListByObra(ctx, obraID)
		return err
	})
	fetch(SourceRequisitions, func(ctx context.Context) (err error) {
		requisitions, err = l.deps.Requisitions.ListByObra(ctx, obraID)
		return err
	})
	fetch(SourceInventory, func(ctx context.Context) (err error) {
		inventory, err = l.deps.Inventory.SnapshotByObra(ctx, obraID)
		return err
	})
	fetch(SourceCorrections, func(ctx context.Context) (err error) {
		corrections, err = l.deps.Corrections.ZeroQuantityLines(ctx)
		return err
	})
	fetch(SourceCatalog, func(ctx context.Context) (err error) {
		catalog, err = l.deps.Catalog.Items(ctx, obraID, forceCatalog)
		return err
	})

	if err := g.Wait(); err != nil {
		l.log.Error().Err(err).Str("obra_id", obraID).Msg("carga de datos fallida")
		return nil, err
	}

	ds := &stats.Dataset{
		ObraID:       obraID,
		Movements:    movements,
		Requisitions: requisitions,
		Inventory:    inventory,
		Corrections:  entity.NewCorrectionSet(corrections),
		Names:        stats.NewNames(catalog),
		LoadedAt:     l.clock(),
	}
	l.log.Debug().
		Str("obra_id", obraID).
		Int("movimientos", len(movements)).
		Int("requerimientos", len(requisitions)).
		Int("inventario", len(inventory)).
		Int("correcciones", len(corrections)).
		Dur("duracion", ds.LoadedAt.Sub(start)).
		Msg("datos de obra cargados")
	return ds, nil
}
