package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

// CacheBackend almacenamiento del catálogo cacheado (memoria o Redis).
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]entity.CatalogItem, bool, error)
	Set(ctx context.Context, key string, items []entity.CatalogItem, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear elimina todas las entradas del catálogo.
	Clear(ctx context.Context) error
}

// CatalogCache catálogo de ítems por obra, usado para etiquetar las estadísticas.
// Se invalida explícitamente con cada escritura del catálogo o con forceRefresh.
// Un fallo del backend no interrumpe la carga: se lee directo del repositorio.
type CatalogCache struct {
	repo    repository.CatalogRepository
	backend CacheBackend
	ttl     time.Duration
	log     zerolog.Logger
}

// NewCatalogCache construye el caché. ttl <= 0 deja las entradas sin expiración.
func NewCatalogCache(repo repository.CatalogRepository, backend CacheBackend, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{
		repo:    repo,
		backend: backend,
		ttl:     ttl,
		log:     log.With().Str("component", "catalog_cache").Logger(),
	}
}

func catalogKey(obraID string) string { return "catalogo:" + obraID }

// Items devuelve el catálogo de la obra. Con forceRefresh ignora la copia cacheada.
func (c *CatalogCache) Items(ctx context.Context, obraID string, forceRefresh bool) ([]entity.CatalogItem, error) {
	key := catalogKey(obraID)
	if !forceRefresh {
		items, ok, err := c.backend.Get(ctx, key)
		if err != nil {
			c.log.Warn().Err(err).Str("obra_id", obraID).Msg("leer caché de catálogo")
		} else if ok {
			return items, nil
		}
	}

	items, err := c.repo.ItemsByObra(ctx, obraID)
	if err != nil {
		return nil, fmt.Errorf("catálogo de la obra: %w", err)
	}
	if err := c.backend.Set(ctx, key, items, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("obra_id", obraID).Msg("guardar caché de catálogo")
	}
	return items, nil
}

// Invalidate descarta el catálogo cacheado de una obra.
func (c *CatalogCache) Invalidate(ctx context.Context, obraID string) {
	if err := c.backend.Delete(ctx, catalogKey(obraID)); err != nil {
		c.log.Warn().Err(err).Str("obra_id", obraID).Msg("invalidar caché de catálogo")
	}
}

// InvalidateAll descarta el catálogo de todas las obras (cambios en materiales,
// que son globales).
func (c *CatalogCache) InvalidateAll(ctx context.Context) {
	if err := c.backend.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("limpiar caché de catálogo")
	}
}
