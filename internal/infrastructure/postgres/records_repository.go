package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

// Repositorios de solo lectura usados por la ingesta del tablero. El stock y el
// kardex los escriben los procedimientos almacenados; aquí solo se consultan.

var (
	_ repository.MovementRepository    = (*MovementRepo)(nil)
	_ repository.RequisitionRepository = (*RequisitionRepo)(nil)
	_ repository.InventoryRepository   = (*InventoryRepo)(nil)
	_ repository.CorrectionRepository  = (*CorrectionRepo)(nil)
	_ repository.CatalogRepository     = (*CatalogRepo)(nil)
)

// ── Movimientos ───────────────────────────────────────────────────────────────

// MovementRepo lee el kardex de movimientos.
type MovementRepo struct {
	db Querier
}

// NewMovementRepository construye el repositorio.
func NewMovementRepository(db Querier) *MovementRepo {
	return &MovementRepo{db: db}
}

// ListByObra devuelve los movimientos de la obra, del más reciente al más antiguo.
func (r *MovementRepo) ListByObra(ctx context.Context, obraID string) ([]entity.Movement, error) {
	query := `
		SELECT id::text, obra_id::text, COALESCE(UPPER(tipo), ''), COALESCE(cantidad, 0),
		       material_id::text, equipo_id::text, epp_id::text,
		       COALESCE(documento_referencia, ''), created_at
		FROM movimientos
		WHERE obra_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, obraID)
	if err != nil {
		return nil, fmt.Errorf("postgres.Movement.ListByObra: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	for rows.Next() {
		var (
			m                           entity.Movement
			materialID, equipoID, eppID *string
			createdAt                   *time.Time
		)
		if err := rows.Scan(&m.ID, &m.ObraID, &m.Type, &m.Quantity,
			&materialID, &equipoID, &eppID, &m.DocumentRef, &createdAt); err != nil {
			return nil, fmt.Errorf("postgres.Movement.ListByObra scan: %w", err)
		}
		m.Item = itemRef(materialID, equipoID, eppID)
		m.CreatedAt = timeOrZero(createdAt)
		m.Quantity = nonNegative(m.Quantity)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Movement.ListByObra rows: %w", err)
	}
	return list, nil
}

// ── Requerimientos ────────────────────────────────────────────────────────────

// RequisitionRepo lee requerimientos con sus líneas en una sola consulta.
type RequisitionRepo struct {
	db Querier
}

// NewRequisitionRepository construye el repositorio.
func NewRequisitionRepository(db Querier) *RequisitionRepo {
	return &RequisitionRepo{db: db}
}

// ListByObra devuelve los requerimientos de la obra con sus líneas. Un requerimiento
// sin líneas se devuelve con Lines vacío.
func (r *RequisitionRepo) ListByObra(ctx context.Context, obraID string) ([]entity.Requisition, error) {
	query := `
		SELECT r.id::text, r.obra_id::text, COALESCE(r.solicitante, ''), r.fecha_solicitud,
		       d.id IS NOT NULL,
		       d.material_id::text, d.equipo_id::text, d.epp_id::text,
		       COALESCE(d.cantidad_solicitada, 0), d.cantidad_atendida,
		       COALESCE(d.cantidad_caja_chica, 0), COALESCE(d.estado, ''), COALESCE(d.descripcion, '')
		FROM requerimientos r
		LEFT JOIN detalles_requerimiento d ON d.requerimiento_id = r.id
		WHERE r.obra_id = $1
		ORDER BY r.fecha_solicitud DESC, r.id, d.id`
	rows, err := r.db.Query(ctx, query, obraID)
	if err != nil {
		return nil, fmt.Errorf("postgres.Requisition.ListByObra: %w", err)
	}
	defer rows.Close()

	var (
		list  []entity.Requisition
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			req                         entity.Requisition
			hasLine                     bool
			materialID, equipoID, eppID *string
			line                        entity.RequisitionLine
			status                      string
			submittedAt                 *time.Time
		)
		if err := rows.Scan(&req.ID, &req.ObraID, &req.Requester, &submittedAt,
			&hasLine, &materialID, &equipoID, &eppID,
			&line.Requested, &line.Fulfilled, &line.FulfilledPettyCash, &status, &line.Description); err != nil {
			return nil, fmt.Errorf("postgres.Requisition.ListByObra scan: %w", err)
		}
		i, ok := index[req.ID]
		if !ok {
			req.SubmittedAt = timeOrZero(submittedAt)
			req.Lines = []entity.RequisitionLine{}
			list = append(list, req)
			i = len(list) - 1
			index[req.ID] = i
		}
		if !hasLine {
			continue
		}
		line.Item = itemRef(materialID, equipoID, eppID)
		line.Status = entity.ParseLineStatus(status)
		line.Requested = nonNegative(line.Requested)
		line.FulfilledPettyCash = nonNegative(line.FulfilledPettyCash)
		if line.Fulfilled != nil {
			f := nonNegative(*line.Fulfilled)
			line.Fulfilled = &f
		}
		list[i].Lines = append(list[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Requisition.ListByObra rows: %w", err)
	}
	return list, nil
}

// ── Inventario ────────────────────────────────────────────────────────────────

// InventoryRepo lee el stock actual por ítem.
type InventoryRepo struct {
	db Querier
}

// NewInventoryRepository construye el repositorio.
func NewInventoryRepository(db Querier) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// SnapshotByObra devuelve una fila por ítem con stock registrado en la obra.
func (r *InventoryRepo) SnapshotByObra(ctx context.Context, obraID string) ([]entity.InventorySnapshot, error) {
	query := `
		SELECT obra_id::text, material_id::text, equipo_id::text, epp_id::text,
		       COALESCE(stock_actual, 0), ultimo_ingreso
		FROM inventario_obra
		WHERE obra_id = $1`
	rows, err := r.db.Query(ctx, query, obraID)
	if err != nil {
		return nil, fmt.Errorf("postgres.Inventory.SnapshotByObra: %w", err)
	}
	defer rows.Close()

	var list []entity.InventorySnapshot
	for rows.Next() {
		var (
			s                           entity.InventorySnapshot
			materialID, equipoID, eppID *string
			lastEntry                   *time.Time
		)
		if err := rows.Scan(&s.ObraID, &materialID, &equipoID, &eppID, &s.OnHand, &lastEntry); err != nil {
			return nil, fmt.Errorf("postgres.Inventory.SnapshotByObra scan: %w", err)
		}
		s.Item = itemRef(materialID, equipoID, eppID)
		s.OnHand = nonNegative(s.OnHand)
		s.LastEntryAt = lastEntry
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Inventory.SnapshotByObra rows: %w", err)
	}
	return list, nil
}

// ── Correcciones ──────────────────────────────────────────────────────────────

// CorrectionRepo lee las líneas de orden de compra corregidas a cantidad cero.
type CorrectionRepo struct {
	db Querier
}

// NewCorrectionRepository construye el repositorio.
func NewCorrectionRepository(db Querier) *CorrectionRepo {
	return &CorrectionRepo{db: db}
}

// ZeroQuantityLines devuelve los pares (requerimiento, ítem) con cantidad exactamente cero.
func (r *CorrectionRepo) ZeroQuantityLines(ctx context.Context) ([]entity.CorrectionKey, error) {
	query := `
		SELECT DISTINCT requerimiento_id::text,
		       COALESCE(material_id::text, equipo_id::text, epp_id::text)
		FROM detalles_orden_compra
		WHERE cantidad = 0
		  AND requerimiento_id IS NOT NULL
		  AND COALESCE(material_id::text, equipo_id::text, epp_id::text) IS NOT NULL`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres.Correction.ZeroQuantityLines: %w", err)
	}
	defer rows.Close()

	var list []entity.CorrectionKey
	for rows.Next() {
		var k entity.CorrectionKey
		if err := rows.Scan(&k.RequisitionID, &k.ItemID); err != nil {
			return nil, fmt.Errorf("postgres.Correction.ZeroQuantityLines scan: %w", err)
		}
		list = append(list, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Correction.ZeroQuantityLines rows: %w", err)
	}
	return list, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// CatalogRepo resuelve nombres visibles de materiales, equipos y EPP.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepository construye el repositorio.
func NewCatalogRepository(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ItemsByObra devuelve el catálogo general de materiales más los equipos y EPP de la obra.
func (r *CatalogRepo) ItemsByObra(ctx context.Context, obraID string) ([]entity.CatalogItem, error) {
	query := `
		SELECT 'material', m.id::text, m.nombre, COALESCE(m.unidad, ''), COALESCE(c.nombre, '')
		FROM materiales m
		LEFT JOIN categorias c ON c.id = m.categoria_id
		UNION ALL
		SELECT 'equipo', e.id::text, e.nombre, COALESCE(e.unidad, 'und'), ''
		FROM equipos e
		WHERE e.obra_id = $1
		UNION ALL
		SELECT 'epp', p.id::text, p.nombre, COALESCE(p.unidad, 'und'), ''
		FROM epps p
		WHERE p.obra_id = $1`
	rows, err := r.db.Query(ctx, query, obraID)
	if err != nil {
		return nil, fmt.Errorf("postgres.Catalog.ItemsByObra: %w", err)
	}
	defer rows.Close()

	var list []entity.CatalogItem
	for rows.Next() {
		var (
			kind string
			c    entity.CatalogItem
		)
		if err := rows.Scan(&kind, &c.Item.ID, &c.Name, &c.Unit, &c.Category); err != nil {
			return nil, fmt.Errorf("postgres.Catalog.ItemsByObra scan: %w", err)
		}
		c.Item.Kind = entity.ItemKind(kind)
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Catalog.ItemsByObra rows: %w", err)
	}
	return list, nil
}

// nonNegative lee cantidades negativas de origen como cero.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
