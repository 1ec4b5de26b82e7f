package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository  = (*MaterialRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.RequesterRepository = (*RequesterRepo)(nil)
)

// ── Materiales ────────────────────────────────────────────────────────────────

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	db Querier
}

// NewMaterialRepository construye el adaptador de persistencia para materiales.
func NewMaterialRepository(db Querier) *MaterialRepo {
	return &MaterialRepo{db: db}
}

const materialColumns = `id::text, codigo, nombre, unidad, COALESCE(categoria_id::text, ''), stock_minimo, created_at, updated_at`

// Create persiste un nuevo material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materiales (id, codigo, nombre, unidad, categoria_id, stock_minimo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.Unit, nullIfEmpty(m.CategoryID), m.MinStock, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert material", err)
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materiales WHERE id = $1`, id)
}

// GetByCode obtiene un material por código interno.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materiales WHERE codigo = $1`, code)
}

func (r *MaterialRepo) getOne(ctx context.Context, query string, arg string) (*entity.Material, error) {
	m, err := scanMaterial(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// Update actualiza un material existente.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materiales
		SET codigo = $2, nombre = $3, unidad = $4, categoria_id = $5, stock_minimo = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.Unit, nullIfEmpty(m.CategoryID), m.MinStock, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update material", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update material: %w", domain.ErrNotFound)
	}
	return nil
}

// List lista materiales ordenados por código con paginación.
func (r *MaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiales ORDER BY codigo LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete elimina un material. Falla con conflicto si tiene movimientos.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM materiales WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete material", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete material: %w", domain.ErrNotFound)
	}
	return nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.CategoryID, &m.MinStock, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	db Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(db Querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = `id::text, nombre, COALESCE(descripcion, ''), created_at, updated_at`

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categorias (id, nombre, descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt); err != nil {
		return mapWriteError("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE LOWER(nombre) = LOWER($1)`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, query, arg string) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza una categoría existente.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `UPDATE categorias SET nombre = $2, descripcion = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return mapWriteError("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update category: %w", domain.ErrNotFound)
	}
	return nil
}

// List lista categorías por nombre con paginación.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categorias ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una categoría. Falla con conflicto si hay materiales asociados.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete category", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", domain.ErrNotFound)
	}
	return nil
}

// ── Solicitantes ──────────────────────────────────────────────────────────────

// RequesterRepo implementación del puerto RequesterRepository sobre PostgreSQL.
type RequesterRepo struct {
	db Querier
}

// NewRequesterRepository construye el adaptador de persistencia para solicitantes.
func NewRequesterRepository(db Querier) *RequesterRepo {
	return &RequesterRepo{db: db}
}

const requesterColumns = `id::text, obra_id::text, nombre, COALESCE(area, ''), activo, created_at, updated_at`

// Create persiste un solicitante.
func (r *RequesterRepo) Create(ctx context.Context, s *entity.Requester) error {
	query := `
		INSERT INTO solicitantes (id, obra_id, nombre, area, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, s.ID, s.ObraID, s.Name, s.Area, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapWriteError("insert requester", err)
	}
	return nil
}

// GetByID obtiene un solicitante por ID.
func (r *RequesterRepo) GetByID(ctx context.Context, id string) (*entity.Requester, error) {
	s, err := scanRequester(r.db.QueryRow(ctx, `SELECT `+requesterColumns+` FROM solicitantes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requester: %w", err)
	}
	return s, nil
}

// Update actualiza un solicitante existente.
func (r *RequesterRepo) Update(ctx context.Context, s *entity.Requester) error {
	query := `UPDATE solicitantes SET nombre = $2, area = $3, activo = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Area, s.Active, s.UpdatedAt)
	if err != nil {
		return mapWriteError("update requester", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update requester: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByObra lista los solicitantes de una obra con paginación.
func (r *RequesterRepo) ListByObra(ctx context.Context, obraID string, limit, offset int) ([]*entity.Requester, error) {
	query := `SELECT ` + requesterColumns + ` FROM solicitantes WHERE obra_id = $1 ORDER BY nombre LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, obraID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requesters: %w", err)
	}
	defer rows.Close()

	var list []*entity.Requester
	for rows.Next() {
		s, err := scanRequester(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requester: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina un solicitante.
func (r *RequesterRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM solicitantes WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete requester", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete requester: %w", domain.ErrNotFound)
	}
	return nil
}

func scanRequester(row pgx.Row) (*entity.Requester, error) {
	var s entity.Requester
	if err := row.Scan(&s.ID, &s.ObraID, &s.Name, &s.Area, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
