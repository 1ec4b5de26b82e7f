package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// ── Repositorios en memoria ───────────────────────────────────────────────────

type memMaterials struct {
	mu      sync.Mutex
	byID    map[string]*entity.Material
	failFor string // código cuyo Create falla
}

func newMemMaterials() *memMaterials { return &memMaterials{byID: map[string]*entity.Material{}} }

func (r *memMaterials) Create(_ context.Context, m *entity.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.Code == r.failFor {
		return domain.ErrConflict
	}
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *memMaterials) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *memMaterials) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMaterials) Update(_ context.Context, m *entity.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *memMaterials) List(_ context.Context, limit, offset int) ([]*entity.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*entity.Material, 0, len(r.byID))
	for _, m := range r.byID {
		cp := *m
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (r *memMaterials) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memCategories struct {
	mu   sync.Mutex
	byID map[string]*entity.Category
}

func newMemCategories() *memCategories { return &memCategories{byID: map[string]*entity.Category{}} }

func (r *memCategories) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategories) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategories) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *memCategories) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── Invalidador y planilla ────────────────────────────────────────────────────

type countingInvalidator struct {
	all     int
	perObra []string
}

func (c *countingInvalidator) Invalidate(_ context.Context, obraID string) {
	c.perObra = append(c.perObra, obraID)
}

func (c *countingInvalidator) InvalidateAll(context.Context) { c.all++ }

// stubCodec devuelve una planilla fija y guarda las filas exportadas.
type stubCodec struct {
	sheet    *dto.MaterialSheet
	readErr  error
	exported []dto.MaterialRow
}

func (s *stubCodec) ReadMaterials(r io.Reader) (*dto.MaterialSheet, error) {
	_, _ = io.Copy(io.Discard, r)
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.sheet, nil
}

func (s *stubCodec) WriteMaterials(rows []dto.MaterialRow) ([]byte, error) {
	s.exported = rows
	return []byte("xlsx"), nil
}

func emptyReader() io.Reader { return bytes.NewReader(nil) }
