package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

// RequesterUseCase casos de uso CRUD para solicitantes de una obra.
type RequesterUseCase struct {
	repo repository.RequesterRepository
}

// NewRequesterUseCase construye el caso de uso.
func NewRequesterUseCase(repo repository.RequesterRepository) *RequesterUseCase {
	return &RequesterUseCase{repo: repo}
}

// Create registra un solicitante activo.
func (uc *RequesterUseCase) Create(ctx context.Context, in dto.CreateRequesterRequest) (*dto.RequesterResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.ObraID) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	r := &entity.Requester{
		ID:        uuid.New().String(),
		ObraID:    in.ObraID,
		Name:      name,
		Area:      strings.TrimSpace(in.Area),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return toRequesterResponse(r), nil
}

// GetByID obtiene un solicitante por ID.
func (uc *RequesterUseCase) GetByID(ctx context.Context, id string) (*dto.RequesterResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toRequesterResponse(r), nil
}

// Update actualiza un solicitante; Active=false lo deshabilita sin borrar su historial.
func (uc *RequesterUseCase) Update(ctx context.Context, id string, in dto.UpdateRequesterRequest) (*dto.RequesterResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		r.Name = name
	}
	if in.Area != nil {
		r.Area = strings.TrimSpace(*in.Area)
	}
	if in.Active != nil {
		r.Active = *in.Active
	}
	r.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return toRequesterResponse(r), nil
}

// List lista los solicitantes de una obra.
func (uc *RequesterUseCase) List(ctx context.Context, obraID string, limit, offset int) (*dto.RequesterListResponse, error) {
	if strings.TrimSpace(obraID) == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByObra(ctx, obraID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequesterResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequesterResponse(r))
	}
	return &dto.RequesterListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un solicitante por ID.
func (uc *RequesterUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toRequesterResponse(r *entity.Requester) *dto.RequesterResponse {
	if r == nil {
		return nil
	}
	return &dto.RequesterResponse{
		ID:        r.ID,
		ObraID:    r.ObraID,
		Name:      r.Name,
		Area:      r.Area,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
