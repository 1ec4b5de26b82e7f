package repository

import (
	"context"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// RequesterRepository define el puerto de persistencia para Requester (DIP).
type RequesterRepository interface {
	Create(ctx context.Context, requester *entity.Requester) error
	GetByID(ctx context.Context, id string) (*entity.Requester, error)
	Update(ctx context.Context, requester *entity.Requester) error
	ListByObra(ctx context.Context, obraID string, limit, offset int) ([]*entity.Requester, error)
	Delete(ctx context.Context, id string) error
}
