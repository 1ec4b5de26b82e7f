package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Materiales ────────────────────────────────────────────────────────────────

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Code       string          `json:"code" validate:"required,min=1,max=50"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Unit       string          `json:"unit" validate:"required"`
	CategoryID string          `json:"category_id"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// UpdateMaterialRequest entrada para actualizar un material (el código no cambia).
type UpdateMaterialRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit       *string          `json:"unit"`
	CategoryID *string          `json:"category_id"`
	MinStock   *decimal.Decimal `json:"min_stock"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	CategoryID string          `json:"category_id,omitempty"`
	MinStock   decimal.Decimal `json:"min_stock"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Solicitantes ──────────────────────────────────────────────────────────────

// CreateRequesterRequest entrada para registrar un solicitante en una obra.
type CreateRequesterRequest struct {
	ObraID string `json:"obra_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Area   string `json:"area"`
}

// UpdateRequesterRequest entrada para actualizar un solicitante.
type UpdateRequesterRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Area   *string `json:"area"`
	Active *bool   `json:"active"`
}

// RequesterResponse salida de un solicitante.
type RequesterResponse struct {
	ID        string    `json:"id"`
	ObraID    string    `json:"obra_id"`
	Name      string    `json:"name"`
	Area      string    `json:"area"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequesterListResponse lista paginada de solicitantes.
type RequesterListResponse struct {
	Items []RequesterResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
