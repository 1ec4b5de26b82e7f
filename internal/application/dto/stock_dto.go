package dto

import "github.com/shopspring/decimal"

// ItemRefRequest referencia a un ítem: kind es material, equipo o epp.
type ItemRefRequest struct {
	Kind string `json:"kind" validate:"required,oneof=material equipo epp"`
	ID   string `json:"id" validate:"required"`
}

// RegisterMovementRequest body para POST /api/obras/:obraID/movements.
type RegisterMovementRequest struct {
	Type          string          `json:"type" validate:"required,oneof=ENTRADA SALIDA"`
	Item          ItemRefRequest  `json:"item"`
	Quantity      decimal.Decimal `json:"quantity"`
	DocumentRef   string          `json:"document_ref"`
	RequisitionID string          `json:"requisition_id,omitempty"` // salida que atiende un requerimiento
}

// RequisitionLineRequest línea de un requerimiento nuevo.
type RequisitionLineRequest struct {
	Item        ItemRefRequest  `json:"item"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
}

// CreateRequisitionRequest body para POST /api/obras/:obraID/requisitions.
type CreateRequisitionRequest struct {
	Requester string                   `json:"requester" validate:"required"`
	Lines     []RequisitionLineRequest `json:"lines" validate:"required,min=1"`
}

// CreatedResponse ID del registro creado por un procedimiento.
type CreatedResponse struct {
	ID string `json:"id"`
}
