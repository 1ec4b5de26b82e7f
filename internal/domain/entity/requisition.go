package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineStatus estado del ciclo de vida de una línea de requerimiento.
type LineStatus string

const (
	LinePendiente LineStatus = "Pendiente"
	LineParcial   LineStatus = "Parcial"
	LineAtendido  LineStatus = "Atendido"
	LineCancelado LineStatus = "Cancelado"
)

// ParseLineStatus normaliza el estado recibido del origen (mayúsculas, minúsculas,
// sinónimos). Un estado desconocido se trata como pendiente.
func ParseLineStatus(s string) LineStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parcial", "atendido parcial":
		return LineParcial
	case "atendido", "completado":
		return LineAtendido
	case "cancelado", "anulado":
		return LineCancelado
	default:
		return LinePendiente
	}
}

// IsOpen indica si la línea sigue esperando atención (pendiente o parcial).
func (s LineStatus) IsOpen() bool {
	return s == LinePendiente || s == LineParcial
}

// Requisition requerimiento de materiales/equipos/EPP de un solicitante para una obra.
type Requisition struct {
	ID          string
	ObraID      string
	Requester   string
	SubmittedAt time.Time
	Lines       []RequisitionLine
}

// RequisitionLine ítem solicitado dentro de un requerimiento.
type RequisitionLine struct {
	Item               ItemRef
	Requested          decimal.Decimal
	Fulfilled          *decimal.Decimal // nil = sin atención registrada
	FulfilledPettyCash decimal.Decimal  // atendido por caja chica
	Status             LineStatus
	Description        string
}

// FulfilledQty cantidad atendida, cero si no hay registro.
func (l RequisitionLine) FulfilledQty() decimal.Decimal {
	if l.Fulfilled == nil {
		return decimal.Zero
	}
	return *l.Fulfilled
}
