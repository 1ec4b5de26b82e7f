package stats

import "github.com/jhoicas/almacen-obra-api/internal/domain/entity"

// Filter decide qué líneas de requerimiento participan en la agregación.
//
// Una línea queda excluida si:
//  1. su par (requerimiento, ítem) está en el conjunto de correcciones a cero, o
//  2. está Cancelada y su cantidad atendida es cero o no existe.
//
// Ambas reglas se aplican siempre; todo reductor que lea líneas pasa por IsValid.
type Filter struct {
	corrections entity.CorrectionSet
}

// NewFilter construye el filtro sobre el conjunto de correcciones de la carga actual.
func NewFilter(corrections entity.CorrectionSet) Filter {
	return Filter{corrections: corrections}
}

// IsValid indica si la línea del requerimiento requisitionID debe contarse.
func (f Filter) IsValid(line entity.RequisitionLine, requisitionID string) bool {
	if f.corrections.Contains(requisitionID, line.Item.ID) {
		return false
	}
	if line.Status == entity.LineCancelado && qty(line.FulfilledQty()).IsZero() {
		return false
	}
	return true
}

// forEachValidLine recorre las líneas válidas de los requerimientos que cumplen keep.
func (f Filter) forEachValidLine(
	reqs []entity.Requisition,
	keep func(entity.Requisition) bool,
	fn func(entity.Requisition, entity.RequisitionLine),
) {
	for _, r := range reqs {
		if keep != nil && !keep(r) {
			continue
		}
		for _, l := range r.Lines {
			if f.IsValid(l, r.ID) {
				fn(r, l)
			}
		}
	}
}
