package entity

// CorrectionKey par (requerimiento, ítem) cuya línea de orden de compra se registró
// con cantidad cero.
type CorrectionKey struct {
	RequisitionID string
	ItemID        string
}

// CorrectionSet conjunto de líneas corregidas a cero. Se reconstruye en cada carga y
// es de solo lectura durante la agregación.
type CorrectionSet map[CorrectionKey]struct{}

// NewCorrectionSet construye el conjunto a partir de las claves leídas.
func NewCorrectionSet(keys []CorrectionKey) CorrectionSet {
	set := make(CorrectionSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Contains indica si la línea (requerimiento, ítem) fue corregida a cero.
func (s CorrectionSet) Contains(requisitionID, itemID string) bool {
	if s == nil {
		return false
	}
	_, ok := s[CorrectionKey{RequisitionID: requisitionID, ItemID: itemID}]
	return ok
}
