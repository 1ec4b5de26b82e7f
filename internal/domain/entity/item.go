package entity

import "strings"

// ItemKind tipo de ítem de almacén. Un movimiento o una línea de requerimiento
// referencia exactamente uno de los tres.
type ItemKind string

const (
	ItemMaterial ItemKind = "material"
	ItemEquipo   ItemKind = "equipo"
	ItemEPP      ItemKind = "epp" // equipo de protección personal
)

// ItemRef referencia a un material, equipo o EPP. El valor cero representa una
// referencia ausente o inválida (ninguno o más de un tipo informado en origen).
type ItemRef struct {
	Kind ItemKind
	ID   string
}

// NewItemRef construye la referencia a partir de las tres columnas opcionales del
// registro remoto. Devuelve false si no hay exactamente una informada.
func NewItemRef(materialID, equipoID, eppID *string) (ItemRef, bool) {
	var (
		ref   ItemRef
		count int
	)
	if materialID != nil && *materialID != "" {
		ref = ItemRef{Kind: ItemMaterial, ID: *materialID}
		count++
	}
	if equipoID != nil && *equipoID != "" {
		ref = ItemRef{Kind: ItemEquipo, ID: *equipoID}
		count++
	}
	if eppID != nil && *eppID != "" {
		ref = ItemRef{Kind: ItemEPP, ID: *eppID}
		count++
	}
	if count != 1 {
		return ItemRef{}, false
	}
	return ref, true
}

// Valid indica si la referencia apunta a un ítem.
func (r ItemRef) Valid() bool {
	return r.ID != "" && (r.Kind == ItemMaterial || r.Kind == ItemEquipo || r.Kind == ItemEPP)
}

// Key clave estable "tipo:id" para agrupar por ítem.
func (r ItemRef) Key() string {
	if !r.Valid() {
		return ""
	}
	return string(r.Kind) + ":" + r.ID
}

// Columns devuelve la referencia descompuesta en las tres columnas opcionales
// (material_id, equipo_id, epp_id) para enviarla a los procedimientos remotos.
func (r ItemRef) Columns() (materialID, equipoID, eppID *string) {
	if !r.Valid() {
		return nil, nil, nil
	}
	id := r.ID
	switch r.Kind {
	case ItemMaterial:
		materialID = &id
	case ItemEquipo:
		equipoID = &id
	case ItemEPP:
		eppID = &id
	}
	return materialID, equipoID, eppID
}

// ParseItemKind interpreta el tipo recibido por API, sin distinguir mayúsculas.
func ParseItemKind(s string) (ItemKind, bool) {
	k := ItemKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ItemMaterial, ItemEquipo, ItemEPP:
		return k, true
	}
	return "", false
}
