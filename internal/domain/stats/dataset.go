// Package stats contiene el motor de estadísticas del almacén de obra: el filtro de
// exclusión de líneas, la ventana de período y los reductores que alimentan el
// dashboard. Todas las funciones son puras: no hacen I/O ni modifican sus entradas,
// y con entradas vacías devuelven resultados en cero.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// MissingLabel etiqueta para valores ausentes (ítem sin nombre, referencia inválida).
const MissingLabel = "-"

// Names resuelve ItemRef.Key() → nombre visible.
type Names map[string]string

// NewNames indexa el catálogo de ítems por clave.
func NewNames(items []entity.CatalogItem) Names {
	names := make(Names, len(items))
	for _, it := range items {
		if k := it.Item.Key(); k != "" && it.Name != "" {
			names[k] = it.Name
		}
	}
	return names
}

// Of devuelve el nombre del ítem o MissingLabel.
func (n Names) Of(ref entity.ItemRef) string {
	if name, ok := n[ref.Key()]; ok && name != "" {
		return name
	}
	return MissingLabel
}

// Dataset registros crudos de una obra, inmutables después de la ingesta.
type Dataset struct {
	ObraID       string
	Movements    []entity.Movement
	Requisitions []entity.Requisition
	Inventory    []entity.InventorySnapshot
	Corrections  entity.CorrectionSet
	Names        Names
	LoadedAt     time.Time
}

var hundred = decimal.NewFromInt(100)

// qty lee una cantidad tolerando datos mal formados: negativos cuentan como cero.
func qty(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// percent devuelve part/total en porcentaje redondeado al entero más cercano;
// 0 si total no es positivo.
func percent(part, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(part.Div(total).Mul(hundred).Round(0).IntPart())
}

// daysSince días completos transcurridos entre from y now (división entera).
func daysSince(from, now time.Time) int {
	if from.IsZero() || now.Before(from) {
		return 0
	}
	return int(now.Sub(from) / (24 * time.Hour))
}

// onHandIndex stock actual por ítem. Filas duplicadas del mismo ítem se suman.
func onHandIndex(inventory []entity.InventorySnapshot) map[string]decimal.Decimal {
	idx := make(map[string]decimal.Decimal, len(inventory))
	for _, s := range inventory {
		k := s.Item.Key()
		if k == "" {
			continue
		}
		idx[k] = idx[k].Add(qty(s.OnHand))
	}
	return idx
}
