package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de almacén.
const (
	MovementEntrada = "ENTRADA"
	MovementSalida  = "SALIDA"
)

// Movement representa un movimiento del kardex de una obra (entrada o salida).
// Lo generan exclusivamente los procedimientos remotos; aquí es de solo lectura.
type Movement struct {
	ID          string
	ObraID      string
	Type        string
	Quantity    decimal.Decimal // no negativo
	Item        ItemRef
	DocumentRef string // guía, OC, caja chica, vale de salida...
	CreatedAt   time.Time
}

// IsEntrada indica si el movimiento suma stock.
func (m Movement) IsEntrada() bool { return m.Type == MovementEntrada }

// IsSalida indica si el movimiento descuenta stock.
func (m Movement) IsSalida() bool { return m.Type == MovementSalida }
