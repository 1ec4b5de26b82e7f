package dto

import "github.com/shopspring/decimal"

// MaterialRow fila de la planilla de materiales ya mapeada a campos.
type MaterialRow struct {
	Row      int // número de fila en la hoja (1 = encabezado)
	Code     string
	Name     string
	Unit     string
	Category string
	MinStock decimal.Decimal
}

// UnmatchedRowDTO fila que no pudo importarse.
type UnmatchedRowDTO struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// MaterialSheet contenido leído de una planilla de materiales.
type MaterialSheet struct {
	Rows      []MaterialRow
	Unmatched []UnmatchedRowDTO
}

// ImportResultDTO respuesta de POST /api/materials/import.
type ImportResultDTO struct {
	Created       int               `json:"created"`
	Updated       int               `json:"updated"`
	Failed        int               `json:"failed"`
	UnmatchedRows []UnmatchedRowDTO `json:"unmatched_rows"`
}

// MovementRow fila de la exportación del kardex.
type MovementRow struct {
	Date        string
	Type        string
	ItemKind    string
	ItemName    string
	Quantity    decimal.Decimal
	DocumentRef string
}
