// Package spreadsheet lee y escribe las planillas xlsx del almacén: catálogo de
// materiales (importación y exportación) y kardex de movimientos.
package spreadsheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field campo del catálogo de materiales reconocido en una planilla.
type Field string

const (
	FieldCode     Field = "code"
	FieldName     Field = "name"
	FieldUnit     Field = "unit"
	FieldCategory Field = "category"
	FieldMinStock Field = "min_stock"
)

// HeaderAlias encabezados aceptados para un campo, ya normalizados.
type HeaderAlias struct {
	Field    Field
	Required bool
	Aliases  []string
}

// MaterialHeaders tabla de encabezados de la planilla de materiales. El primer
// alias es el que se usa al exportar.
var MaterialHeaders = []HeaderAlias{
	{Field: FieldCode, Required: true, Aliases: []string{"codigo", "cod", "code", "sku", "codigo material", "cod material"}},
	{Field: FieldName, Required: true, Aliases: []string{"nombre", "descripcion", "material", "name", "nombre material"}},
	{Field: FieldUnit, Required: true, Aliases: []string{"unidad", "und", "um", "u m", "unidad de medida", "unit"}},
	{Field: FieldCategory, Aliases: []string{"categoria", "familia", "rubro", "grupo", "category"}},
	{Field: FieldMinStock, Aliases: []string{"stock minimo", "minimo", "stock min", "min stock", "min"}},
}

var exportHeaders = map[Field]string{
	FieldCode:     "Código",
	FieldName:     "Nombre",
	FieldUnit:     "Unidad",
	FieldCategory: "Categoría",
	FieldMinStock: "Stock mínimo",
}

// NormalizeHeader quita tildes, pasa a minúsculas y deja palabras separadas por
// un espacio: "  Código  de   Material." -> "codigo de material".
func NormalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	plain = strings.ToLower(plain)
	words := strings.FieldsFunc(plain, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}

// resolveHeaders ubica la columna de cada campo. Si un encabezado aparece dos
// veces gana la primera columna. Devuelve los campos obligatorios faltantes.
func resolveHeaders(header []string, table []HeaderAlias) (map[Field]int, []Field) {
	byAlias := make(map[string]Field)
	for _, h := range table {
		for _, a := range h.Aliases {
			byAlias[NormalizeHeader(a)] = h.Field
		}
	}

	cols := make(map[Field]int)
	for i, raw := range header {
		f, ok := byAlias[NormalizeHeader(raw)]
		if !ok {
			continue
		}
		if _, dup := cols[f]; !dup {
			cols[f] = i
		}
	}

	var missing []Field
	for _, h := range table {
		if _, ok := cols[h.Field]; h.Required && !ok {
			missing = append(missing, h.Field)
		}
	}
	return cols, missing
}
