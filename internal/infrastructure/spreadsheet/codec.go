package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/application/inventory"
	"github.com/jhoicas/almacen-obra-api/internal/application/usecase"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
)

var (
	_ usecase.MaterialSheetCodec    = (*Codec)(nil)
	_ inventory.MovementSheetWriter = (*Codec)(nil)
)

const (
	materialsSheet = "Materiales"
	movementsSheet = "Kardex"
)

// Codec lee y genera planillas con excelize.
type Codec struct{}

// NewCodec construye el codec.
func NewCodec() *Codec { return &Codec{} }

// ReadMaterials lee la primera hoja. La fila 1 es el encabezado; las filas vacías
// se ignoran y las incompletas se informan en Unmatched.
func (c *Codec) ReadMaterials(r io.Reader) (*dto.MaterialSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilla ilegible: %v: %w", err, domain.ErrInvalidInput)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("leer hoja: %v: %w", err, domain.ErrInvalidInput)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("planilla vacía: %w", domain.ErrInvalidInput)
	}

	cols, missing := resolveHeaders(rows[0], MaterialHeaders)
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, exportHeaders[m])
		}
		return nil, fmt.Errorf("faltan columnas: %s: %w", strings.Join(names, ", "), domain.ErrInvalidInput)
	}

	sheet := &dto.MaterialSheet{Rows: []dto.MaterialRow{}, Unmatched: []dto.UnmatchedRowDTO{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		cell := func(f Field) string {
			idx, ok := cols[f]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		mr := dto.MaterialRow{
			Row:      rowNum,
			Code:     cell(FieldCode),
			Name:     cell(FieldName),
			Unit:     cell(FieldUnit),
			Category: cell(FieldCategory),
		}
		var reasons []string
		if mr.Code == "" {
			reasons = append(reasons, "falta el código")
		}
		if mr.Name == "" {
			reasons = append(reasons, "falta el nombre")
		}
		if mr.Unit == "" {
			reasons = append(reasons, "falta la unidad")
		}
		if raw := cell(FieldMinStock); raw != "" {
			d, err := parseQuantity(raw)
			if err != nil {
				reasons = append(reasons, fmt.Sprintf("stock mínimo inválido %q", raw))
			} else {
				mr.MinStock = d
			}
		}
		if len(reasons) > 0 {
			sheet.Unmatched = append(sheet.Unmatched, dto.UnmatchedRowDTO{Row: rowNum, Reason: strings.Join(reasons, "; ")})
			continue
		}
		sheet.Rows = append(sheet.Rows, mr)
	}
	return sheet, nil
}

// WriteMaterials genera la planilla del catálogo con los encabezados de importación.
func (c *Codec) WriteMaterials(rows []dto.MaterialRow) ([]byte, error) {
	header := []string{
		exportHeaders[FieldCode], exportHeaders[FieldName], exportHeaders[FieldUnit],
		exportHeaders[FieldCategory], exportHeaders[FieldMinStock],
	}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{r.Code, r.Name, r.Unit, r.Category, r.MinStock.InexactFloat64()})
	}
	return writeSheet(materialsSheet, header, data, []float64{14, 40, 10, 22, 14})
}

// WriteMovements genera el kardex de una obra.
func (c *Codec) WriteMovements(obraID string, rows []dto.MovementRow) ([]byte, error) {
	header := []string{"Fecha", "Tipo", "Tipo de ítem", "Ítem", "Cantidad", "Documento"}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{r.Date, r.Type, r.ItemKind, r.ItemName, r.Quantity.InexactFloat64(), r.DocumentRef})
	}
	out, err := writeSheet(movementsSheet, header, data, []float64{18, 10, 12, 40, 12, 20})
	if err != nil {
		return nil, fmt.Errorf("kardex obra %s: %w", obraID, err)
	}
	return out, nil
}

func writeSheet(name string, header []string, data [][]any, widths []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(name, "A1", lastCol+"1", boldStyle); err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}

	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(name, col, col, w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// parseQuantity acepta "12.5" y "12,5".
func parseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negativo")
	}
	return d, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
