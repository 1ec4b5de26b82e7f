package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
)

// buildSheet arma una planilla en memoria con las filas dadas.
func buildSheet(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Código":               "codigo",
		"  STOCK   Mínimo ":    "stock minimo",
		"U.M.":                 "u m",
		"Categoría / Familia":  "categoria familia",
		"Descripción del ítem": "descripcion del item",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestReadMaterials_AliasYFilasIncompletas(t *testing.T) {
	r := buildSheet(t, [][]any{
		{"Descripción", "COD", "Observaciones", "U.M.", "Familia", "Stock mínimo"},
		{"Cemento Sol", "CEM-01", "x", "bolsa", "Aglomerantes", "20"},
		{"Arena gruesa", "ARE-01", "", "m3", "", "2,5"},
		{},
		{"Sin código", "", "", "und", "", ""},
		{"Clavo 3\"", "CLA-03", "", "kg", "", "muchos"},
	})

	sheet, err := NewCodec().ReadMaterials(r)

	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "CEM-01", sheet.Rows[0].Code)
	assert.Equal(t, "Cemento Sol", sheet.Rows[0].Name)
	assert.Equal(t, "bolsa", sheet.Rows[0].Unit)
	assert.Equal(t, "Aglomerantes", sheet.Rows[0].Category)
	assert.True(t, decimal.NewFromInt(20).Equal(sheet.Rows[0].MinStock))
	assert.True(t, decimal.RequireFromString("2.5").Equal(sheet.Rows[1].MinStock))
	assert.Equal(t, 3, sheet.Rows[1].Row)

	require.Len(t, sheet.Unmatched, 2)
	assert.Equal(t, 5, sheet.Unmatched[0].Row)
	assert.Contains(t, sheet.Unmatched[0].Reason, "código")
	assert.Equal(t, 6, sheet.Unmatched[1].Row)
	assert.Contains(t, sheet.Unmatched[1].Reason, "stock mínimo")
}

func TestReadMaterials_FaltanColumnasObligatorias(t *testing.T) {
	r := buildSheet(t, [][]any{{"Nombre", "Categoría"}, {"Cemento", "Aglomerantes"}})

	_, err := NewCodec().ReadMaterials(r)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Código")
	assert.Contains(t, err.Error(), "Unidad")
}

func TestReadMaterials_NoEsXLSX(t *testing.T) {
	_, err := NewCodec().ReadMaterials(bytes.NewReader([]byte("codigo,nombre\n")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWriteMaterials_SeReimporta(t *testing.T) {
	rows := []dto.MaterialRow{
		{Code: "FIE-12", Name: "Fierro 1/2", Unit: "varilla", Category: "Acero", MinStock: decimal.NewFromInt(100)},
		{Code: "ALA-16", Name: "Alambre 16", Unit: "kg"},
	}
	c := NewCodec()

	out, err := c.WriteMaterials(rows)
	require.NoError(t, err)

	sheet, err := c.ReadMaterials(bytes.NewReader(out))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Empty(t, sheet.Unmatched)
	assert.Equal(t, "Acero", sheet.Rows[0].Category)
	assert.True(t, decimal.NewFromInt(100).Equal(sheet.Rows[0].MinStock))
}

func TestWriteMovements_HojaKardex(t *testing.T) {
	out, err := NewCodec().WriteMovements("obra-1", []dto.MovementRow{
		{Date: "2026-03-02 09:30", Type: "ENTRADA", ItemKind: "material", ItemName: "Cemento", Quantity: decimal.NewFromInt(100), DocumentRef: "OC-7"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, []string{"2026-03-02 09:30", "ENTRADA", "material", "Cemento", "100", "OC-7"}, rows[1])
}
