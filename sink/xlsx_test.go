package sink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/reagents-sheets/layout"
	"github.com/uhppoted/reagents-sheets/reagents"
)

func TestXLSXExtended(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			{
				Key: "-b",
				Fields: map[string]reagents.Value{
					reagents.Product: reagents.StringValue("Hexano"),
					reagents.Number:  reagents.NumberValue(2),
				},
			},
			{
				Key: "-a",
				Fields: map[string]reagents.Value{
					reagents.Product: reagents.StringValue("Metanol"),
					reagents.Number:  reagents.NumberValue(1),
				},
				Usage: []reagents.UsageEntry{
					{ID: "u1", Fields: map[string]reagents.Value{reagents.Weight: reagents.NumberValue(3)}},
					{ID: "u2", Fields: map[string]reagents.Value{reagents.UseTime: reagents.StringValue("10:15")}},
				},
			},
		},
	}

	x := NewXLSX("Reactivos")
	require.NoError(t, layout.NewExtended().Render(x, &dataset))

	var b bytes.Buffer
	require.NoError(t, x.Write(&b))

	f, err := excelize.OpenReader(&b)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{"Reactivos"}, f.GetSheetList())

	cells := map[string]string{
		"A1":  "CONTROL UNION",
		"B1":  "PLANILLA CONTROL DE REACTIVOS",
		"N1":  "0",
		"A6":  "Datos del Reactivo",
		"J6":  "Registros de Uso",
		"L7":  "Peso (g)",
		"A8":  "Metanol",
		"B8":  "1",
		"L8":  "3.00",
		"L9":  "",
		"N9":  "10:15",
		"A10": "Hexano",
	}

	for cell, expected := range cells {
		v, err := f.GetCellValue("Reactivos", cell)
		require.NoError(t, err)
		assert.Equal(t, expected, v, "cell %v", cell)
	}

	merged, err := f.GetMergeCells("Reactivos")
	require.NoError(t, err)

	ranges := map[string]bool{}
	for _, m := range merged {
		ranges[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}

	for _, r := range []string{"A1:A2", "B1:L1", "A3:N5", "A6:I6", "J6:N6", "A8:A9", "I8:I9"} {
		assert.True(t, ranges[r], "missing merged range %v", r)
	}

	assert.Len(t, merged, 15)

	id, err := f.GetCellStyle("Reactivos", "J6")
	require.NoError(t, err)

	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.Len(t, style.Fill.Color, 1)
	assert.Contains(t, style.Fill.Color[0], "4F4F4F")
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.Len(t, style.Border, 4)
}

func TestXLSXSimple(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			{Key: "-a", Fields: map[string]reagents.Value{reagents.Product: reagents.StringValue("Metanol")}},
		},
	}

	x := NewXLSX("")
	require.NoError(t, (&layout.Simple{}).Render(x, &dataset))

	var b bytes.Buffer
	require.NoError(t, x.Write(&b))

	f, err := excelize.OpenReader(&b)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Producto", rows[0][0])
	assert.Equal(t, "Baja", rows[0][8])
	assert.Equal(t, "Metanol", rows[1][0])
}

func TestXLSXStylesAccumulate(t *testing.T) {
	x := NewXLSX("Sheet1")

	require.NoError(t, x.SetStyle(layout.Row(1, 1, 3), layout.Style{Horizontal: layout.Center}))
	require.NoError(t, x.SetStyle(layout.Range{Top: 1, Left: 1, Bottom: 2, Right: 3}, layout.Style{Borders: true}))

	assert.Equal(t, layout.Style{Horizontal: layout.Center, Borders: true}, x.styles[[2]int{1, 2}])
	assert.Equal(t, layout.Style{Borders: true}, x.styles[[2]int{2, 2}])

	require.NoError(t, x.Clear())
	assert.Empty(t, x.styles)
}

func TestXLSXStyle(t *testing.T) {
	s := xlsxStyle(layout.Style{Bold: true, Vertical: layout.Middle, Wrap: true, Foreground: "#FFFFFF"})

	assert.True(t, s.Font.Bold)
	assert.Equal(t, "FFFFFF", s.Font.Color)
	assert.Equal(t, "center", s.Alignment.Vertical)
	assert.True(t, s.Alignment.WrapText)
	assert.Empty(t, s.Border)
	assert.Empty(t, s.Fill.Type)
}
