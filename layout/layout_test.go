package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/uhppoted/reagents-sheets/reagents"
)

type grid struct {
	cleared int
	cells   map[[2]int]any
	merges  []Range
	styles  map[[2]int]Style
	fail    bool
}

func newGrid() *grid {
	return &grid{
		cells:  map[[2]int]any{},
		styles: map[[2]int]Style{},
	}
}

func (g *grid) Clear() error {
	g.cleared++
	g.cells = map[[2]int]any{}
	g.merges = nil
	g.styles = map[[2]int]Style{}

	return nil
}

func (g *grid) WriteRow(row int, values []any) error {
	if g.fail {
		return fmt.Errorf("quota exceeded")
	}

	for i, v := range values {
		g.cells[[2]int{row, i + 1}] = v
	}

	return nil
}

func (g *grid) Merge(r Range) error {
	g.merges = append(g.merges, r)

	return nil
}

func (g *grid) SetStyle(r Range, style Style) error {
	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			k := [2]int{row, col}
			g.styles[k] = g.styles[k].Merge(style)
		}
	}

	return nil
}

func (g *grid) row(row, columns int) []any {
	values := make([]any, columns)
	for col := 1; col <= columns; col++ {
		values[col-1] = g.cells[[2]int{row, col}]
	}

	return values
}

func (g *grid) merged(r Range) bool {
	for _, m := range g.merges {
		if m == r {
			return true
		}
	}

	return false
}

func record(key string, number any, usage ...reagents.UsageEntry) reagents.Record {
	r := reagents.Record{
		Key: key,
		Fields: map[string]reagents.Value{
			reagents.Product: reagents.StringValue("Reactivo " + key),
		},
		Usage: usage,
	}

	switch v := number.(type) {
	case int:
		r.Fields[reagents.Number] = reagents.NumberValue(float64(v))
	case string:
		r.Fields[reagents.Number] = reagents.StringValue(v)
	}

	return r
}

func use(id string, temperature float64, weight any) reagents.UsageEntry {
	u := reagents.UsageEntry{
		ID: id,
		Fields: map[string]reagents.Value{
			reagents.Temperature: reagents.NumberValue(temperature),
			reagents.Humidity:    reagents.NumberValue(45),
			reagents.UseDate:     reagents.StringValue("2024-10-0" + id),
			reagents.UseTime:     reagents.StringValue("09:30"),
		},
	}

	if w, ok := weight.(float64); ok {
		u.Fields[reagents.Weight] = reagents.NumberValue(w)
	}

	return u
}

func TestSimpleRender(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("B", 2),
			record("A", 1),
		},
	}

	g := newGrid()
	if err := (&Simple{}).Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	expected := [][]any{
		{"Producto", "Número", "Alta", "Marca", "Código", "Presentación", "Lote", "Vencimiento", "Baja"},
		{"Reactivo B", 2.0, "", "", "", "", "", "", ""},
		{"Reactivo A", 1.0, "", "", "", "", "", "", ""},
	}

	for i, row := range expected {
		if got := g.row(i+1, 9); !reflect.DeepEqual(got, row) {
			t.Errorf("Incorrect row %v\n   expected: %v\n   got:      %v", i+1, row, got)
		}
	}

	if g.cleared != 1 {
		t.Errorf("Expected sheet to be cleared once, got %v", g.cleared)
	}

	if style := g.styles[[2]int{1, 9}]; !style.Bold || style.Horizontal != Center {
		t.Errorf("Incorrect header style %+v", style)
	}

	if style := g.styles[[2]int{3, 1}]; style.Bold || style.Horizontal != Center {
		t.Errorf("Incorrect data style %+v", style)
	}

	if len(g.merges) != 0 {
		t.Errorf("Unexpected merges %v", g.merges)
	}

	if _, ok := g.cells[[2]int{1, 10}]; ok {
		t.Errorf("Simple layout wrote beyond column I")
	}
}

func TestExtendedLetterhead(t *testing.T) {
	g := newGrid()
	if err := NewExtended().Render(g, &reagents.Dataset{}); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	cells := map[string]any{
		"A1": "CONTROL UNION",
		"B1": "PLANILLA CONTROL DE REACTIVOS",
		"M1": "Revisión",
		"N1": "0",
		"B2": "Código PL-125",
		"M2": "Página",
		"N2": "1/1",
		"A6": "Datos del Reactivo",
		"J6": "Registros de Uso",
	}

	for row := 1; row <= 7; row++ {
		for col := 1; col <= 14; col++ {
			cell := Cell(row, col).A1()
			if v, ok := cells[cell]; ok {
				if got := g.cells[[2]int{row, col}]; got != v {
					t.Errorf("Incorrect value for %v - expected:%v, got:%v", cell, v, got)
				}
			}
		}
	}

	headers := []any{
		"Producto", "Número", "Alta", "Marca", "Código", "Presentación", "Lote", "Vencimiento", "Baja",
		"Temperatura (°C)", "Humedad (%)", "Peso (g)", "Fecha de Uso", "Hora de Uso",
	}

	if got := g.row(7, 14); !reflect.DeepEqual(got, headers) {
		t.Errorf("Incorrect header row\n   expected: %v\n   got:      %v", headers, got)
	}

	for _, m := range []string{"A1:A2", "B1:L1", "B2:L2", "A3:N5", "A6:I6", "J6:N6"} {
		found := false
		for _, r := range g.merges {
			if r.A1() == m {
				found = true
			}
		}

		if !found {
			t.Errorf("Missing merged range %v", m)
		}
	}

	if len(g.merges) != 6 {
		t.Errorf("Incorrect number of merged ranges - expected:%v, got:%v (%v)", 6, len(g.merges), g.merges)
	}

	section := g.styles[[2]int{6, 10}]
	if !section.Bold || section.Background != "#4F4F4F" || section.Foreground != "#FFFFFF" || !section.Borders {
		t.Errorf("Incorrect section title style %+v", section)
	}

	header := g.styles[[2]int{7, 14}]
	if !header.Bold || !header.Wrap || header.Vertical != Middle || !header.Borders {
		t.Errorf("Incorrect header style %+v", header)
	}

	if style := g.styles[[2]int{2, 14}]; style.Bold || !style.Borders || style.Horizontal != Center {
		t.Errorf("Incorrect letterhead value style %+v", style)
	}
}

func TestExtendedSortOrder(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("C", 3),
			record("X", nil),
			record("A", "1"),
			record("Q", "qwerty"),
			record("B", 1),
		},
	}

	g := newGrid()
	if err := NewExtended().Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	expected := []any{"Reactivo X", "Reactivo Q", "Reactivo A", "Reactivo B", "Reactivo C"}
	for i, v := range expected {
		if got := g.cells[[2]int{FirstRow + i, 1}]; got != v {
			t.Errorf("Incorrect record in row %v - expected:%v, got:%v", FirstRow+i, v, got)
		}
	}

	if got := g.cells[[2]int{FirstRow + 5, 1}]; got != nil {
		t.Errorf("Unexpected value after last record: %v", got)
	}

	if len(g.merges) != 6 {
		t.Errorf("Unexpected merged ranges for records without usage: %v", g.merges[6:])
	}
}

func TestExtendedUsageRows(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("B", 2),
			record("A", 1, use("1", 21.5, 3.0), use("2", 22, nil)),
		},
	}

	g := newGrid()
	if err := NewExtended().Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	expected := [][]any{
		{"Reactivo A", 1.0, "", "", "", "", "", "", "", 21.5, 45.0, "3.00", "2024-10-01", "09:30"},
		{"", "", "", "", "", "", "", "", "", 22.0, 45.0, "", "2024-10-02", "09:30"},
		{"Reactivo B", 2.0, "", "", "", "", "", "", "", "", "", "", "", ""},
	}

	for i, row := range expected {
		if got := g.row(FirstRow+i, 14); !reflect.DeepEqual(got, row) {
			t.Errorf("Incorrect row %v\n   expected: %v\n   got:      %v", FirstRow+i, row, got)
		}
	}

	for col := 1; col <= 9; col++ {
		r := Range{Top: FirstRow, Left: col, Bottom: FirstRow + 1, Right: col}
		if !g.merged(r) {
			t.Errorf("Expected merged range %v", r)
		}
	}

	for col := 10; col <= 14; col++ {
		for _, m := range g.merges {
			if m.Top >= FirstRow && m.Contains(FirstRow, col) {
				t.Errorf("Unexpected merged usage column %v", m)
			}
		}
	}

	if len(g.merges) != 6+9 {
		t.Errorf("Incorrect number of merged ranges - expected:%v, got:%v", 15, len(g.merges))
	}

	for row := FirstRow; row <= FirstRow+2; row++ {
		if style := g.styles[[2]int{row, 14}]; !style.Borders || !style.Wrap || style.Horizontal != Center || style.Vertical != Middle {
			t.Errorf("Incorrect style for row %v: %+v", row, style)
		}
	}
}

func TestExtendedGapAfterUsage(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("A", 1, use("1", 21.5, 3.0), use("2", 22, 4.25)),
			record("B", 2, use("3", 20, 1.0)),
			record("C", 3),
		},
	}

	x := NewExtended()
	x.GapAfterUsage = true

	g := newGrid()
	if err := x.Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	rows := map[int]any{
		8:  "Reactivo A",
		9:  "",
		10: nil,
		11: "Reactivo B",
		12: "Reactivo C",
	}

	for row, v := range rows {
		if got := g.cells[[2]int{row, 1}]; got != v {
			t.Errorf("Incorrect value in row %v - expected:%#v, got:%#v", row, v, got)
		}
	}

	if got := g.cells[[2]int{9, 12}]; got != "4.25" {
		t.Errorf("Incorrect weight for second usage entry - expected:%v, got:%v", "4.25", got)
	}

	if !g.merged(Range{Top: 8, Left: 9, Bottom: 9, Right: 9}) {
		t.Errorf("Expected merged range I8:I9")
	}
}

func TestExtendedWithoutGap(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("A", 1, use("1", 21.5, 3.0), use("2", 22, 4.25)),
			record("B", 2),
		},
	}

	g := newGrid()
	if err := NewExtended().Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	if got := g.cells[[2]int{10, 1}]; got != "Reactivo B" {
		t.Errorf("Expected next record immediately after usage rows, got %#v", got)
	}
}

func TestExtendedWithMissingFields(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			{Key: "empty", Fields: map[string]reagents.Value{}},
		},
	}

	g := newGrid()
	if err := NewExtended().Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	expected := make([]any, 14)
	for i := range expected {
		expected[i] = ""
	}

	if got := g.row(FirstRow, 14); !reflect.DeepEqual(got, expected) {
		t.Errorf("Incorrect row for record without fields\n   expected: %#v\n   got:      %#v", expected, got)
	}
}

func TestExtendedWrapsUsedRange(t *testing.T) {
	dataset := reagents.Dataset{
		Records: []reagents.Record{
			record("A", 1, use("1", 21.5, 3.0), use("2", 22, 4.25)),
		},
	}

	g := newGrid()
	if err := NewExtended().Render(g, &dataset); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	for _, k := range [][2]int{{1, 1}, {4, 7}, {9, 14}} {
		if !g.styles[k].Wrap {
			t.Errorf("Expected cell %v to be wrapped", Cell(k[0], k[1]).A1())
		}
	}

	if _, ok := g.styles[[2]int{10, 1}]; ok {
		t.Errorf("Unexpected style beyond used range")
	}
}

func TestExtendedCustomLetterhead(t *testing.T) {
	x := NewExtended()
	x.Letterhead.Organisation = "LAB 7"
	x.Letterhead.Page = "2/3"

	g := newGrid()
	if err := x.Render(g, &reagents.Dataset{}); err != nil {
		t.Fatalf("Unexpected error rendering dataset (%v)", err)
	}

	if got := g.cells[[2]int{1, 1}]; got != "LAB 7" {
		t.Errorf("Incorrect organisation - expected:%v, got:%v", "LAB 7", got)
	}

	if got := g.cells[[2]int{2, 14}]; got != "2/3" {
		t.Errorf("Incorrect page - expected:%v, got:%v", "2/3", got)
	}
}

func TestRenderError(t *testing.T) {
	g := newGrid()
	g.fail = true

	if err := NewExtended().Render(g, &reagents.Dataset{}); err == nil {
		t.Errorf("Expected error from failing sink")
	}

	if err := (&Simple{}).Render(g, &reagents.Dataset{}); err == nil {
		t.Errorf("Expected error from failing sink")
	}
}

func TestBlocks(t *testing.T) {
	records := []reagents.Record{
		record("A", 1),
		record("B", 2, use("1", 20, 1.0), use("2", 21, 2.0), use("3", 22, 3.0)),
		{Key: "C", Fields: map[string]reagents.Value{}, Usage: []reagents.UsageEntry{}},
	}

	blocks := Blocks(records)
	if len(blocks) != 3 {
		t.Fatalf("Incorrect block count - expected:%v, got:%v", 3, len(blocks))
	}

	for i, n := range []int{1, 3, 1} {
		if len(blocks[i].Rows) != n {
			t.Errorf("Incorrect row count for block %v - expected:%v, got:%v", i, n, len(blocks[i].Rows))
		}
	}

	if v := blocks[1].Rows[2][11]; v != "3.00" {
		t.Errorf("Incorrect weight in third usage row - expected:%v, got:%v", "3.00", v)
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{
		1:  "A",
		9:  "I",
		14: "N",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}

	for col, expected := range tests {
		if name := ColumnName(col); name != expected {
			t.Errorf("Incorrect column name for %v - expected:%v, got:%v", col, expected, name)
		}
	}
}

func TestRangeA1(t *testing.T) {
	if s := (Range{Top: 3, Left: 1, Bottom: 5, Right: 14}).A1(); s != "A3:N5" {
		t.Errorf("Incorrect A1 range - expected:%v, got:%v", "A3:N5", s)
	}

	if s := Cell(2, 13).A1(); s != "M2" {
		t.Errorf("Incorrect A1 cell - expected:%v, got:%v", "M2", s)
	}
}
