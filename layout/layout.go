package layout

import (
	"fmt"

	"github.com/uhppoted/reagents-sheets/reagents"
)

// Sink is the minimal set of worksheet operations used by the renderers. Rows and columns
// are 1-based.
type Sink interface {
	Clear() error
	WriteRow(row int, values []any) error
	Merge(r Range) error
	SetStyle(r Range, style Style) error
}

// Renderer writes a dataset to a sink, replacing the existing content.
type Renderer interface {
	Render(sink Sink, dataset *reagents.Dataset) error
}

// Range is a rectangular block of cells. All bounds are 1-based and inclusive.
type Range struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Style is a set of formatting attributes. Only the attributes that are set are applied
// to a range, leaving any other existing formatting unchanged.
type Style struct {
	Bold       bool
	Horizontal string
	Vertical   string
	Wrap       bool
	Background string
	Foreground string
	Borders    bool
}

const (
	Center = "CENTER"
	Middle = "MIDDLE"
)

// Record headers, in column order.
var RecordHeaders = []string{
	"Producto",
	"Número",
	"Alta",
	"Marca",
	"Código",
	"Presentación",
	"Lote",
	"Vencimiento",
	"Baja",
}

// Usage headers, in column order following the record headers.
var UsageHeaders = []string{
	"Temperatura (°C)",
	"Humedad (%)",
	"Peso (g)",
	"Fecha de Uso",
	"Hora de Uso",
}

func Cell(row, col int) Range {
	return Range{Top: row, Left: col, Bottom: row, Right: col}
}

func Row(row, left, right int) Range {
	return Range{Top: row, Left: left, Bottom: row, Right: right}
}

func (r Range) Rows() int {
	return r.Bottom - r.Top + 1
}

func (r Range) Columns() int {
	return r.Right - r.Left + 1
}

// Contains returns true if the cell at (row,col) lies within the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}

// A1 returns the range in A1 notation e.g. "A1:N2". Single cells are returned as e.g. "M1".
func (r Range) A1() string {
	if r.Top == r.Bottom && r.Left == r.Right {
		return fmt.Sprintf("%v%v", ColumnName(r.Left), r.Top)
	}

	return fmt.Sprintf("%v%v:%v%v", ColumnName(r.Left), r.Top, ColumnName(r.Right), r.Bottom)
}

func (r Range) String() string {
	return r.A1()
}

// ColumnName converts a 1-based column number to a column letter e.g. 1 -> A, 28 -> AB.
func ColumnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}

	return name
}

// Merge combines two styles, with the attributes set in the overlay taking precedence.
func (s Style) Merge(overlay Style) Style {
	merged := s

	if overlay.Bold {
		merged.Bold = true
	}

	if overlay.Horizontal != "" {
		merged.Horizontal = overlay.Horizontal
	}

	if overlay.Vertical != "" {
		merged.Vertical = overlay.Vertical
	}

	if overlay.Wrap {
		merged.Wrap = true
	}

	if overlay.Background != "" {
		merged.Background = overlay.Background
	}

	if overlay.Foreground != "" {
		merged.Foreground = overlay.Foreground
	}

	if overlay.Borders {
		merged.Borders = true
	}

	return merged
}

// Block is the set of worksheet rows occupied by a single record: the record fields
// followed by the first usage entry in the first row and any further usage entries in
// the following rows, with the record columns left blank.
type Block struct {
	Record reagents.Record
	Rows   [][]any
}

// Blocks flattens records into worksheet rows. A record without usage entries still
// occupies a single row.
func Blocks(records []reagents.Record) []Block {
	blocks := []Block{}
	width := len(RecordHeaders) + len(UsageHeaders)

	for _, record := range records {
		n := len(record.Usage)
		if n == 0 {
			n = 1
		}

		rows := make([][]any, n)
		for i := range rows {
			rows[i] = blanks(width)
		}

		for i, field := range reagents.RecordFields {
			rows[0][i] = record.Get(field).Cell()
		}

		for i, entry := range record.Usage {
			copy(rows[i][len(RecordHeaders):], usage(entry))
		}

		blocks = append(blocks, Block{
			Record: record,
			Rows:   rows,
		})
	}

	return blocks
}

func usage(entry reagents.UsageEntry) []any {
	return []any{
		entry.Get(reagents.Temperature).Cell(),
		entry.Get(reagents.Humidity).Cell(),
		entry.Get(reagents.Weight).Fixed(2),
		entry.Get(reagents.UseDate).Cell(),
		entry.Get(reagents.UseTime).Cell(),
	}
}

func blanks(n int) []any {
	row := make([]any, n)
	for i := range row {
		row[i] = ""
	}

	return row
}
