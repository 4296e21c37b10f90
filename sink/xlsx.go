package sink

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/reagents-sheets/layout"
)

// XLSX is a layout.Sink that accumulates a single worksheet in memory and writes it out as
// an Excel workbook.
type XLSX struct {
	sheet  string
	rows   map[int][]any
	merges []layout.Range
	styles map[[2]int]layout.Style
}

const defaultSheet = "Sheet1"

func NewXLSX(sheet string) *XLSX {
	if strings.TrimSpace(sheet) == "" {
		sheet = defaultSheet
	}

	return &XLSX{
		sheet:  sheet,
		rows:   map[int][]any{},
		styles: map[[2]int]layout.Style{},
	}
}

func (x *XLSX) Clear() error {
	x.rows = map[int][]any{}
	x.merges = nil
	x.styles = map[[2]int]layout.Style{}

	return nil
}

func (x *XLSX) WriteRow(row int, values []any) error {
	if row < 1 {
		return fmt.Errorf("invalid row %v", row)
	}

	x.rows[row] = append([]any{}, values...)

	return nil
}

func (x *XLSX) Merge(r layout.Range) error {
	if err := validate(r); err != nil {
		return err
	}

	x.merges = append(x.merges, r)

	return nil
}

// SetStyle accumulates the style attributes per cell, so that e.g. borders applied over a
// block do not reset the alignment set on the individual rows.
func (x *XLSX) SetStyle(r layout.Range, style layout.Style) error {
	if err := validate(r); err != nil {
		return err
	}

	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			k := [2]int{row, col}
			x.styles[k] = x.styles[k].Merge(style)
		}
	}

	return nil
}

func (x *XLSX) Write(w io.Writer) error {
	f, err := x.workbook()
	if err != nil {
		return err
	}

	defer f.Close()

	return f.Write(w)
}

func (x *XLSX) Save(path string) error {
	f, err := x.workbook()
	if err != nil {
		return err
	}

	defer f.Close()

	return f.SaveAs(path)
}

func (x *XLSX) workbook() (*excelize.File, error) {
	f := excelize.NewFile()

	if x.sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, x.sheet); err != nil {
			return nil, fmt.Errorf("invalid worksheet name '%v' (%w)", x.sheet, err)
		}
	}

	index := []int{}
	for row := range x.rows {
		index = append(index, row)
	}

	sort.Ints(index)

	for _, row := range index {
		values := x.rows[row]
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(x.sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	for _, r := range x.merges {
		topLeft, _ := excelize.CoordinatesToCellName(r.Left, r.Top)
		bottomRight, _ := excelize.CoordinatesToCellName(r.Right, r.Bottom)

		if err := f.MergeCell(x.sheet, topLeft, bottomRight); err != nil {
			return nil, err
		}
	}

	cache := map[layout.Style]int{}
	for k, style := range x.styles {
		id, ok := cache[style]
		if !ok {
			v, err := f.NewStyle(xlsxStyle(style))
			if err != nil {
				return nil, err
			}

			id = v
			cache[style] = id
		}

		cell, err := excelize.CoordinatesToCellName(k[1], k[0])
		if err != nil {
			return nil, err
		}

		if err := f.SetCellStyle(x.sheet, cell, cell, id); err != nil {
			return nil, err
		}
	}

	if columns := x.columns(); columns > 0 {
		last, _ := excelize.ColumnNumberToName(columns)
		if err := f.SetColWidth(x.sheet, "A", last, 16); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (x *XLSX) columns() int {
	columns := 0
	for _, values := range x.rows {
		columns = max(columns, len(values))
	}

	return columns
}

func xlsxStyle(style layout.Style) *excelize.Style {
	s := excelize.Style{
		Font: &excelize.Font{
			Bold: style.Bold,
		},
		Alignment: &excelize.Alignment{
			Horizontal: strings.ToLower(style.Horizontal),
			Vertical:   vertical(style.Vertical),
			WrapText:   style.Wrap,
		},
	}

	if style.Foreground != "" {
		s.Font.Color = strings.TrimPrefix(style.Foreground, "#")
	}

	if style.Background != "" {
		s.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(style.Background, "#")},
		}
	}

	if style.Borders {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			s.Border = append(s.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}

	return &s
}

func vertical(v string) string {
	switch v {
	case layout.Middle:
		return "center"

	default:
		return strings.ToLower(v)
	}
}
