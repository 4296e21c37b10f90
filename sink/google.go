package sink

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/reagents-sheets/layout"
)

// Google is a layout.Sink that buffers the worksheet operations and applies them to a
// Google Sheets worksheet in three batched requests when flushed.
type Google struct {
	service     *sheets.Service
	spreadsheet string
	sheet       *sheets.SheetProperties

	cleared bool
	rows    map[int][]any
	merges  []layout.Range
	styles  []styled
}

type styled struct {
	r     layout.Range
	style layout.Style
}

func NewGoogle(service *sheets.Service, spreadsheet string, sheet *sheets.SheetProperties) *Google {
	return &Google{
		service:     service,
		spreadsheet: spreadsheet,
		sheet:       sheet,
		rows:        map[int][]any{},
	}
}

// Clear discards any buffered operations and marks the worksheet to be cleared of values,
// formatting and merged ranges when flushed.
func (g *Google) Clear() error {
	g.cleared = true
	g.rows = map[int][]any{}
	g.merges = nil
	g.styles = nil

	return nil
}

func (g *Google) WriteRow(row int, values []any) error {
	if row < 1 {
		return fmt.Errorf("invalid row %v", row)
	}

	g.rows[row] = append([]any{}, values...)

	return nil
}

func (g *Google) Merge(r layout.Range) error {
	if err := validate(r); err != nil {
		return err
	}

	g.merges = append(g.merges, r)

	return nil
}

func (g *Google) SetStyle(r layout.Range, style layout.Style) error {
	if err := validate(r); err != nil {
		return err
	}

	for _, c := range []string{style.Background, style.Foreground} {
		if c != "" {
			if _, err := color(c); err != nil {
				return err
			}
		}
	}

	g.styles = append(g.styles, styled{r, style})

	return nil
}

// Flush clears (and if necessary extends) the worksheet, writes the buffered values and
// then applies the merged ranges and formatting.
func (g *Google) Flush(ctx context.Context) error {
	if prepare := g.prepare(); len(prepare) > 0 {
		rq := sheets.BatchUpdateSpreadsheetRequest{
			Requests: prepare,
		}

		if _, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error clearing worksheet '%v' (%w)", g.sheet.Title, err)
		}
	}

	if data := g.values(); len(data) > 0 {
		rq := sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             data,
		}

		if _, err := g.service.Spreadsheets.Values.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error writing values to worksheet '%v' (%w)", g.sheet.Title, err)
		}
	}

	if format := g.format(); len(format) > 0 {
		rq := sheets.BatchUpdateSpreadsheetRequest{
			Requests: format,
		}

		if _, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error formatting worksheet '%v' (%w)", g.sheet.Title, err)
		}
	}

	return nil
}

func (g *Google) prepare() []*sheets.Request {
	requests := []*sheets.Request{}
	whole := &sheets.GridRange{SheetId: g.sheet.SheetId}

	if g.cleared {
		requests = append(requests,
			&sheets.Request{
				UpdateCells: &sheets.UpdateCellsRequest{
					Range:  whole,
					Fields: "userEnteredValue,userEnteredFormat",
				},
			},
			&sheets.Request{
				UnmergeCells: &sheets.UnmergeCellsRequest{
					Range: whole,
				},
			})
	}

	if grid := g.sheet.GridProperties; grid != nil {
		rows, columns := g.extent()

		if n := int64(rows) - grid.RowCount; n > 0 {
			requests = append(requests, &sheets.Request{
				AppendDimension: &sheets.AppendDimensionRequest{
					SheetId:   g.sheet.SheetId,
					Dimension: "ROWS",
					Length:    n,
				},
			})
		}

		if n := int64(columns) - grid.ColumnCount; n > 0 {
			requests = append(requests, &sheets.Request{
				AppendDimension: &sheets.AppendDimensionRequest{
					SheetId:   g.sheet.SheetId,
					Dimension: "COLUMNS",
					Length:    n,
				},
			})
		}
	}

	return requests
}

func (g *Google) values() []*sheets.ValueRange {
	index := []int{}
	for row := range g.rows {
		index = append(index, row)
	}

	sort.Ints(index)

	data := []*sheets.ValueRange{}
	for _, row := range index {
		values := g.rows[row]
		if len(values) == 0 {
			continue
		}

		data = append(data, &sheets.ValueRange{
			Range:  a1(g.sheet.Title, layout.Row(row, 1, len(values))),
			Values: [][]any{values},
		})
	}

	return data
}

func (g *Google) format() []*sheets.Request {
	requests := []*sheets.Request{}

	for _, r := range g.merges {
		requests = append(requests, &sheets.Request{
			MergeCells: &sheets.MergeCellsRequest{
				Range:     grid(g.sheet.SheetId, r),
				MergeType: "MERGE_ALL",
			},
		})
	}

	for _, s := range g.styles {
		if rq := repeatCell(g.sheet.SheetId, s.r, s.style); rq != nil {
			requests = append(requests, &sheets.Request{RepeatCell: rq})
		}

		if s.style.Borders {
			requests = append(requests, &sheets.Request{UpdateBorders: borders(g.sheet.SheetId, s.r)})
		}
	}

	return requests
}

// extent returns the number of rows and columns spanned by the buffered operations.
func (g *Google) extent() (int, int) {
	rows := 0
	columns := 0

	for row, values := range g.rows {
		rows = max(rows, row)
		columns = max(columns, len(values))
	}

	for _, r := range g.merges {
		rows = max(rows, r.Bottom)
		columns = max(columns, r.Right)
	}

	for _, s := range g.styles {
		rows = max(rows, s.r.Bottom)
		columns = max(columns, s.r.Right)
	}

	return rows, columns
}

func repeatCell(sheet int64, r layout.Range, style layout.Style) *sheets.RepeatCellRequest {
	format := sheets.CellFormat{}
	fields := []string{}

	if style.Bold || style.Foreground != "" {
		format.TextFormat = &sheets.TextFormat{}
	}

	if style.Bold {
		format.TextFormat.Bold = true
		fields = append(fields, "userEnteredFormat.textFormat.bold")
	}

	if style.Foreground != "" {
		format.TextFormat.ForegroundColor, _ = color(style.Foreground)
		fields = append(fields, "userEnteredFormat.textFormat.foregroundColor")
	}

	if style.Background != "" {
		format.BackgroundColor, _ = color(style.Background)
		fields = append(fields, "userEnteredFormat.backgroundColor")
	}

	if style.Horizontal != "" {
		format.HorizontalAlignment = style.Horizontal
		fields = append(fields, "userEnteredFormat.horizontalAlignment")
	}

	if style.Vertical != "" {
		format.VerticalAlignment = style.Vertical
		fields = append(fields, "userEnteredFormat.verticalAlignment")
	}

	if style.Wrap {
		format.WrapStrategy = "WRAP"
		fields = append(fields, "userEnteredFormat.wrapStrategy")
	}

	if len(fields) == 0 {
		return nil
	}

	return &sheets.RepeatCellRequest{
		Range:  grid(sheet, r),
		Cell:   &sheets.CellData{UserEnteredFormat: &format},
		Fields: strings.Join(fields, ","),
	}
}

func borders(sheet int64, r layout.Range) *sheets.UpdateBordersRequest {
	solid := func() *sheets.Border {
		return &sheets.Border{Style: "SOLID"}
	}

	return &sheets.UpdateBordersRequest{
		Range:           grid(sheet, r),
		Top:             solid(),
		Bottom:          solid(),
		Left:            solid(),
		Right:           solid(),
		InnerHorizontal: solid(),
		InnerVertical:   solid(),
	}
}

// grid converts a 1-based inclusive range to a 0-based half-open grid range.
func grid(sheet int64, r layout.Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheet,
		StartRowIndex:    int64(r.Top - 1),
		EndRowIndex:      int64(r.Bottom),
		StartColumnIndex: int64(r.Left - 1),
		EndColumnIndex:   int64(r.Right),
	}
}

// a1 returns the range qualified with the quoted worksheet name e.g. 'Sheet 1'!A8:N8.
func a1(sheet string, r layout.Range) string {
	return fmt.Sprintf("'%v'!%v", strings.ReplaceAll(sheet, "'", "''"), r.A1())
}

// color converts a #RRGGBB hex colour to the Sheets API representation.
func color(hex string) (*sheets.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid colour '%v'", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour '%v' (%w)", hex, err)
	}

	return &sheets.Color{
		Red:   float64((v>>16)&0xff) / 255.0,
		Green: float64((v>>8)&0xff) / 255.0,
		Blue:  float64(v&0xff) / 255.0,
	}, nil
}

func validate(r layout.Range) error {
	if r.Top < 1 || r.Left < 1 || r.Bottom < r.Top || r.Right < r.Left {
		return fmt.Errorf("invalid range %+v", r)
	}

	return nil
}
