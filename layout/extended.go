package layout

import (
	"github.com/uhppoted/reagents-sheets/reagents"
)

// Letterhead holds the fixed text of the report header block.
type Letterhead struct {
	Organisation  string `yaml:"organisation"`
	Title         string `yaml:"title"`
	Code          string `yaml:"code"`
	RevisionLabel string `yaml:"revision-label"`
	Revision      string `yaml:"revision"`
	PageLabel     string `yaml:"page-label"`
	Page          string `yaml:"page"`
	RecordSection string `yaml:"record-section"`
	UsageSection  string `yaml:"usage-section"`
}

var DefaultLetterhead = Letterhead{
	Organisation:  "CONTROL UNION",
	Title:         "PLANILLA CONTROL DE REACTIVOS",
	Code:          "Código PL-125",
	RevisionLabel: "Revisión",
	Revision:      "0",
	PageLabel:     "Página",
	Page:          "1/1",
	RecordSection: "Datos del Reactivo",
	UsageSection:  "Registros de Uso",
}

// Fixed rows of the extended layout.
const (
	SectionRow = 6
	HeaderRow  = 7
	FirstRow   = 8
)

var (
	labelStyle   = Style{Bold: true, Horizontal: Center, Vertical: Middle}
	valueStyle   = Style{Horizontal: Center, Vertical: Middle}
	sectionStyle = Style{Bold: true, Horizontal: Center, Vertical: Middle, Background: "#4F4F4F", Foreground: "#FFFFFF"}
	headerStyle  = Style{Bold: true, Horizontal: Center, Vertical: Middle, Wrap: true}
	dataStyle    = Style{Horizontal: Center, Vertical: Middle, Wrap: true, Borders: true}
)

// Extended renders the records under a fixed letterhead, sorted by number and with each
// usage entry on its own row. The record columns are merged across the usage rows.
//
// GapAfterUsage leaves a blank row after every record that spans more than one row.
type Extended struct {
	Letterhead    Letterhead
	GapAfterUsage bool
}

func NewExtended() *Extended {
	return &Extended{
		Letterhead: DefaultLetterhead,
	}
}

func (x *Extended) Render(sink Sink, dataset *reagents.Dataset) error {
	columns := len(RecordHeaders) + len(UsageHeaders)

	if err := sink.Clear(); err != nil {
		return err
	}

	if err := x.letterhead(sink, columns); err != nil {
		return err
	}

	if err := x.headers(sink, columns); err != nil {
		return err
	}

	row := FirstRow
	last := HeaderRow

	for _, block := range Blocks(dataset.Sorted()) {
		n := len(block.Rows)

		for i, values := range block.Rows {
			if err := sink.WriteRow(row+i, values); err != nil {
				return err
			}

			if err := sink.SetStyle(Row(row+i, 1, columns), dataStyle); err != nil {
				return err
			}
		}

		if n > 1 {
			for col := 1; col <= len(RecordHeaders); col++ {
				if err := sink.Merge(Range{Top: row, Left: col, Bottom: row + n - 1, Right: col}); err != nil {
					return err
				}
			}
		}

		last = row + n - 1
		row += n

		if x.GapAfterUsage && n > 1 {
			row++
		}
	}

	return sink.SetStyle(Range{Top: 1, Left: 1, Bottom: last, Right: columns}, Style{Wrap: true})
}

func (x *Extended) letterhead(sink Sink, columns int) error {
	lh := x.Letterhead

	row1 := blanks(columns)
	row1[0] = lh.Organisation
	row1[1] = lh.Title
	row1[columns-2] = lh.RevisionLabel
	row1[columns-1] = lh.Revision

	row2 := blanks(columns)
	row2[1] = lh.Code
	row2[columns-2] = lh.PageLabel
	row2[columns-1] = lh.Page

	if err := sink.WriteRow(1, row1); err != nil {
		return err
	}

	if err := sink.WriteRow(2, row2); err != nil {
		return err
	}

	merges := []Range{
		{Top: 1, Left: 1, Bottom: 2, Right: 1},
		{Top: 1, Left: 2, Bottom: 1, Right: columns - 2},
		{Top: 2, Left: 2, Bottom: 2, Right: columns - 2},
		{Top: 3, Left: 1, Bottom: 5, Right: columns},
	}

	for _, r := range merges {
		if err := sink.Merge(r); err != nil {
			return err
		}
	}

	styles := []struct {
		r     Range
		style Style
	}{
		{Cell(1, 1), labelStyle},
		{Row(1, 2, columns-2), labelStyle},
		{Row(2, 2, columns-2), labelStyle},
		{Cell(1, columns-1), labelStyle},
		{Cell(2, columns-1), labelStyle},
		{Cell(1, columns), valueStyle},
		{Cell(2, columns), valueStyle},
		{Range{Top: 1, Left: 1, Bottom: 2, Right: columns}, Style{Borders: true}},
	}

	for _, s := range styles {
		if err := sink.SetStyle(s.r, s.style); err != nil {
			return err
		}
	}

	return nil
}

func (x *Extended) headers(sink Sink, columns int) error {
	records := len(RecordHeaders)

	sections := blanks(columns)
	sections[0] = x.Letterhead.RecordSection
	sections[records] = x.Letterhead.UsageSection

	if err := sink.WriteRow(SectionRow, sections); err != nil {
		return err
	}

	for _, r := range []Range{Row(SectionRow, 1, records), Row(SectionRow, records+1, columns)} {
		if err := sink.Merge(r); err != nil {
			return err
		}

		if err := sink.SetStyle(r, sectionStyle); err != nil {
			return err
		}
	}

	titles := make([]any, 0, columns)
	for _, h := range RecordHeaders {
		titles = append(titles, h)
	}

	for _, h := range UsageHeaders {
		titles = append(titles, h)
	}

	if err := sink.WriteRow(HeaderRow, titles); err != nil {
		return err
	}

	if err := sink.SetStyle(Row(HeaderRow, 1, columns), headerStyle); err != nil {
		return err
	}

	return sink.SetStyle(Range{Top: SectionRow, Left: 1, Bottom: HeaderRow, Right: columns}, Style{Borders: true})
}
