package layout

import (
	"github.com/uhppoted/reagents-sheets/reagents"
)

// Simple renders the records as a plain table: a bold header row followed by one centered
// row per record, in document order.
type Simple struct {
}

func (s *Simple) Render(sink Sink, dataset *reagents.Dataset) error {
	if err := sink.Clear(); err != nil {
		return err
	}

	columns := len(RecordHeaders)
	header := make([]any, columns)
	for i, h := range RecordHeaders {
		header[i] = h
	}

	if err := sink.WriteRow(1, header); err != nil {
		return err
	}

	if err := sink.SetStyle(Row(1, 1, columns), Style{Bold: true, Horizontal: Center}); err != nil {
		return err
	}

	row := 2
	for _, record := range dataset.Records {
		values := make([]any, columns)
		for i, field := range reagents.RecordFields {
			values[i] = record.Get(field).Cell()
		}

		if err := sink.WriteRow(row, values); err != nil {
			return err
		}

		if err := sink.SetStyle(Row(row, 1, columns), Style{Horizontal: Center}); err != nil {
			return err
		}

		row++
	}

	return nil
}
