package commands

import (
	"encoding/csv"
	"fmt"
	"io"

	"google.golang.org/api/sheets/v4"
)

// sheetToTSV writes a worksheet range as TSV, using the first row of the range as the header.
// Rows are padded (or truncated) to the width of the header and blank rows are skipped.
func sheetToTSV(f io.Writer, data *sheets.ValueRange) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("empty sheet")
	}

	// ... header
	header := []string{}
	for _, v := range data.Values[0] {
		header = append(header, clean(text(v)))
	}

	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}

	if len(header) == 0 {
		return fmt.Errorf("missing/invalid header row")
	}

	index := map[string]int{}
	for i, h := range header {
		k := normalise(h)
		if k == "" {
			continue
		}

		if _, ok := index[k]; ok {
			return fmt.Errorf("duplicate column name '%s'", h)
		}

		index[k] = i
	}

	// ... records
	records := [][]string{}
	for _, row := range data.Values[1:] {
		record := make([]string, len(header))
		blank := true

		for i := range record {
			if i < len(row) {
				record[i] = clean(text(row[i]))
			}

			if record[i] != "" {
				blank = false
			}
		}

		if !blank {
			records = append(records, record)
		}
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(header); err != nil {
		return err
	}

	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", v)
	}
}
