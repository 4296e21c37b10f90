package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jszwec/csvutil"

	"github.com/uhppoted/reagents-sheets/layout"
	"github.com/uhppoted/reagents-sheets/reagents"
)

// Row is a single flattened line of the extended layout i.e. a record with its first usage
// entry, or a subsequent usage entry with blank record fields.
type Row struct {
	Product          string `csv:"Producto"`
	Number           string `csv:"Número"`
	IntakeDate       string `csv:"Alta"`
	Brand            string `csv:"Marca"`
	Code             string `csv:"Código"`
	Presentation     string `csv:"Presentación"`
	Lot              string `csv:"Lote"`
	ExpiryDate       string `csv:"Vencimiento"`
	DecommissionDate string `csv:"Baja"`
	Temperature      string `csv:"Temperatura (°C)"`
	Humidity         string `csv:"Humedad (%)"`
	Weight           string `csv:"Peso (g)"`
	UseDate          string `csv:"Fecha de Uso"`
	UseTime          string `csv:"Hora de Uso"`
}

// TSV writes the dataset as tab separated values, sorted and expanded the same way as the
// extended layout but without the letterhead and merged cells.
func TSV(w io.Writer, dataset *reagents.Dataset) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'

	enc := csvutil.NewEncoder(tsv)
	enc.AutoHeader = false

	if err := enc.EncodeHeader(Row{}); err != nil {
		return err
	}

	for _, block := range layout.Blocks(dataset.Sorted()) {
		for _, values := range block.Rows {
			row, err := toRow(values)
			if err != nil {
				return err
			}

			if err := enc.Encode(row); err != nil {
				return err
			}
		}
	}

	tsv.Flush()

	return tsv.Error()
}

func toRow(values []any) (Row, error) {
	if len(values) != 14 {
		return Row{}, fmt.Errorf("invalid row - expected %v columns, got %v", 14, len(values))
	}

	s := make([]string, len(values))
	for i, v := range values {
		s[i] = text(v)
	}

	return Row{
		Product:          s[0],
		Number:           s[1],
		IntakeDate:       s[2],
		Brand:            s[3],
		Code:             s[4],
		Presentation:     s[5],
		Lot:              s[6],
		ExpiryDate:       s[7],
		DecommissionDate: s[8],
		Temperature:      s[9],
		Humidity:         s[10],
		Weight:           s[11],
		UseDate:          s[12],
		UseTime:          s[13],
	}, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
