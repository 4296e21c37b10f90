package reagents

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Record field keys as stored in the Firebase document.
const (
	Product          = "01_producto"
	Number           = "02_numero"
	IntakeDate       = "03_alta"
	Brand            = "04_marca"
	Code             = "05_codigo"
	Presentation     = "06_presentacion"
	Lot              = "07_lote"
	ExpiryDate       = "08_vencimiento"
	DecommissionDate = "09_baja"

	UsageRecords = "Registros de Uso"
)

// Usage entry field keys.
const (
	Temperature = "temperatura"
	Humidity    = "humedad"
	Weight      = "peso"
	UseDate     = "fecha_uso"
	UseTime     = "hora_uso"
)

// RecordFields lists the record identity fields in worksheet column order.
var RecordFields = []string{
	Product,
	Number,
	IntakeDate,
	Brand,
	Code,
	Presentation,
	Lot,
	ExpiryDate,
	DecommissionDate,
}

// UsageFields lists the usage entry fields in worksheet column order.
var UsageFields = []string{
	Temperature,
	Humidity,
	Weight,
	UseDate,
	UseTime,
}

// Dataset is the set of reagent records retrieved for a single run, in document order.
type Dataset struct {
	Records []Record
}

// Record is a single reagent entry. Usage is nil if the record has no usage log.
type Record struct {
	Key    string
	Fields map[string]Value
	Usage  []UsageEntry
}

// UsageEntry is a single logged use of a reagent.
type UsageEntry struct {
	ID     string
	Fields map[string]Value
}

// Sorted returns the records ordered by the numeric value of the 'number' field. Records
// with equal numbers keep their document order.
func (d Dataset) Sorted() []Record {
	records := make([]Record, len(d.Records))
	copy(records, d.Records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Number() < records[j].Number()
	})

	return records
}

func (r Record) Get(field string) Value {
	return r.Fields[field]
}

// Number returns the sort key for the record, falling back to 0 for a missing or
// non-numeric 'number' field.
func (r Record) Number() float64 {
	return r.Get(Number).Float()
}

func (u UsageEntry) Get(field string) Value {
	return u.Fields[field]
}

// Value is a scalar field value: nil, string, float64 or bool.
type Value struct {
	v any
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

func StringValue(s string) Value {
	return Value{v: s}
}

func NumberValue(f float64) Value {
	return Value{v: f}
}

func BoolValue(b bool) Value {
	return Value{v: b}
}

// IsBlank returns true for missing, null, false, zero and empty string values, all of
// which are rendered as an empty cell.
func (v Value) IsBlank() bool {
	switch t := v.v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case bool:
		return !t
	}

	return true
}

// Cell returns the value to be written to a worksheet cell.
func (v Value) Cell() any {
	if v.IsBlank() {
		return ""
	}

	return v.v
}

// String returns the text rendering of the value.
func (v Value) String() string {
	if v.IsBlank() {
		return ""
	}

	switch t := v.v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}

	return ""
}

// Float coerces the value to a number. Anything that is not a number degrades to 0.
func (v Value) Float() float64 {
	var f float64

	switch t := v.v.(type) {
	case float64:
		f = t
	case string:
		if s := strings.TrimSpace(t); s != "" {
			if g, err := strconv.ParseFloat(s, 64); err == nil {
				f = g
			}
		}
	case bool:
		if t {
			f = 1
		}
	}

	if math.IsNaN(f) {
		return 0
	}

	return f
}

// Fixed formats the value with the given number of decimals. Blank values and strings
// without a leading number yield "".
func (v Value) Fixed(decimals int) string {
	if v.IsBlank() {
		return ""
	}

	switch t := v.v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', decimals, 64)

	case string:
		if match := leadingFloat.FindString(strings.TrimSpace(t)); match != "" {
			if f, err := strconv.ParseFloat(match, 64); err == nil {
				return strconv.FormatFloat(f, 'f', decimals, 64)
			}
		}
	}

	return ""
}
