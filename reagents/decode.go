package reagents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

type member struct {
	key string
	raw json.RawMessage
}

// Decode unpacks a Firebase reagents document. Object keys are kept in iteration order
// i.e. integer keys in ascending order followed by all other keys in document order.
// Firebase returns arrays for sequential integer keys so arrays are accepted wherever
// an object is expected, with null slots ignored.
func Decode(b []byte) (*Dataset, error) {
	if !json.Valid(b) {
		return nil, fmt.Errorf("invalid JSON document")
	}

	list, ok, err := members(b)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("expected JSON object, got '%s'", abbreviate(b))
	}

	dataset := Dataset{
		Records: []Record{},
	}

	for _, m := range list {
		record, err := decodeRecord(m.key, m.raw)
		if err != nil {
			return nil, err
		}

		dataset.Records = append(dataset.Records, record)
	}

	return &dataset, nil
}

func decodeRecord(key string, raw json.RawMessage) (Record, error) {
	record := Record{
		Key:    key,
		Fields: map[string]Value{},
	}

	list, ok, err := members(raw)
	if err != nil {
		return record, fmt.Errorf("invalid record '%v' (%w)", key, err)
	} else if !ok {
		return record, nil
	}

	for _, m := range list {
		if m.key != UsageRecords {
			record.Fields[m.key] = scalar(m.raw)
			continue
		}

		usage, ok, err := members(m.raw)
		if err != nil {
			return record, fmt.Errorf("invalid usage records for '%v' (%w)", key, err)
		} else if !ok {
			continue
		}

		record.Usage = []UsageEntry{}
		for _, u := range usage {
			entry := UsageEntry{
				ID:     u.key,
				Fields: map[string]Value{},
			}

			if fields, ok, err := members(u.raw); err != nil {
				return record, fmt.Errorf("invalid usage record '%v/%v' (%w)", key, u.key, err)
			} else if ok {
				for _, f := range fields {
					entry.Fields[f.key] = scalar(f.raw)
				}
			}

			record.Usage = append(record.Usage, entry)
		}
	}

	return record, nil
}

// members returns the key/value pairs of a JSON object or array. The flag is false if
// the value is neither.
func members(b []byte) ([]member, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	token, err := dec.Token()
	if err != nil {
		return nil, false, err
	}

	switch token {
	case json.Delim('{'):
		list := []member{}
		index := map[string]int{}

		for dec.More() {
			t, err := dec.Token()
			if err != nil {
				return nil, false, err
			}

			key, ok := t.(string)
			if !ok {
				return nil, false, fmt.Errorf("invalid object key '%v'", t)
			}

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, false, err
			}

			// ... a duplicated key keeps its original position and takes the last value
			if ix, ok := index[key]; ok {
				list[ix].raw = raw
			} else {
				index[key] = len(list)
				list = append(list, member{key: key, raw: raw})
			}
		}

		if _, err := dec.Token(); err != nil {
			return nil, false, err
		}

		return ordered(list), true, nil

	case json.Delim('['):
		list := []member{}

		for i := 0; dec.More(); i++ {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, false, err
			}

			if !isNull(raw) {
				list = append(list, member{key: strconv.Itoa(i), raw: raw})
			}
		}

		if _, err := dec.Token(); err != nil {
			return nil, false, err
		}

		return list, true, nil
	}

	return nil, false, nil
}

func ordered(list []member) []member {
	sort.SliceStable(list, func(i, j int) bool {
		p, iok := arrayIndex(list[i].key)
		q, jok := arrayIndex(list[j].key)

		switch {
		case iok && jok:
			return p < q
		case iok:
			return true
		default:
			return false
		}
	})

	return list
}

// arrayIndex returns the numeric value of a canonical array index key ("0", "17" but not "017").
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}

	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}

	return n, true
}

func scalar(raw json.RawMessage) Value {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}
	}

	switch t := v.(type) {
	case string:
		return StringValue(t)

	case json.Number:
		if f, err := t.Float64(); err == nil {
			return NumberValue(f)
		}

	case bool:
		return BoolValue(t)
	}

	return Value{}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func abbreviate(b []byte) string {
	s := string(bytes.TrimSpace(b))
	if len(s) > 32 {
		return s[:32] + "..."
	}

	return s
}
