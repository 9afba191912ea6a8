package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Row is one data line of a tabular export keyed by header name.
// Keys keep header order so lookups that scan columns are deterministic.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a row from parallel header and value slices.
// When a header repeats, the first position is kept and the last value wins.
func NewRow(headers, values []string) Row {
	r := Row{
		keys:   make([]string, 0, len(headers)),
		values: make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		if _, seen := r.values[h]; !seen {
			r.keys = append(r.keys, h)
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.values[h] = v
	}
	return r
}

// Keys returns the column names in header order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Value returns the value under key, or an empty string.
func (r Row) Value(key string) string {
	return r.values[key]
}

// MarshalJSON encodes the row as an object in header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object into a row. Key order follows the input.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("row must be a JSON object")
	}
	var headers, values []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		headers = append(headers, key)
		values = append(values, val)
	}
	*r = NewRow(headers, values)
	return nil
}

// Table is the parsed form of a tabular export.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
	// Lines holds the 1-based source line of each row; the header is line 1.
	Lines []int `json:"lines"`
	// Skipped lists source lines dropped because their field count did not match the header.
	Skipped []int `json:"skipped,omitempty"`
}

// RowNumber returns the source line number for the row at index i.
func (t *Table) RowNumber(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}
