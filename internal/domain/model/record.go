package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord is returned when JSON input is not a flat object.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one stored row as the store returned it. Columns keep the
// statement's column order and values are served unchanged, NULL included.
type Record struct {
	Columns []string
	Values  []any
}

// NewRecord pairs columns with values. Missing values are NULL.
func NewRecord(columns []string, values ...any) Record {
	vals := make([]any, len(columns))
	copy(vals, values)
	return Record{Columns: columns, Values: vals}
}

// Get returns the value of column and whether the column exists.
func (r Record) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the values keyed by column name.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the record as an object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. Numbers decode as json.Number.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: want object, got %v", ErrMalformedRecord, tok)
	}

	out := Record{Columns: []string{}, Values: []any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: key %v", ErrMalformedRecord, tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out.Columns = append(out.Columns, key)
		out.Values = append(out.Values, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
