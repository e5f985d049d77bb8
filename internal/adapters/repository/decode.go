package repository

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/okian/tastebase/internal/domain/types"
)

// DecodeRows converts rows into typed records. Decoding is weakly typed:
// numeric text becomes numbers, boolean-like text in integer columns
// becomes 0 or 1, NULL leaves the zero value and unknown columns are ignored.
func DecodeRows[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var item T
		if err := decodeRow(row, &item); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrDecodeRow, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeRow(row Row, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       flagHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(row.Map())
}

// flagHook maps true/false spellings stored as text onto integer flags.
func flagHook(from, to reflect.Type, data any) (any, error) {
	if from == nil || to == nil || from.Kind() != reflect.String || to.Kind() != reflect.Int64 {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return data, nil
	}
	if f := types.ParseFlag(s); f.Valid() {
		return f.Bind(), nil
	}
	return data, nil
}
