// Package types parses request parameters into values bound to fetch statements.
//
// Parsing never fails: a value that cannot be parsed binds SQL NULL, which
// matches no row, so the request ends in a 404 rather than a 400.
package types

import (
	"strconv"
	"strings"
)

// ID is a parsed record identifier taken from a path segment.
type ID struct {
	raw   string
	value int64
	valid bool
}

// ParseID reads the leading base-10 integer of raw after optional
// whitespace and sign, so "12abc" is 12 and "1.5" is 1. Input without
// leading digits, or out of int64 range, is invalid.
func ParseID(raw string) ID {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return ID{raw: raw}
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return ID{raw: raw}
	}
	return ID{raw: raw, value: v, valid: true}
}

// NewID wraps a known integer id.
func NewID(v int64) ID {
	return ID{raw: strconv.FormatInt(v, 10), value: v, valid: true}
}

// Valid reports whether the raw segment started with an integer.
func (id ID) Valid() bool { return id.valid }

// Int64 returns the parsed value; zero when invalid.
func (id ID) Int64() int64 { return id.value }

// Bind returns the statement parameter: the integer, or nil (NULL) when invalid.
func (id ID) Bind() any {
	if !id.valid {
		return nil
	}
	return id.value
}

// String echoes the id for not-found messages: the parsed value when valid,
// the raw segment otherwise.
func (id ID) String() string {
	if !id.valid {
		return id.raw
	}
	return strconv.FormatInt(id.value, 10)
}

// Flag is a parsed boolean-like query parameter. Stored flags are 0 or 1.
type Flag struct {
	value bool
	valid bool
}

// ParseFlag accepts the strconv.ParseBool spellings (1, 0, t, f, true,
// false, TRUE, ...). Missing or unrecognized input yields an invalid flag.
func ParseFlag(raw string) Flag {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return Flag{}
	}
	return Flag{value: v, valid: true}
}

// FlagOf wraps a known boolean.
func FlagOf(v bool) Flag { return Flag{value: v, valid: true} }

// Valid reports whether the parameter was recognized.
func (f Flag) Valid() bool { return f.valid }

// Bool returns the parsed value; false when invalid.
func (f Flag) Bool() bool { return f.value }

// Bind returns the statement parameter: 1 or 0, or nil (NULL) when invalid.
func (f Flag) Bind() any {
	if !f.valid {
		return nil
	}
	if f.value {
		return int64(1)
	}
	return int64(0)
}

// String renders the flag as stored, or "" when invalid.
func (f Flag) String() string {
	if !f.valid {
		return ""
	}
	if f.value {
		return "1"
	}
	return "0"
}
