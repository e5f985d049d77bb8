package types

import "testing"

func TestParseID(t *testing.T) {
	tests := []struct {
		raw       string
		wantValid bool
		wantBind  any
		wantText  string
	}{
		{"1", true, int64(1), "1"},
		{"42", true, int64(42), "42"},
		{" 7 ", true, int64(7), "7"},
		{"-3", true, int64(-3), "-3"},
		{"007", true, int64(7), "7"},
		{"+4", true, int64(4), "4"},
		{"12abc", true, int64(12), "12"},
		{"1.5", true, int64(1), "1"},
		{"1e3", true, int64(1), "1"},
		{"abc", false, nil, "abc"},
		{"-", false, nil, "-"},
		{"", false, nil, ""},
		{"a12", false, nil, "a12"},
		{"99999999999999999999", false, nil, "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id := ParseID(tt.raw)
			if id.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", id.Valid(), tt.wantValid)
			}
			if id.Bind() != tt.wantBind {
				t.Errorf("Bind() = %v, want %v", id.Bind(), tt.wantBind)
			}
			if id.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", id.String(), tt.wantText)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	id := NewID(9)
	if !id.Valid() || id.Int64() != 9 || id.String() != "9" {
		t.Errorf("unexpected id %+v", id)
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		raw       string
		wantValid bool
		wantBind  any
	}{
		{"1", true, int64(1)},
		{"0", true, int64(0)},
		{"true", true, int64(1)},
		{"false", true, int64(0)},
		{"TRUE", true, int64(1)},
		{"t", true, int64(1)},
		{"F", true, int64(0)},
		{" 1 ", true, int64(1)},
		{"", false, nil},
		{"yes", false, nil},
		{"2", false, nil},
	}

	for _, tt := range tests {
		t.Run("flag="+tt.raw, func(t *testing.T) {
			f := ParseFlag(tt.raw)
			if f.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", f.Valid(), tt.wantValid)
			}
			if f.Bind() != tt.wantBind {
				t.Errorf("Bind() = %v, want %v", f.Bind(), tt.wantBind)
			}
		})
	}
}

func TestFlagString(t *testing.T) {
	if FlagOf(true).String() != "1" || FlagOf(false).String() != "0" {
		t.Error("valid flags render as stored integers")
	}
	if ParseFlag("maybe").String() != "" {
		t.Error("invalid flag renders empty")
	}
	if !FlagOf(true).Bool() || ParseFlag("junk").Bool() {
		t.Error("Bool() mismatch")
	}
}
