package transmission

import (
	"reflect"
	"testing"
)

func TestIDs_Normalize(t *testing.T) {
	tests := []struct {
		name string
		ids  IDs
		want any
	}{
		{"numeric scalar", ID(5), []any{5}},
		{"hash scalar", Hash("abc123hash"), []any{"abc123hash"}},
		{"sentinel", RecentlyActive(), "recently-active"},
		{"sentinel via hash", Hash("recently-active"), "recently-active"},
		{"mixed list", IDList(1, "h"), []any{1, "h"}},
		{"empty list", IDList(), []any{}},
		{"zero", IDs{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ids.Normalize()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", []any{42}},
		{" 42 ", []any{42}},
		{"c0ffee", []any{"c0ffee"}},
		{"recently-active", "recently-active"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseID(tt.in).Normalize(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseID(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs([]string{"1", "abc", "3"}).Normalize()
	want := []any{1, "abc", 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}

	single := ParseIDs([]string{"9"}).Normalize()
	if !reflect.DeepEqual(single, []any{9}) {
		t.Errorf("got %#v, want [9]", single)
	}
}

func TestIDs_String(t *testing.T) {
	tests := []struct {
		ids  IDs
		want string
	}{
		{ID(3), "3"},
		{Hash("abc"), "abc"},
		{IDList(1, "b"), "1,b"},
		{RecentlyActive(), "recently-active"},
		{IDs{}, "all"},
	}
	for _, tt := range tests {
		if got := tt.ids.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIDs_IsZero(t *testing.T) {
	if !(IDs{}).IsZero() {
		t.Error("zero value should be zero")
	}
	if ID(1).IsZero() || RecentlyActive().IsZero() {
		t.Error("explicit selections should not be zero")
	}
}
