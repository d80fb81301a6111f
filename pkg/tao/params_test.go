package tao

import (
	"errors"
	"strings"
	"testing"
)

func TestParseParams(t *testing.T) {
	lines := []string{
		"graph^type;STR;T;data",
		"num_curves;INT;T;2",
		"x_min;REAL;T; -1.5",
		"draw_grid;LOGIC;T;F",
		"why_invalid;STR;F;",
		"view;ENUM;T;xy;xz;yz",
	}
	p, err := ParseParams(lines)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	for _, tc := range []struct {
		key, want string
	}{
		{"graph^type", "data"},
		{"num_curves", "2"},
		{"x_min", "-1.5"},
		{"draw_grid", "F"},
		{"why_invalid", ""},
		{"view", "xy;xz;yz"},
	} {
		got, ok := p.Lookup(tc.key)
		if !ok {
			t.Fatalf("Lookup(%q): missing", tc.key)
		}
		if got != tc.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
	if got := p.Names(); len(got) != 6 || got[0] != "graph^type" || got[5] != "view" {
		t.Fatalf("Names() = %v, want 6 keys in response order", got)
	}
	param, _ := p.Get("why_invalid")
	if param.Settable {
		t.Fatalf("why_invalid reported settable")
	}
	if param.Kind != "STR" {
		t.Fatalf("why_invalid kind = %q, want STR", param.Kind)
	}
}

func TestParseParamsDuplicateKeepsPosition(t *testing.T) {
	p, err := ParseParams([]string{
		"a;INT;T;1",
		"b;INT;T;2",
		"a;INT;T;3",
	})
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if got, _ := p.Lookup("a"); got != "3" {
		t.Fatalf("a = %q, want later value 3", got)
	}
	if names := p.Names(); len(names) != 2 || names[0] != "a" {
		t.Fatalf("Names() = %v, want [a b]", names)
	}
}

func TestParseRowEmptyFields(t *testing.T) {
	fields, err := ParseRow("1;;quad;;3.5")
	if err != nil {
		t.Fatalf("ParseRow: %v", err)
	}
	want := []string{"1", "", "quad", "", "3.5"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields %v, want %v", len(fields), fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("field %d = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestParseRowsSkipsBlanks(t *testing.T) {
	rows, err := ParseRows([]string{"1;0.0;1.0", "", "2;0.5;2.0"})
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestCheckEngineErrors(t *testing.T) {
	if err := checkEngineErrors([]string{"ok", "1;2;3"}); err != nil {
		t.Fatalf("clean output flagged: %v", err)
	}
	err := checkEngineErrors([]string{"[ERROR | 2024] tao_plot: no such graph"})
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("got %v, want ErrEngine", err)
	}
	if !strings.Contains(err.Error(), "no such graph") {
		t.Fatalf("error text lost: %v", err)
	}
}

func TestParseLogical(t *testing.T) {
	for _, tc := range []struct {
		in   string
		def  bool
		want bool
	}{
		{"T", false, true},
		{"F", true, false},
		{".TRUE.", false, true},
		{"garbage", true, true},
	} {
		if got := parseLogical(tc.in, tc.def); got != tc.want {
			t.Fatalf("parseLogical(%q, %v) = %v, want %v", tc.in, tc.def, got, tc.want)
		}
	}
}
