package sexpr

import "testing"

func TestParseNested(t *testing.T) {
	nodes, err := ParseString(`(session (cmd "python plot_graph r1.g" (out "a;STR;T;x" "b;INT;T;3")))`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("parsed %d top-level nodes, want 1", len(nodes))
	}

	session, ok := nodes[0].(List)
	if !ok || session.Head() != "session" {
		t.Fatalf("top node = %#v, want (session ...)", nodes[0])
	}

	cmd, ok := session.Find("cmd")
	if !ok {
		t.Fatalf("no (cmd ...) in session")
	}
	if got := cmd.Str(); got != "python plot_graph r1.g" {
		t.Fatalf("cmd argument = %q", got)
	}

	out, ok := cmd.Find("out")
	if !ok {
		t.Fatalf("no (out ...) in cmd")
	}
	lines := out.Strings()
	if len(lines) != 2 || lines[0] != "a;STR;T;x" || lines[1] != "b;INT;T;3" {
		t.Fatalf("out lines = %v", lines)
	}
}

func TestParseCommentsAndEscapes(t *testing.T) {
	nodes, err := ParseString("; recorded session\n(v \"a\\\"b\\nc\" 1.5)\n")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	l := nodes[0].(List)
	if got := l.Str(); got != "a\"b\nc" {
		t.Fatalf("escaped string = %q", got)
	}
	if f, err := (List{l[0], l[2]}).Float(); err != nil || f != 1.5 {
		t.Fatalf("Float = %v, %v", f, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{"(a (b)", ")", `("x`} {
		if _, err := ParseString(bad); err == nil {
			t.Fatalf("ParseString(%q) succeeded, want error", bad)
		}
	}
}

func TestFindAll(t *testing.T) {
	nodes, err := ParseString(`(w (pt 1) (pt 2) (other 3) (pt 4))`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	pts := nodes[0].(List).FindAll("pt")
	if len(pts) != 3 {
		t.Fatalf("FindAll returned %d lists, want 3", len(pts))
	}
	if got := pts[2].Str(); got != "4" {
		t.Fatalf("last pt = %q, want 4", got)
	}
}
