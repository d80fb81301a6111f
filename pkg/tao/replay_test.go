package tao

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleSession = `
(session
  (cmd "python plot_list r"
    (out "1;r11;beta" "2;r12;"))
  (cmd "python plot_graph r11.g"
    (out "graph^type;STR;T;data" "num_curves;INT;T;0" "x_min;REAL;T;0" "x_max;REAL;T;1" "y_min;REAL;T;0" "y_max;REAL;T;1"))
  (cmd "python plot_list r"
    (out "1;r11;" "2;r12;"))
)
`

func TestReplay(t *testing.T) {
	rp, err := NewReplay(strings.NewReader(sampleSession))
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	ctx := context.Background()

	out, err := rp.Cmd(ctx, "python plot_list r")
	if err != nil {
		t.Fatalf("Cmd: %v", err)
	}
	if len(out) != 2 || out[0] != "1;r11;beta" {
		t.Fatalf("first recording = %v", out)
	}

	// Second recording of the same command, then the last one repeats.
	for i := 0; i < 2; i++ {
		out, err = rp.Cmd(ctx, "python plot_list r")
		if err != nil {
			t.Fatalf("Cmd #%d: %v", i+2, err)
		}
		if out[0] != "1;r11;" {
			t.Fatalf("Cmd #%d = %v, want drained last recording", i+2, out)
		}
	}

	if _, err := rp.Cmd(ctx, "python plot1 r99"); !errors.Is(err, ErrNotRecorded) {
		t.Fatalf("unknown command: got %v, want ErrNotRecorded", err)
	}
}

func TestReplayThroughClient(t *testing.T) {
	rp, err := NewReplay(strings.NewReader(sampleSession))
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	c := NewClient(rp)
	g, err := c.PlotGraph(context.Background(), "r11.g")
	if err != nil {
		t.Fatalf("PlotGraph: %v", err)
	}
	if g.Type != "data" || g.XMax != 1 {
		t.Fatalf("graph = %+v", g)
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	rp, err := NewReplay(strings.NewReader(sampleSession))
	if err != nil {
		t.Fatalf("NewReplay: %v", err)
	}
	rec := NewRecorder(rp)
	ctx := context.Background()
	if _, err := rec.Cmd(ctx, "python plot_graph r11.g"); err != nil {
		t.Fatalf("Cmd: %v", err)
	}
	if _, err := rec.Cmd(ctx, "python plot_list r"); err != nil {
		t.Fatalf("Cmd: %v", err)
	}

	var b strings.Builder
	if err := rec.Dump(&b); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	rp2, err := NewReplay(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("NewReplay(dumped): %v", err)
	}
	out, err := rp2.Cmd(ctx, "python plot_graph r11.g")
	if err != nil {
		t.Fatalf("replayed Cmd: %v", err)
	}
	if len(out) != 6 || out[0] != "graph^type;STR;T;data" {
		t.Fatalf("replayed output = %v", out)
	}
}

func TestScrub(t *testing.T) {
	in := "\x1b[0;31m[ERROR]\x1b[0m bad thing\r"
	if got := scrub(in); got != "[ERROR] bad thing" {
		t.Fatalf("scrub = %q", got)
	}
}
