package tao

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// stubEngine is a shell stand-in that prompts, echoes commands with a
// canned response, and exits cleanly on "exit".
const stubEngine = `printf "Tao>"; while read line; do
	[ "$line" = exit ] && exit 0
	printf "%s\nok\nTao>" "$line"
done`

func TestPipeCmd(t *testing.T) {
	ctx := context.Background()
	p, err := StartPipe(ctx, "sh", "-c", stubEngine)
	if err != nil {
		t.Fatalf("StartPipe: %v", err)
	}
	defer p.Close()

	out, err := p.Cmd(ctx, "python plot_list r")
	if err != nil {
		t.Fatalf("Cmd: %v", err)
	}
	// The echoed command line is dropped, the response is kept.
	if !reflect.DeepEqual(out, []string{"ok"}) {
		t.Fatalf("out = %q, want [ok]", out)
	}
}

func TestPipeCloseGraceful(t *testing.T) {
	ctx := context.Background()
	p, err := StartPipe(ctx, "sh", "-c", stubEngine)
	if err != nil {
		t.Fatalf("StartPipe: %v", err)
	}

	start := time.Now()
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= closeGrace {
		t.Fatalf("Close took %v, engine was killed instead of reaped", elapsed)
	}
}
