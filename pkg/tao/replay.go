package tao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/openbeamline/beamplot/pkg/sexpr"
)

// ErrNotRecorded is returned by Replay for a command the session file does
// not contain.
var ErrNotRecorded = errors.New("command not recorded")

// Replay plays back a recorded engine session. Session files hold one
// (session ...) form with one (cmd "..." (out "..." ...)) entry per
// exchange. Repeated commands are replayed in recording order and the last
// recording repeats once the queue drains, so refresh loops keep working.
type Replay struct {
	mu sync.Mutex
	by map[string][][]string
}

// OpenReplay loads a session file from disk.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tao: open replay: %w", err)
	}
	defer f.Close()
	return NewReplay(f)
}

// NewReplay parses a recorded session from r.
func NewReplay(r io.Reader) (*Replay, error) {
	nodes, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("tao: replay: %w", err)
	}
	rp := &Replay{by: make(map[string][][]string)}
	for _, n := range nodes {
		session, ok := n.(sexpr.List)
		if !ok || session.Head() != "session" {
			return nil, fmt.Errorf("tao: replay: expected (session ...), got %s", n)
		}
		for _, entry := range session.FindAll("cmd") {
			if len(entry) < 2 {
				return nil, fmt.Errorf("tao: replay: cmd entry missing command string")
			}
			command, ok := entry[1].(sexpr.Atom)
			if !ok {
				return nil, fmt.Errorf("tao: replay: cmd name is not an atom: %s", entry[1])
			}
			var out []string
			if outList, ok := entry.Find("out"); ok {
				out = outList.Strings()
			}
			key := strings.TrimSpace(string(command))
			rp.by[key] = append(rp.by[key], out)
		}
	}
	return rp, nil
}

// Cmd returns the recorded output for command.
func (rp *Replay) Cmd(ctx context.Context, command string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rp.mu.Lock()
	defer rp.mu.Unlock()
	key := strings.TrimSpace(command)
	queue, ok := rp.by[key]
	if !ok || len(queue) == 0 {
		return nil, fmt.Errorf("tao: %w: %q", ErrNotRecorded, command)
	}
	out := queue[0]
	if len(queue) > 1 {
		rp.by[key] = queue[1:]
	}
	return out, nil
}

// Close implements Conn; replays hold no resources.
func (rp *Replay) Close() error { return nil }

// Recorder wraps a live Conn and captures every exchange so it can be
// written out as a replayable session file.
type Recorder struct {
	mu      sync.Mutex
	conn    Conn
	entries []recordedCmd
}

type recordedCmd struct {
	command string
	out     []string
}

// NewRecorder wraps conn.
func NewRecorder(conn Conn) *Recorder { return &Recorder{conn: conn} }

// Cmd forwards to the wrapped Conn and records the exchange.
func (rc *Recorder) Cmd(ctx context.Context, command string) ([]string, error) {
	out, err := rc.conn.Cmd(ctx, command)
	if err != nil {
		return out, err
	}
	rc.mu.Lock()
	rc.entries = append(rc.entries, recordedCmd{command: command, out: out})
	rc.mu.Unlock()
	return out, nil
}

// Close closes the wrapped Conn.
func (rc *Recorder) Close() error { return rc.conn.Close() }

// Dump writes the captured session in replay format.
func (rc *Recorder) Dump(w io.Writer) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, err := io.WriteString(w, "(session\n"); err != nil {
		return err
	}
	for _, e := range rc.entries {
		if _, err := fmt.Fprintf(w, "  (cmd %s\n    (out", sexpr.Quote(e.command)); err != nil {
			return err
		}
		for _, line := range e.out {
			if _, err := fmt.Fprintf(w, "\n      %s", sexpr.Quote(line)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "))\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")\n")
	return err
}
