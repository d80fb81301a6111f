package tao

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

// prompt is what the engine prints, without a trailing newline, when it is
// ready for the next command.
const prompt = "Tao>"

// ansiEscape matches terminal color and cursor codes the engine mixes into
// its output when it thinks it is talking to a terminal.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Pipe runs a Tao engine as a child process and exchanges commands over its
// standard streams. Commands are serialized; the engine handles one at a
// time.
type Pipe struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string // complete output lines, ANSI-scrubbed
	ready   chan struct{}
	done    chan struct{} // closed when the child exits
	exitErr error         // valid after done is closed
}

// StartPipe launches the engine binary with the given arguments and waits
// for its first prompt. The caller owns the returned Pipe and must Close it.
func StartPipe(ctx context.Context, executable string, args ...string) (*Pipe, error) {
	cmd := exec.Command(executable, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("tao: pipe stdin: %w", err)
	}
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("tao: start %s: %w", executable, err)
	}

	p := &Pipe{
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 64),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go p.read(pr)
	go func() {
		p.exitErr = cmd.Wait()
		pw.CloseWithError(p.exitErr)
		close(p.done)
	}()

	// Drain the startup banner up to the first prompt.
	if _, err := p.collect(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("tao: waiting for first prompt: %w", err)
	}
	return p, nil
}

// read splits the merged output stream into lines, watching for the prompt,
// which arrives without a newline.
func (p *Pipe) read(r io.Reader) {
	defer close(p.lines)
	var pending []byte
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				p.lines <- scrub(string(pending[:i]))
				pending = pending[i+1:]
			}
			if strings.TrimSpace(scrub(string(pending))) == prompt {
				pending = pending[:0]
				select {
				case p.ready <- struct{}{}:
				default:
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// scrub strips ANSI escapes and trailing carriage returns.
func scrub(line string) string {
	return strings.TrimRight(ansiEscape.ReplaceAllString(line, ""), "\r")
}

// Cmd sends one command and returns the output lines up to the next prompt.
func (p *Pipe) Cmd(ctx context.Context, command string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.stdin, command+"\n"); err != nil {
		return nil, fmt.Errorf("tao: send %q: %w", command, err)
	}
	out, err := p.collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("tao: %q: %w", command, err)
	}
	// The engine echoes the command back; drop that line.
	if len(out) > 0 && strings.TrimSpace(out[0]) == command {
		out = out[1:]
	}
	return out, nil
}

// collect gathers output lines until the engine signals readiness.
func (p *Pipe) collect(ctx context.Context) ([]string, error) {
	var out []string
	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return out, fmt.Errorf("tao: engine output closed")
			}
			out = append(out, line)
		case <-p.ready:
			// Lines queued before the prompt may still be buffered.
			for {
				select {
				case line := <-p.lines:
					out = append(out, line)
				default:
					return out, nil
				}
			}
		case <-p.done:
			if p.exitErr != nil {
				return out, fmt.Errorf("tao: %w", p.exitErr)
			}
			return out, fmt.Errorf("tao: engine exited")
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

// closeGrace is how long Close waits for the engine to exit on its own
// before killing it.
const closeGrace = 3 * time.Second

// Close asks the engine to exit and reaps the child process, killing it if
// it does not exit within a grace period.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.stdin, "exit\n")
	p.stdin.Close()
	select {
	case <-p.done:
		return nil
	case <-time.After(closeGrace):
	}
	p.cmd.Process.Kill()
	<-p.done
	return nil
}
