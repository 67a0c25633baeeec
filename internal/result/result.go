// Package result implements the Command Result / Consumer: the polymorphic
// value produced by a command handler and consumed exactly once to drive a
// stage's output. It has two variants, Pipe and PTY, matching spec.md §4.6.
package result

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"

	"posh/internal/redirect"
)

// Result is consumed exactly once by Output(); afterward it is inert.
type Result interface {
	Output() error
}

// Pipe holds line/chunk iterators over a child's (or a builtin's) stdout
// and stderr, and an optional process handle to wait on.
type Pipe struct {
	ctx    *redirect.Context
	stdout <-chan string
	stderr <-chan string
	cmd    *exec.Cmd

	writeMu sync.Mutex
}

// NewBuiltin wraps a builtin handler's already-computed output lines in a
// Pipe Result, so builtins are consumed through the same drain-and-fixup
// path as external pipe-form commands.
func NewBuiltin(ctx *redirect.Context, stdout, stderr []string) *Pipe {
	return &Pipe{
		ctx:    ctx,
		stdout: closedChan(stdout),
		stderr: closedChan(stderr),
	}
}

// NewPipe wraps a spawned external command's stdout/stderr readers for
// pipe-form execution. Chunks are read line-by-line (preserving a
// non-newline-terminated final chunk verbatim) by a background reader per
// stream; Output() drains both into the stage's sinks.
func NewPipe(ctx *redirect.Context, stdout, stderr io.Reader, cmd *exec.Cmd) *Pipe {
	return &Pipe{
		ctx:    ctx,
		stdout: readChunks(stdout),
		stderr: readChunks(stderr),
		cmd:    cmd,
	}
}

func closedChan(lines []string) <-chan string {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l + "\n"
	}
	close(ch)
	return ch
}

// readChunks starts a goroutine that feeds r's contents, split on newlines
// but preserving a trailing partial line, into the returned channel.
func readChunks(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		if r == nil {
			return
		}
		reader := bufio.NewReader(r)
		for {
			chunk, err := reader.ReadString('\n')
			if len(chunk) > 0 {
				ch <- chunk
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// Output drains stderr on a helper goroutine and stdout on the calling
// goroutine, both writing through the shared write lock so that concurrent
// stdout/stderr chunks can never interleave mid-write. Each drain appends a
// trailing newline if its last chunk didn't already end in one — applied to
// file sinks too, matching the spec's preserved-as-is behavior. It then
// joins the stderr drain and waits the process, if any.
func (p *Pipe) Output() error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.drain(p.stderr, p.ctx.ErrorFile)
	}()

	p.drain(p.stdout, p.ctx.OutputFile)

	wg.Wait()

	if p.cmd != nil {
		return p.cmd.Wait()
	}
	return nil
}

func (p *Pipe) drain(src <-chan string, sink *os.File) {
	lastChunk := ""
	for chunk := range src {
		if chunk == "" {
			continue
		}
		p.write(sink, chunk)
		lastChunk = chunk
	}
	if lastChunk != "" && lastChunk[len(lastChunk)-1] != '\n' {
		p.write(sink, "\n")
	}
}

func (p *Pipe) write(sink *os.File, data string) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, _ = sink.WriteString(data)
}

// PTY holds the PTY master descriptor and the exec.Cmd it drives, and
// implements the PTY-form Command Result: keyboard forwarding into the
// master in one direction, raw master output copied to the sink in the
// other, with terminal raw-mode save/restore scoped around the whole
// session.
type PTY struct {
	ctx    *redirect.Context
	master *os.File
	cmd    *exec.Cmd
}

// NewPTY constructs a PTY Command Result from an already-started command
// attached to master.
func NewPTY(ctx *redirect.Context, master *os.File, cmd *exec.Cmd) *PTY {
	return &PTY{ctx: ctx, master: master, cmd: cmd}
}
