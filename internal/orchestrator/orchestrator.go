// Package orchestrator drives a parsed pipeline: it wires the previous
// stage's output into the next stage's stdin, runs each stage, concurrently
// drains every stage's Command Result, and reaps the external processes it
// started, per spec.md §4.7.
package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/term"

	"posh/internal/builtin"
	"posh/internal/diag"
	"posh/internal/external"
	"posh/internal/parser"
	"posh/internal/redirect"
	"posh/internal/registry"
	"posh/internal/result"
)

// Orchestrator holds the shared Registry and the TERM value used for PTY-form launches.
type Orchestrator struct {
	Registry *registry.Registry
	TermType string
}

// New returns an Orchestrator over reg, using termType for PTY-form child
// environments.
func New(reg *registry.Registry, termType string) *Orchestrator {
	return &Orchestrator{Registry: reg, TermType: termType}
}

// Run executes one parsed pipeline to completion. pipeStages are wired in
// order into each other's stdin/stdout and drained concurrently; terminal
// runs last, "in the parent" (spec.md §4.7), and its builtin exit calls
// os.Exit(0) directly rather than force-exiting.
func (o *Orchestrator) Run(pipeStages []parser.Stage, terminal parser.Stage) error {
	all := append(append([]parser.Stage{}, pipeStages...), terminal)

	var prevStdin *os.File
	var children []*exec.Cmd
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	closeFrom := func(i int) {
		for _, s := range all[i:] {
			s.Ctx.Close()
		}
	}

	for i, stage := range pipeStages {
		nextStdin, err := setupPipe(stage.Ctx, prevStdin)
		if err != nil {
			closeFrom(i)
			return err
		}

		res, cmd, err := o.dispatch(stage.Ctx, stage.Cmd, stage.Args, false)
		if err != nil {
			closeFrom(i)
			if nextStdin != nil {
				nextStdin.Close()
			}
			wg.Wait()
			if errors.Is(err, builtin.ErrForceExit) {
				o.forceExit(children)
			}
			return err
		}
		if cmd != nil {
			children = append(children, cmd)
		}

		wg.Add(1)
		go func(ctx *redirect.Context, res result.Result) {
			defer wg.Done()
			if outErr := res.Output(); outErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = outErr
				}
				mu.Unlock()
			}
			ctx.Close()
		}(stage.Ctx, res)

		prevStdin = nextStdin
	}

	terminal.Ctx.SetInput(prevStdin)
	res, cmd, err := o.dispatch(terminal.Ctx, terminal.Cmd, terminal.Args, true)
	if err != nil {
		terminal.Ctx.Close()
		wg.Wait()
		if errors.Is(err, builtin.ErrForceExit) {
			o.forceExit(children)
		}
		return err
	}
	if cmd != nil {
		children = append(children, cmd)
	}

	outErr := res.Output()
	terminal.Ctx.Close()

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return outErr
}

// dispatch resolves cmd against the Registry and runs the matching handler,
// returning the Command Result, the spawned *exec.Cmd if this was an
// external stage (nil for builtins and not-found), and any error.
func (o *Orchestrator) dispatch(ctx *redirect.Context, cmd string, args []string, isTerminalStage bool) (result.Result, *exec.Cmd, error) {
	switch res := o.Registry.Resolve(cmd); res.Kind {
	case registry.Builtin:
		r, err := res.Builtin(args, ctx, isTerminalStage)
		return r, nil, err
	case registry.External:
		return external.Launch(res.Path, args, ctx, isTerminalStage, o.TermType)
	default:
		return result.NewBuiltin(ctx, nil, []string{fmt.Sprintf("%s: command not found", cmd)}), nil, nil
	}
}

// setupPipe assigns prevStdin (if any) as stage's input. If the stage's
// output is still a terminal, it creates an anonymous pipe, assigns the
// write-end as the stage's output, and returns the read-end as the next
// stage's stdin. Otherwise the stage's output is already redirected to a
// file, so the next stage reads from a fresh read-open of that same file —
// the deliberate `a > f | b` semantic of spec.md §4.7.
func setupPipe(ctx *redirect.Context, prevStdin *os.File) (*os.File, error) {
	ctx.SetInput(prevStdin)

	if isTerminalFile(ctx.OutputFile) {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		ctx.SetOutput(w)
		return r, nil
	}

	return os.Open(ctx.OutputFile.Name())
}

func isTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// forceExit sends SIGTERM to every tracked external child (ignoring
// already-gone processes), logs each target via internal/diag, and exits
// the shell process. It never returns.
func (o *Orchestrator) forceExit(children []*exec.Cmd) {
	for _, c := range children {
		if c.Process == nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "posh: force-exit: terminating %s\n", diag.Describe(c.Process.Pid))
		_ = c.Process.Signal(syscall.SIGTERM)
	}
	os.Exit(0)
}
