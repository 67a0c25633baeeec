// Package external implements the two forms of the External Launcher: the
// pipe form (stdout/stderr captured through anonymous pipes and relayed
// through the stage's Redirection Context) and the PTY form (a pseudoterminal
// pair for an interactive, non-redirected terminal stage).
package external

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"

	"posh/internal/redirect"
	"posh/internal/result"
)

// Launch spawns path (already PATH-resolved) with args, choosing between
// pipe form and PTY form per spec.md §4.5: PTY form is used only when this
// is the pipeline's terminal stage and its Context is not redirected (no
// file/error redirection and not part of a pipe); otherwise pipe form. The
// returned *exec.Cmd lets the orchestrator track the spawned process for
// force-exit teardown.
func Launch(path string, args []string, ctx *redirect.Context, isTerminalStage bool, termType string) (result.Result, *exec.Cmd, error) {
	if isTerminalStage && !ctx.IsRedirected() {
		return launchPTY(path, args, ctx, termType)
	}
	return launchPipe(path, args, ctx)
}

func launchPipe(path string, args []string, ctx *redirect.Context) (result.Result, *exec.Cmd, error) {
	cmd := exec.Command(path, args...)

	if ctx.InputFile != nil {
		cmd.Stdin = ctx.InputFile
	} else {
		cmd.Stdin = os.Stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	return result.NewPipe(ctx, stdout, stderr, cmd), cmd, nil
}

// launchPTY allocates a pseudoterminal pair, attaches the slave to the
// child's stdin/stdout/stderr, sets TERM in the child's environment, and
// starts the child. A Go program cannot replicate the source's
// fork-then-exec-in-child failure path (pty.Start either starts the process
// or fails outright before any child exists), so an exec failure here
// collapses to a single error return instead of a child writing "Failed to
// exec" to its own stderr.
func launchPTY(path string, args []string, ctx *redirect.Context, termType string) (result.Result, *exec.Cmd, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = append(os.Environ(), "TERM="+termType)

	master, err := pty.Start(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to exec: %v", err)
	}

	return result.NewPTY(ctx, master, cmd), cmd, nil
}
