// Package shell contains the core interactive REPL loop and orchestration
// logic for posh. It wires together configuration, the readline-based
// terminal, the lexer/parser, the command registry, and the pipeline
// orchestrator, and handles interrupt and shutdown signaling.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"

	"posh/internal/completer"
	"posh/internal/config"
	"posh/internal/orchestrator"
	"posh/internal/painter"
	"posh/internal/parser"
	"posh/internal/prompt"
	"posh/internal/redirect"
	"posh/internal/registry"
)

// Shell holds the runtime state of the interactive shell: the readline
// terminal instance, the prompt painter and completer, the pipeline
// orchestrator, and the fd-leak diagnostic baseline.
type Shell struct {
	sigCh   chan os.Signal
	stopCh  chan struct{}
	painter painter.Painter
	terminal *readline.Instance
	completer *completer.Completer
	orch    *orchestrator.Orchestrator

	descriptors   int
	checkCounter  uint
	checkInterval uint
}

// Run starts the main interactive loop. It boots the shell, then repeatedly
// reads a line from the terminal, tokenizes and parses it into a pipeline,
// runs the pipeline, and reports any errors. Returns when EOF is received
// or a SIGINT breaks the loop (spec.md §6: "SIGINT terminates the shell").
func Run() {
	sh, err := boot()
	if err != nil {
		panic(err)
	}
	defer sh.close()

	for {
		sh.completer.Update()
		sh.terminal.Config.AutoComplete = sh.completer
		sh.terminal.SetPrompt(prompt.Update(sh.painter))

		line, err := sh.terminal.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return
			}
			if errors.Is(err, io.EOF) {
				return
			}
			panic(err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pipeStages, terminal, err := parser.Parse(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		sh.monitor(sh.orch.Run(pipeStages, terminal))
	}
}

// boot initializes the shell runtime: loads configuration (falling back to
// defaults on error), creates the readline terminal, records the baseline
// fd count for leak detection, builds the registry/orchestrator, and starts
// the interrupt handler.
func boot() (*Shell, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cfg = config.Default()
	}
	redirect.FilePerm = cfg.Redirection.FilePerm

	readlineCfg := &readline.Config{
		HistoryFile:     cfg.Terminal.HistoryFile,
		HistoryLimit:    cfg.Terminal.HistoryLimit,
		InterruptPrompt: cfg.Terminal.InterruptPrompt,
		EOFPrompt:       "\n" + cfg.Terminal.EOFPrompt,
	}

	terminal, err := readline.NewEx(readlineCfg)
	if err != nil {
		return nil, fmt.Errorf("posh: boot: failed to create new terminal instance: %w", err)
	}

	descriptors, err := os.ReadDir(fmt.Sprintf("/proc/%d/fd", os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("posh: boot: cannot read fd directory: %w", err)
	}

	reg := registry.New()

	sh := &Shell{
		terminal:      terminal,
		completer:     completer.New(),
		orch:          orchestrator.New(reg, cfg.PTY.TermType),
		sigCh:         make(chan os.Signal, 1),
		stopCh:        make(chan struct{}),
		descriptors:   len(descriptors),
		checkInterval: cfg.Terminal.CheckInterval,
		painter:       painter.NewPainter(cfg.Prompt),
	}

	signal.Notify(sh.sigCh, os.Interrupt)
	go sh.interruptHandler()

	return sh, nil
}

// interruptHandler drains SIGINT notifications until the shell is closing.
// Foreground external programs receive SIGINT directly from the terminal's
// process-group delivery (pipe form) or the PTY line discipline (PTY form,
// spec.md §5) — this handler exists only so signal.Notify doesn't block the
// OS default disposition while the shell is otherwise idle at the prompt.
func (sh *Shell) interruptHandler() {
	for {
		select {
		case <-sh.stopCh:
			return
		case <-sh.sigCh:
		}
	}
}

// close performs cleanup of the shell runtime.
func (sh *Shell) close() {
	signal.Stop(sh.sigCh)
	close(sh.stopCh)
	_ = sh.terminal.Close()
}

// monitor logs a pipeline error, if any, and checks for file descriptor
// leaks relative to the boot-time baseline every checkInterval pipelines.
// checkInterval == 0 disables the check.
func (sh *Shell) monitor(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	sh.checkCounter++
	if sh.checkInterval == 0 || sh.checkCounter != sh.checkInterval {
		return
	}
	sh.checkCounter = 0

	fdDir := fmt.Sprintf("/proc/%d/fd", os.Getpid())
	current, err := os.ReadDir(fdDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "posh: monitor: cannot read fd dir:", err)
		return
	}

	if len(current) > sh.descriptors {
		var open []string
		for _, d := range current {
			open = append(open, d.Name())
		}
		panic(fmt.Errorf(
			"descriptor leak detected: %d file descriptors still open (pid=%d, open fds=%v)",
			len(current)-sh.descriptors, os.Getpid(), open,
		))
	}
}
