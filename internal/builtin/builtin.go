// Package builtin implements the shell's fixed builtin commands: exit,
// echo, type, pwd, cd. Each is a pure function of (args, Context) returning
// a Command Result, matching spec.md §4.4 exactly, including its bit-exact
// error and informational message formats.
package builtin

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"posh/internal/pathsearch"
	"posh/internal/redirect"
	"posh/internal/result"
)

// ErrForceExit is returned by the exit builtin when invoked in a
// non-terminal pipeline stage: the orchestrator catches it, tears down the
// rest of the pipeline's processes, and exits the shell. Modeled as a typed
// value rather than a signal per spec.md §9 ("do not use signals for this
// — it races with normal waitpid").
var ErrForceExit = errors.New("posh: force-exit sentinel")

// Func is a builtin handler. isTerminalStage tells `exit` whether it is
// running in the pipeline's terminal stage ("the parent", spec.md §4.5/§9)
// or a non-terminal (piped) stage, the only builtin whose behavior depends
// on stage position.
type Func func(args []string, ctx *redirect.Context, isTerminalStage bool) (result.Result, error)

// Table returns the fixed builtin name -> handler map.
func Table() map[string]Func {
	return map[string]Func{
		"exit": exitCmd,
		"echo": echoCmd,
		"type": typeCmd,
		"pwd":  pwdCmd,
		"cd":   cdCmd,
	}
}

// Names reports the fixed set of builtin command words, used by `type` and
// by the completer.
func Names() []string {
	names := make([]string, 0, len(Table()))
	for name := range Table() {
		names = append(names, name)
	}
	return names
}

func isBuiltinName(name string) bool {
	_, ok := Table()[name]
	return ok
}

func exitCmd(_ []string, ctx *redirect.Context, isTerminalStage bool) (result.Result, error) {
	if isTerminalStage {
		os.Exit(0)
	}
	return nil, ErrForceExit
}

func echoCmd(args []string, ctx *redirect.Context, _ bool) (result.Result, error) {
	return result.NewBuiltin(ctx, []string{strings.Join(args, " ")}, nil), nil
}

func typeCmd(args []string, ctx *redirect.Context, _ bool) (result.Result, error) {
	var lines []string
	for _, arg := range args {
		switch {
		case isBuiltinName(arg):
			lines = append(lines, fmt.Sprintf("%s is a shell builtin", arg))
		default:
			if path, ok := pathsearch.Find(arg); ok {
				lines = append(lines, fmt.Sprintf("%s is %s", arg, path))
			} else {
				lines = append(lines, fmt.Sprintf("%s not found", arg))
			}
		}
	}
	return result.NewBuiltin(ctx, lines, nil), nil
}

func pwdCmd(_ []string, ctx *redirect.Context, _ bool) (result.Result, error) {
	dir, err := os.Getwd()
	if err != nil {
		return result.NewBuiltin(ctx, nil, []string{fmt.Sprintf("pwd: %s", err)}), nil
	}
	return result.NewBuiltin(ctx, []string{dir}, nil), nil
}

func cdCmd(args []string, ctx *redirect.Context, _ bool) (result.Result, error) {
	if len(args) > 1 {
		return result.NewBuiltin(ctx, nil, []string{"cd: too many arguments"}), nil
	}

	input := "~"
	if len(args) == 1 {
		input = args[0]
	}

	target, err := expandUser(input)
	if err != nil {
		return result.NewBuiltin(ctx, nil, []string{fmt.Sprintf("cd: %s: No such file or directory", input)}), nil
	}

	if _, statErr := os.Stat(target); statErr != nil {
		return result.NewBuiltin(ctx, nil, []string{fmt.Sprintf("cd: %s: No such file or directory", input)}), nil
	}

	if err := os.Chdir(target); err != nil {
		return result.NewBuiltin(ctx, nil, []string{fmt.Sprintf("cd: %s: No such file or directory", input)}), nil
	}

	return result.NewBuiltin(ctx, nil, nil), nil
}

// expandUser resolves a leading "~" to the current user's home directory
// and returns an absolute path, mirroring the original implementation's
// Path(...).expanduser().resolve().
func expandUser(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			u, uErr := user.Current()
			if uErr != nil {
				return "", err
			}
			home = u.HomeDir
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
