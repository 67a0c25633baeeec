// Package registry resolves a command word to either a builtin handler or
// an external program located on PATH, per spec.md §4.4.
package registry

import (
	"posh/internal/builtin"
	"posh/internal/pathsearch"
)

// Kind distinguishes the three outcomes of a Resolve call.
type Kind int

const (
	// NotFound means neither a builtin nor a PATH-resolvable executable
	// matched the command word.
	NotFound Kind = iota
	// Builtin means the command word names one of the fixed builtins.
	Builtin
	// External means the command word resolved to a PATH executable.
	External
)

// Resolution is the outcome of resolving one command word.
type Resolution struct {
	Kind    Kind
	Builtin builtin.Func
	Path    string // resolved absolute path, set only when Kind == External
}

// Registry resolves command words against the fixed builtin table and PATH.
type Registry struct {
	builtins map[string]builtin.Func
}

// New returns a Registry over the fixed builtin set: exit, echo, type, pwd, cd.
func New() *Registry {
	return &Registry{builtins: builtin.Table()}
}

// IsBuiltin reports whether cmd names one of the registry's builtins.
func (r *Registry) IsBuiltin(cmd string) bool {
	_, ok := r.builtins[cmd]
	return ok
}

// Resolve looks up cmd: a builtin name wins first, then a PATH search via
// exec.LookPath (a regular, user-executable file test per entry, exactly
// the spec's PATH-search rule), and otherwise NotFound.
func (r *Registry) Resolve(cmd string) Resolution {
	if fn, ok := r.builtins[cmd]; ok {
		return Resolution{Kind: Builtin, Builtin: fn}
	}

	if path, ok := pathsearch.Find(cmd); ok {
		return Resolution{Kind: External, Path: path}
	}

	return Resolution{Kind: NotFound}
}
