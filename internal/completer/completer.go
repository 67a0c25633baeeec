// Package completer provides tab-completion for the posh shell, backed by
// the fixed builtin set and the executables currently reachable on PATH —
// exactly the completion source spec.md §6's Prompt collaborator contract
// describes.
package completer

import (
	"os"

	"github.com/chzyer/readline"

	"posh/internal/builtin"
)

// Completer adapts posh's command set to the readline.AutoCompleter
// interface, refreshing its PATH-executable half only when PATH has
// actually changed — the same gate the original implementation's
// Prompt.check_and_refresh used, to avoid rescanning PATH on every prompt.
type Completer struct {
	readlineCompleter *readline.PrefixCompleter
	lastPath          string
}

// New returns a Completer with its completion tree already built once.
func New() *Completer {
	c := &Completer{}
	c.rebuild()
	return c
}

// Update refreshes the completion tree if PATH has changed since the last
// call, and is a no-op otherwise.
func (c *Completer) Update() {
	if current := os.Getenv("PATH"); current != c.lastPath {
		c.rebuild()
	}
}

func (c *Completer) rebuild() {
	c.lastPath = os.Getenv("PATH")

	items := make([]readline.PrefixCompleterInterface, 0, len(builtin.Names()))
	for _, name := range builtin.Names() {
		items = append(items, readline.PcItem(name))
	}
	for _, name := range pathExecutables(c.lastPath) {
		items = append(items, readline.PcItem(name))
	}

	c.readlineCompleter = readline.NewPrefixCompleter(items...)
}

// Do delegates the completion logic to the underlying PrefixCompleter.
// It satisfies the readline.AutoCompleter interface.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	return c.readlineCompleter.Do(line, pos)
}

// pathExecutables lists every regular, executable file named across every
// PATH entry, deduplicated by name.
func pathExecutables(pathEnv string) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, dir := range splitPath(pathEnv) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, ok := seen[entry.Name()]; ok {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}
			seen[entry.Name()] = struct{}{}
			names = append(names, entry.Name())
		}
	}
	return names
}

func splitPath(pathEnv string) []string {
	var dirs []string
	start := 0
	for i := 0; i <= len(pathEnv); i++ {
		if i == len(pathEnv) || pathEnv[i] == os.PathListSeparator {
			if i > start {
				dirs = append(dirs, pathEnv[start:i])
			}
			start = i + 1
		}
	}
	return dirs
}
