// Package diag provides best-effort process identification used while
// tearing down a pipeline's remaining external children on a force-exit.
package diag

import (
	"fmt"

	ps "github.com/mitchellh/go-ps"
)

// Describe returns a short "name(pid)" label for pid, falling back to just
// the pid if the process table can't be read or the pid has already exited
// (a common race during teardown: the process may be gone by the time we
// look it up).
func Describe(pid int) string {
	proc, err := ps.FindProcess(pid)
	if err != nil || proc == nil {
		return fmt.Sprintf("pid %d", pid)
	}
	return fmt.Sprintf("%s(%d)", proc.Executable(), pid)
}
