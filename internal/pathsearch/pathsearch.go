// Package pathsearch resolves a command word against PATH, shared by the
// command registry and the `type` builtin without creating an import cycle
// between them.
package pathsearch

import "os/exec"

// Find searches PATH for cmd, returning its resolved path and true if a
// regular, user-executable file is found. exec.LookPath already implements
// exactly the "split PATH, test each entry for an executable regular file"
// search the spec describes, so no third-party PATH walker is introduced.
func Find(cmd string) (string, bool) {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}
