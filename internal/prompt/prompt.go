// Package prompt provides a small utility to build the interactive shell
// prompt string. It renders the current working directory (using ~ for the
// user's home directory), styled through the caller's Painter, and exposes
// a single Update function used by the shell to obtain the prompt.
package prompt

import (
	"os"
	"strings"

	"posh/internal/painter"
)

const DefaultPrompt = "$ "

// Update returns the prompt string to be displayed to the user. The prompt
// shows the current working directory (with the home directory abbreviated
// as `~` when applicable) painted with p's path color/bold settings. If the
// working directory cannot be determined, DefaultPrompt is returned.
func Update(p painter.Painter) string {

	currPath, err := os.Getwd()
	if err != nil {
		return DefaultPrompt
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	promptPath := currPath
	if homeDir != "" && strings.HasPrefix(currPath, homeDir) {
		promptPath = "~" + strings.TrimPrefix(currPath, homeDir)
	}

	return p.Paint(p.PathBold, p.PathColour, promptPath) + " "

}
