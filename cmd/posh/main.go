// Command posh is the entry point of the posh shell application.
// It simply calls shell.Run() to start the interactive REPL.
package main

import "posh/internal/shell"

func main() {
	shell.Run()
}
