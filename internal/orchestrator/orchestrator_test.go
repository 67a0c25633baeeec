package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"posh/internal/parser"
	"posh/internal/registry"
)

func TestRunEchoRedirectedToFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	pipeStages, terminal, err := parser.Parse("echo hello > " + target)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	o := New(registry.New(), "xterm-256color")
	if err := o.Run(pipeStages, terminal); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello\n" {
		t.Errorf("file content = %q, want %q", got, "hello\n")
	}
}

func TestRunUnknownCommandReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "err.txt")

	pipeStages, terminal, err := parser.Parse("definitely-not-a-real-command-xyz 2> " + target)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	o := New(registry.New(), "xterm-256color")
	if err := o.Run(pipeStages, terminal); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	want := "definitely-not-a-real-command-xyz: command not found\n"
	if string(got) != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestRunBuiltinPipeline(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	pipeStages, terminal, err := parser.Parse("echo hello | echo world > " + target)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	o := New(registry.New(), "xterm-256color")
	if err := o.Run(pipeStages, terminal); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	// The terminal stage's own "world" argument is independent of the
	// first stage's piped output: echo ignores stdin entirely, matching
	// spec.md's builtin semantics.
	if string(got) != "world\n" {
		t.Errorf("file content = %q, want %q", got, "world\n")
	}
}
