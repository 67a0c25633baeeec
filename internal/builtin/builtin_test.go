package builtin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"posh/internal/redirect"
)

func newCtx(t *testing.T) *redirect.Context {
	t.Helper()
	ctx, err := redirect.New(nil, nil, false)
	if err != nil {
		t.Fatalf("redirect.New returned error: %v", err)
	}
	return ctx
}

func drainLines(t *testing.T, res interface{ Output() error }) {
	t.Helper()
	if err := res.Output(); err != nil {
		t.Fatalf("Output returned error: %v", err)
	}
}

func TestEchoJoinsArgsWithSpaces(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetOutput(w)

	res, err := echoCmd([]string{"hello", "world"}, ctx, false)
	if err != nil {
		t.Fatalf("echoCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "hello world\n" {
		t.Errorf("output = %q, want %q", got, "hello world\n")
	}
}

// exitCmd's isTerminalStage==true path calls os.Exit directly and so
// cannot be exercised in-process; only the non-terminal force-exit path
// is testable here.
func TestExitNonTerminalStageReturnsForceExitSentinel(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	_, err := exitCmd(nil, ctx, false)
	if !errors.Is(err, ErrForceExit) {
		t.Fatalf("expected ErrForceExit, got %v", err)
	}
}

func TestTypeReportsBuiltin(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetOutput(w)

	res, err := typeCmd([]string{"cd"}, ctx, false)
	if err != nil {
		t.Fatalf("typeCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "cd is a shell builtin\n" {
		t.Errorf("output = %q, want %q", got, "cd is a shell builtin\n")
	}
}

func TestTypeReportsNotFound(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetOutput(w)

	res, err := typeCmd([]string{"definitely-not-a-real-command-xyz"}, ctx, false)
	if err != nil {
		t.Fatalf("typeCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	buf := make([]byte, 128)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "definitely-not-a-real-command-xyz not found\n" {
		t.Errorf("output = %q, want %q", got, "definitely-not-a-real-command-xyz not found\n")
	}
}

func TestPwdReportsCurrentDirectory(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetOutput(w)

	res, err := pwdCmd(nil, ctx, false)
	if err != nil {
		t.Fatalf("pwdCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	wantDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != wantDir+"\n" {
		t.Errorf("output = %q, want %q", got, wantDir+"\n")
	}
}

func TestCdTooManyArguments(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetError(w)

	res, err := cdCmd([]string{"a", "b"}, ctx, false)
	if err != nil {
		t.Fatalf("cdCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "cd: too many arguments\n" {
		t.Errorf("output = %q, want %q", got, "cd: too many arguments\n")
	}
}

func TestCdNoSuchDirectory(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetError(w)

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	res, err := cdCmd([]string{missing}, ctx, false)
	if err != nil {
		t.Fatalf("cdCmd returned error: %v", err)
	}
	drainLines(t, res)
	w.Close()

	buf := make([]byte, 256)
	n, _ := r.Read(buf)
	want := "cd: " + missing + ": No such file or directory\n"
	if got := string(buf[:n]); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCdChangesDirectory(t *testing.T) {
	ctx := newCtx(t)
	defer ctx.Close()

	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(original)

	dir := t.TempDir()
	res, err := cdCmd([]string{dir}, ctx, false)
	if err != nil {
		t.Fatalf("cdCmd returned error: %v", err)
	}
	drainLines(t, res)

	got, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	resolvedGot, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatal(err)
	}
	if resolvedGot != resolvedDir {
		t.Errorf("cwd = %q, want %q", resolvedGot, resolvedDir)
	}
}
