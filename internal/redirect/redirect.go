// Package redirect implements the Redirection Context: the per-stage value
// object bundling a stage's stdin/stdout/stderr bindings and guaranteeing
// release of every descriptor it owns.
package redirect

import (
	"os"

	"golang.org/x/term"
)

// Channel identifies which output stream a redirection targets.
type Channel int

const (
	// Output is stdout.
	Output Channel = iota
	// Error is stderr.
	Error
)

// Mode selects how a redirected file is opened.
type Mode int

const (
	// Truncate opens (creating if absent) and truncates the target file.
	Truncate Mode = iota
	// Append opens (creating if absent) and appends to the target file.
	Append
)

// FilePerm is the mode used to create files opened by a redirection.
// Overridable at boot from config.Redirection.FilePerm.
var FilePerm os.FileMode = 0644

// Binding names one channel's target file path and open mode, as produced
// by the parser before the Context opens it.
type Binding struct {
	Path string
	Mode Mode
}

// Context holds one stage's I/O bindings. Every opened file is owned by
// exactly one Context; Close is idempotent and releases all three channel
// slots.
type Context struct {
	InputFile  *os.File
	OutputFile *os.File
	ErrorFile  *os.File

	// IsPiped is true when this stage participates in a pipeline
	// regardless of its own redirections.
	IsPiped bool

	closeInput  func() error
	closeOutput func() error
	closeError  func() error
}

// New constructs a Context from the parser's channel map and deferred-touch
// set. For each channel present it opens the file in the requested mode and
// records its closer; for each deferred path it creates the file empty
// without opening it for further I/O.
func New(channels map[Channel]Binding, deferredTouches []string, isPiped bool) (*Context, error) {
	ctx := &Context{
		OutputFile:  os.Stdout,
		ErrorFile:   os.Stderr,
		IsPiped:     isPiped,
		closeInput:  noop,
		closeOutput: noop,
		closeError:  noop,
	}

	if b, ok := channels[Output]; ok {
		f, err := openBinding(b)
		if err != nil {
			return nil, err
		}
		ctx.SetOutput(f)
	}

	if b, ok := channels[Error]; ok {
		f, err := openBinding(b)
		if err != nil {
			ctx.Close()
			return nil, err
		}
		ctx.SetError(f)
	}

	for _, path := range deferredTouches {
		if err := touch(path); err != nil {
			ctx.Close()
			return nil, err
		}
	}

	return ctx, nil
}

func openBinding(b Binding) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if b.Mode == Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(b.Path, flags, FilePerm)
}

// touch creates path empty without opening it for further I/O, per the
// deferred-touch contract: an earlier same-channel redirection overwritten
// by a later one must still leave its file on disk, empty.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return err
	}
	return f.Close()
}

func noop() error { return nil }

// SetInput supplies a stream to be used as stdin for the stage.
func (ctx *Context) SetInput(f *os.File) {
	if f == nil {
		return
	}
	ctx.InputFile = f
	ctx.closeInput = f.Close
}

// SetOutput overrides the default stdout sink, taking ownership of its closer.
func (ctx *Context) SetOutput(f *os.File) {
	ctx.OutputFile = f
	ctx.closeOutput = f.Close
}

// SetError overrides the default stderr sink, taking ownership of its closer.
func (ctx *Context) SetError(f *os.File) {
	ctx.ErrorFile = f
	ctx.closeError = f.Close
}

// CloseInput releases only the input resource. Idempotent; intended for the
// parent after forking an external stage so the child owns the only
// read-end of an upstream pipe.
func (ctx *Context) CloseInput() {
	_ = ctx.closeInput()
	ctx.closeInput = noop
}

// Close releases all three channel resources. Idempotent.
func (ctx *Context) Close() {
	ctx.CloseInput()
	_ = ctx.closeOutput()
	ctx.closeOutput = noop
	_ = ctx.closeError()
	ctx.closeError = noop
}

// IsRedirected is true iff the output or error sink is not a terminal, or
// the Context is part of a pipeline.
func (ctx *Context) IsRedirected() bool {
	return ctx.IsPiped || !(isTerminal(ctx.OutputFile) && isTerminal(ctx.ErrorFile))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
