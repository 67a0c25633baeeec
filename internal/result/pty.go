package result

import (
	"io"
	"os"

	"golang.org/x/term"
)

const chunkSize = 1024

// Output enters raw terminal mode on real stdin, forwards keystrokes into
// the PTY master on a helper goroutine, and copies PTY master output to the
// sink on the calling goroutine in chunkSize byte chunks, bypassing text
// encoding (raw bytes in, raw bytes out). Terminal attributes are restored
// in a deferred block so a panic mid-session cannot leave the user's
// terminal unusable.
func (p *PTY) Output() error {
	stdinFd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		_ = p.cmd.Wait()
		return err
	}
	defer func() { _ = term.Restore(stdinFd, oldState) }()

	// Forwarder: real stdin -> PTY master. Ends on its own once the master
	// is closed below and writes to it start failing.
	go func() { _, _ = io.Copy(p.master, os.Stdin) }()

	buf := make([]byte, chunkSize)
	var lastByte byte
	wroteAny := false
	for {
		n, readErr := p.master.Read(buf)
		if n > 0 {
			_, _ = p.ctx.OutputFile.Write(buf[:n])
			lastByte = buf[n-1]
			wroteAny = true
		}
		if readErr != nil {
			// Normal PTY close: the slave side went away with the child.
			break
		}
	}

	if wroteAny && lastByte != '\n' {
		_, _ = p.ctx.OutputFile.Write([]byte("\n"))
	}

	_ = p.master.Close()
	return p.cmd.Wait()
}
