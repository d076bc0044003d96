// Package credentials prompts the operator for database credentials.
//
// Prompts go to stderr so stdout stays clean for the generated mappings.
// When stdin is a terminal the password is read without echo; otherwise
// (piped input, CI) it is read as a plain line.
//
// Reads block in a goroutine so a cancelled context (Ctrl-C) returns at
// once instead of waiting for Enter.
package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyUsername is returned when the operator enters no username.
var ErrEmptyUsername = errors.New("username cannot be empty")

// Prompter reads answers from In and writes prompts to Out.
type Prompter struct {
	In  *bufio.Reader
	Out io.Writer

	// fd is the terminal descriptor for no-echo reads, or -1.
	fd int
}

// New returns a Prompter on stdin/stderr.
func New() *Prompter {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Prompter{In: bufio.NewReader(os.Stdin), Out: os.Stderr, fd: fd}
}

// NewFromReader returns a Prompter that never touches a terminal.
func NewFromReader(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: bufio.NewReader(in), Out: out, fd: -1}
}

// Username asks for a database username.
func (p *Prompter) Username(ctx context.Context) (string, error) {
	fmt.Fprint(p.Out, "Database username: ")
	line, err := await(ctx, p.readLine, nil)
	if err != nil {
		return "", err
	}
	user := strings.TrimSpace(line)
	if user == "" {
		return "", ErrEmptyUsername
	}
	return user, nil
}

// Password asks for a database password.  An empty password is allowed.
func (p *Prompter) Password(ctx context.Context) (string, error) {
	fmt.Fprint(p.Out, "Database password: ")
	if p.fd >= 0 {
		return p.terminalPassword(ctx)
	}
	line, err := await(ctx, p.readLine, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine returns one line.  EOF is not an error; the caller sees
// whatever was typed before it.
func (p *Prompter) readLine() (string, error) {
	line, err := p.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

func (p *Prompter) terminalPassword(ctx context.Context) (string, error) {
	state, err := term.GetState(p.fd)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	// ReadPassword turns echo off; put it back if we give up early.
	restore := func() { _ = term.Restore(p.fd, state) }

	pw, err := await(ctx, func() (string, error) {
		b, err := term.ReadPassword(p.fd)
		return string(b), err
	}, restore)
	fmt.Fprintln(p.Out)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// await runs read in a goroutine and returns its result, or ctx.Err() as
// soon as ctx is done.  onCancel, if set, runs before returning early.  An
// abandoned read stays blocked until its input yields or the process exits.
func await(ctx context.Context, read func() (string, error), onCancel func()) (string, error) {
	type result struct {
		s   string
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := read()
		done <- result{s, err}
	}()

	select {
	case r := <-done:
		return r.s, r.err
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		return "", ctx.Err()
	}
}
