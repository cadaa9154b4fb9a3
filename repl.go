package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jcorbin/goforth/internal/fileinput"
	"github.com/jcorbin/goforth/internal/logio"
	"github.com/jcorbin/goforth/internal/panicerr"
)

const continuePrompt = "... "

// lineSource supplies program lines to the REPL; io.EOF ends the session.
type lineSource interface {
	readLine(prompt string) (string, error)

	// where locates the last line read, or returns "" for interactive input.
	where() string

	Close() error
}

// openLines reads from a line editor when stdin is a terminal, and plainly
// otherwise.
func openLines(history string) lineSource {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return newEditedLines(history)
	}
	return &plainLines{Input: fileinput.Input{
		Queue: []io.Reader{fileinput.NamedReader("<stdin>", os.Stdin)},
	}}
}

type plainLines struct {
	fileinput.Input
}

func (pl *plainLines) readLine(string) (string, error) {
	line, err := pl.ReadLine()
	return line.Text, err
}

func (pl *plainLines) where() string { return pl.Last.Location.String() }

type editedLines struct {
	*liner.State
	history string
}

func newEditedLines(history string) *editedLines {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &editedLines{ln, history}
}

func (el *editedLines) readLine(prompt string) (string, error) {
	line, err := el.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err == nil && strings.TrimSpace(line) != "" {
		el.AppendHistory(line)
	}
	return line, err
}

func (el *editedLines) where() string { return "" }

func (el *editedLines) Close() error {
	if el.history != "" {
		if f, err := os.Create(el.history); err == nil {
			_, _ = el.WriteHistory(f)
			_ = f.Close()
		}
	}
	return el.State.Close()
}

// repl runs lines through a session, printing the stack after every line
// that evaluates cleanly.
type repl struct {
	vm      *VM
	out     *lineTracker
	log     *logio.Logger
	prompt  string
	timeout time.Duration
}

func (r repl) run(ctx context.Context, lines lineSource) error {
	for {
		prompt := r.prompt
		if r.vm.Defining() {
			prompt = continuePrompt
		}
		text, err := lines.readLine(prompt)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		err = r.eval(ctx, text)
		r.out.endLine()
		if err != nil {
			r.fail(lines.where(), err)
			continue
		}
		if !r.vm.Defining() {
			fmt.Fprintf(r.out, "stack: %v\n", r.vm.stack)
		}
	}
}

func (r repl) eval(ctx context.Context, text string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.vm.EvalContext(ctx, text)
}

// fail reports an evaluation error; errors in non-interactive input also
// make the exit code non-zero.
func (r repl) fail(where string, err error) {
	if stack := panicerr.PanicStack(err); stack != "" {
		r.log.Printf("PANIC", "%s", stack)
	}
	if where == "" {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	r.log.Errorf("%v: %v", where, err)
}

// lineTracker remembers whether the last byte written ended a line, so that
// REPL messages start on a fresh line after "." output.
type lineTracker struct {
	io.Writer
	mid bool
}

func (lt *lineTracker) Write(p []byte) (int, error) {
	if len(p) > 0 {
		lt.mid = p[len(p)-1] != '\n'
	}
	return lt.Writer.Write(p)
}

func (lt *lineTracker) endLine() {
	if lt.mid {
		io.WriteString(lt, "\n")
	}
}
