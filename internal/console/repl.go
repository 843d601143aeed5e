// Copyright (c) Microsoft. All rights reserved.

package console

import (
	"bufio"
	"context"
	"io"
	"slices"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// DefaultExitWords end a [REPL] session.
var DefaultExitWords = []string{"quit", "exit", "q"}

// Handler answers one line of input.
type Handler func(ctx context.Context, input string) error

// REPL reads lines and hands them to a Handler until the user exits.
type REPL struct {
	In     io.Reader
	Out    *Printer
	Prompt string // default "You"

	// ExitWords end the loop, compared case-insensitively.
	// Default DefaultExitWords.
	ExitWords []string

	// StopOnEmpty ends the loop on an empty line instead of prompting again.
	StopOnEmpty bool
}

// Run loops until an exit word, end of input, ctx cancellation or a fatal
// handler error. Recoverable handler errors are printed and the loop
// continues. Only fatal errors and ctx errors are returned.
func (r *REPL) Run(ctx context.Context, handle Handler) error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = "You"
	}
	exits := r.ExitWords
	if len(exits) == 0 {
		exits = DefaultExitWords
	}

	lines, readErr, stop := r.readLines()
	defer close(stop)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Out.Printf("\n%s ", r.Out.Label(prompt))
		var line string
		select {
		case <-ctx.Done():
			r.Out.Println()
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				r.Out.Println()
				return <-readErr
			}
			line = l
		}
		input := strings.TrimSpace(line)
		if input == "" {
			if r.StopOnEmpty {
				return nil
			}
			continue
		}
		if slices.Contains(exits, strings.ToLower(input)) {
			r.Out.Info("Goodbye!")
			return nil
		}

		err := handle(ctx, input)
		switch af.ClassifyError(err) {
		case af.ClassNone:
		case af.ClassRecoverable:
			r.Out.Error(err)
		default:
			return err
		}
	}
}

// readLines scans r.In on its own goroutine so Run can return on ctx
// cancellation while a read is blocked. lines is closed at end of input,
// after the scan error is sent on readErr. Closing stop ends the goroutine
// at its next line.
func (r *REPL) readLines() (lines <-chan string, readErr <-chan error, stop chan struct{}) {
	out := make(chan string)
	errc := make(chan error, 1)
	stop = make(chan struct{})
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r.In)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-stop:
				return
			}
		}
		errc <- sc.Err()
	}()
	return out, errc, stop
}
