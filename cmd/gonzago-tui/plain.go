package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/gonzago/gonzago/internal/session"
	"github.com/gonzago/gonzago/internal/transcript"
	"github.com/pkg/errors"
)

// runPlain drives the session from line-oriented input. Lines are consumed
// one at a time; the next line is read only after the previous answer has
// been printed.
func runPlain(ctx context.Context, sess *session.Session, asker session.Asker, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			break
		}

		sess.OnInputChange(line)
		done := make(chan transcript.Turn, 1)
		if !sess.Go(ctx, asker, func(turn transcript.Turn) { done <- turn }) {
			continue
		}
		turn := <-done
		if _, err := fmt.Fprintf(out, "gonzago> %s\n", turn.Text); err != nil {
			return errors.Wrap(err, "write answer")
		}
	}

	select {
	case err := <-readErr:
		return errors.Wrap(err, "read input")
	default:
		return nil
	}
}
