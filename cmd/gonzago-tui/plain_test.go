package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gonzago/gonzago/internal/session"
	"github.com/rs/zerolog"
)

func TestRunPlainAnswersEachLine(t *testing.T) {
	asker := &fakeAsker{reply: "An answer."}
	sess := session.New(zerolog.Nop())
	in := strings.NewReader("Who is Hamlet?\n\n   \nAnd Ophelia?\n")
	var out bytes.Buffer

	if err := runPlain(context.Background(), sess, asker, in, &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two answers, got %q", out.String())
	}
	for _, line := range lines {
		if line != "gonzago> An answer." {
			t.Fatalf("unexpected output line %q", line)
		}
	}
	got := asker.asked()
	want := []string{"Who is Hamlet?", "And Ophelia?. remember previous prompts: {Who is Hamlet}"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected queries %#v, got %#v", want, got)
	}
	if sess.Transcript().Len() != 4 || sess.Pending() {
		t.Fatalf("expected four turns and an idle session, got %d turns", sess.Transcript().Len())
	}
}

func TestRunPlainPrintsFallbackOnFailure(t *testing.T) {
	asker := &fakeAsker{err: errors.New("boom")}
	sess := session.New(zerolog.Nop())
	var out bytes.Buffer

	if err := runPlain(context.Background(), sess, asker, strings.NewReader("Who is Hamlet?"), &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "gonzago> "+session.FallbackText {
		t.Fatalf("expected fallback output, got %q", got)
	}
}

func TestRunPlainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	asker := &fakeAsker{reply: "unused"}
	var out bytes.Buffer

	// Blocking reader: only the cancelled context can end the loop.
	pr, pw := io.Pipe()
	defer pw.Close()
	if err := runPlain(ctx, session.New(zerolog.Nop()), asker, pr, &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(asker.asked()) != 0 {
		t.Fatalf("expected no requests after cancellation")
	}
}
