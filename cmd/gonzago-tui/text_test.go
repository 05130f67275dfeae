package main

import (
	"strings"
	"testing"
)

func TestWrapText(t *testing.T) {
	got := wrapText("To be, or not to be, that is the question", 12)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Fatalf("expected lines of at most 12 chars, got %q", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "To be, or not to be, that is the question" {
		t.Fatalf("expected words to be preserved, got %q", got)
	}
}

func TestWrapTextKeepsBlankLinesAndLongWords(t *testing.T) {
	got := wrapText("first\r\n\r\nhonorificabilitudinitatibus", 8)
	want := "first\n\nhonorificabilitudinitatibus"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if wrapText("unchanged", 0) != "unchanged" {
		t.Fatalf("expected non-positive width to return input")
	}
}

func TestCompactSingleLine(t *testing.T) {
	got := compactSingleLine("  a\n\tb   c  ", 80)
	if got != "a b c" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
	if got := compactSingleLine("abcdefghij", 6); got != "abc..." {
		t.Fatalf("expected truncation with ellipsis, got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected hard truncation for tiny limit, got %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("expected empty string for zero limit, got %q", got)
	}
}

func TestClampInt(t *testing.T) {
	if clampInt(5, 10, 20) != 10 || clampInt(25, 10, 20) != 20 || clampInt(15, 10, 20) != 15 {
		t.Fatalf("clampInt returned out-of-range value")
	}
	if maxInt(3, 7) != 7 || maxInt(7, 3) != 7 {
		t.Fatalf("maxInt returned the smaller value")
	}
}
