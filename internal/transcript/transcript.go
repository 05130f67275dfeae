// Package transcript holds the ordered, append-only log of conversation turns.
package transcript

import (
	"slices"

	"github.com/pkg/errors"
)

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Turn is one message in the transcript.
type Turn struct {
	Sender Sender `json:"sender" yaml:"sender"`
	Text   string `json:"text" yaml:"text"`
}

// UserTurn returns a turn authored by the user.
func UserTurn(text string) Turn {
	return Turn{Sender: SenderUser, Text: text}
}

// AssistantTurn returns a turn authored by the remote service.
func AssistantTurn(text string) Turn {
	return Turn{Sender: SenderAssistant, Text: text}
}

// Transcript is an immutable sequence of turns in insertion order. The zero
// value is an empty transcript. Append returns a new value and leaves the
// receiver untouched, so a Transcript can be shared freely between the
// session and the renderer.
type Transcript struct {
	turns []Turn
}

// Append returns a transcript with turn added at the end.
func (t Transcript) Append(turn Turn) (Transcript, error) {
	if !turn.Sender.Valid() {
		return t, errors.Errorf("invalid sender %q", turn.Sender)
	}
	next := make([]Turn, len(t.turns), len(t.turns)+1)
	copy(next, t.turns)
	return Transcript{turns: append(next, turn)}, nil
}

// Turns returns a copy of all turns.
func (t Transcript) Turns() []Turn {
	return slices.Clone(t.turns)
}

// Len returns the number of turns.
func (t Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn.
func (t Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// LastAssistant returns the most recent assistant turn.
func (t Transcript) LastAssistant() (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Sender == SenderAssistant {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}

// UserTexts returns the text of every user turn, oldest first.
func (t Transcript) UserTexts() []string {
	out := make([]string, 0, len(t.turns))
	for _, turn := range t.turns {
		if turn.Sender == SenderUser {
			out = append(out, turn.Text)
		}
	}
	return out
}
