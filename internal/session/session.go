// Package session implements the single-conversation state machine: it owns
// the transcript, the pending-input buffer and the Idle/Pending state, and
// turns each submission into exactly one outbound query.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/gonzago/gonzago/internal/compose"
	"github.com/gonzago/gonzago/internal/transcript"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FallbackText replaces the answer of any failed request.
const FallbackText = "Error: could not reach server."

// State is the request lifecycle of a session.
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Request is an accepted submission waiting to be settled.
type Request struct {
	ID    uint64
	Input string // trimmed user text, as recorded in the transcript
	Query string // composed query sent to the service
}

// Asker answers a composed query.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Session is safe for concurrent use; every method takes the session lock.
type Session struct {
	mu         sync.Mutex
	id         string
	logger     zerolog.Logger
	input      string
	transcript transcript.Transcript
	state      State
	seq        uint64
	inflight   uint64
}

// New creates an idle session with an empty transcript.
func New(logger zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		logger: logger.With().Str("session_id", id).Logger(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// OnInputChange replaces the pending-input buffer.
func (s *Session) OnInputChange(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a request is outstanding.
func (s *Session) Pending() bool {
	return s.State() == Pending
}

// Transcript returns the current transcript. The value never changes after
// it is returned.
func (s *Session) Transcript() transcript.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// CanSubmit reports whether Submit would accept the current input.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Idle && strings.TrimSpace(s.input) != ""
}

// Submit moves the session from Idle to Pending. It appends the trimmed input
// as a user turn, clears the input buffer and returns the request to issue.
// While a request is pending, or when the input is blank, it changes nothing
// and returns false.
func (s *Session) Submit() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Pending {
		s.logger.Debug().Uint64("inflight", s.inflight).Msg("submission rejected: request pending")
		return Request{}, false
	}
	trimmed := strings.TrimSpace(s.input)
	if trimmed == "" {
		return Request{}, false
	}

	// Context comes from the turns recorded before this one.
	query := compose.Query(trimmed, s.transcript.UserTexts())
	next, err := s.transcript.Append(transcript.UserTurn(trimmed))
	if err != nil {
		s.logger.Error().Err(err).Msg("append user turn")
		return Request{}, false
	}

	s.transcript = next
	s.input = ""
	s.state = Pending
	s.seq++
	s.inflight = s.seq

	s.logger.Info().
		Uint64("request_id", s.inflight).
		Int("context_turns", len(s.transcript.UserTexts())-1).
		Msg("request issued")
	return Request{ID: s.inflight, Input: trimmed, Query: query}, true
}

// Settle records the outcome of req and returns the session to Idle. A nil
// err appends reply as the assistant turn; any error appends FallbackText.
// Settling a request that is not outstanding is a no-op and returns false.
func (s *Session) Settle(req Request, reply string, err error) (transcript.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Pending || req.ID != s.inflight {
		s.logger.Warn().
			Uint64("request_id", req.ID).
			Uint64("inflight", s.inflight).
			Msg("dropping stale settlement")
		return transcript.Turn{}, false
	}

	turn := transcript.AssistantTurn(reply)
	if err != nil {
		s.logger.Warn().Err(err).Uint64("request_id", req.ID).Msg("request failed")
		turn = transcript.AssistantTurn(FallbackText)
	}
	next, appendErr := s.transcript.Append(turn)
	if appendErr != nil {
		s.logger.Error().Err(appendErr).Msg("append assistant turn")
	} else {
		s.transcript = next
	}
	s.state = Idle
	s.inflight = 0
	return turn, true
}

// Resolve asks asker for req and settles the result.
func (s *Session) Resolve(ctx context.Context, asker Asker, req Request) transcript.Turn {
	reply, err := asker.Ask(ctx, req.Query)
	turn, _ := s.Settle(req, reply, err)
	return turn
}

// Go submits the current input and resolves it on a new goroutine, calling
// done with the assistant turn once settled. It returns false when the
// submission was rejected, in which case done is never called.
func (s *Session) Go(ctx context.Context, asker Asker, done func(transcript.Turn)) bool {
	req, ok := s.Submit()
	if !ok {
		return false
	}
	go func() {
		turn := s.Resolve(ctx, asker, req)
		if done != nil {
			done(turn)
		}
	}()
	return true
}
