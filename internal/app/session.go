package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionStarted is returned when Start is called twice.
var ErrSessionStarted = errors.New("session already started")

// SessionConfig configures a Session. Human participants without a Decider
// are answered through the session's hub; Sink and Display are replaced by
// the session feed.
type SessionConfig struct {
	Options
	DecisionTimeout time.Duration
	Tickets         *TicketIssuer
	FeedSize        int
}

// Session runs one engine on its own goroutine and exposes everything a host
// needs: an event stream out and decision answers in.
type Session struct {
	engine  *Engine
	hub     *Hub
	feed    *Feed
	tickets *TicketIssuer

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
	result Result
	err    error
}

// NewSession builds the engine and wires humans to the hub.
func NewSession(cfg SessionConfig) (*Session, error) {
	s := &Session{
		feed:    NewFeed(cfg.FeedSize),
		tickets: cfg.Tickets,
		done:    make(chan struct{}),
	}
	s.hub = NewHub(cfg.DecisionTimeout, s.announce)

	opts := cfg.Options
	opts.Participants = make([]Participant, len(cfg.Participants))
	for i, part := range cfg.Participants {
		if part.Decider == nil && part.Player != nil && part.Player.Human {
			if part.Player.ID == "" {
				part.Player.ID = uuid.NewString()
			}
			part.Decider = s.hub.For(part.Player.ID)
		}
		opts.Participants[i] = part
	}
	opts.Sink = s.feed
	opts.Display = s.feed

	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// ID returns the game identifier.
func (s *Session) ID() string { return s.engine.ID() }

// Events is the outbound stream. It is closed after the final
// game_ended or game_aborted event.
func (s *Session) Events() <-chan Event { return s.feed.Events() }

// Start launches the engine goroutine.
func (s *Session) Start(ctx context.Context) error {
	started := false
	s.once.Do(func() {
		started = true
		ctx, s.cancel = context.WithCancel(ctx)
		go s.run(ctx)
	})
	if !started {
		return ErrSessionStarted
	}
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.feed.close()

	s.result, s.err = s.engine.Run(ctx)
	if s.err != nil {
		s.feed.Publish(Event{Kind: EventGameAborted, Payload: GameAbortedPayload{Reason: s.err.Error()}})
		return
	}
	s.feed.Publish(Event{Kind: EventGameEnded, Payload: GameEndedPayload{Result: s.result}})
}

// announce forwards a newly opened decision to its owner, with a ticket when
// the session signs them.
func (s *Session) announce(d PendingDecision) {
	payload := DecisionPayload{Decision: d}
	if s.tickets != nil {
		ticket, err := s.tickets.Issue(d)
		if err != nil {
			s.engine.logger.Error("announce: failed to issue ticket for %s: %v", d.ID, err)
		}
		payload.Ticket = ticket
	}
	s.feed.Publish(Event{Kind: EventDecision, Payload: payload, Recipients: []string{d.PlayerID}})
}

// Pending returns the open decision, if any.
func (s *Session) Pending() (PendingDecision, bool) {
	return s.hub.Pending()
}

// Resolve answers the open decision. It reports false for stale or invalid answers.
func (s *Session) Resolve(decisionID string, c Choice) bool {
	return s.hub.Resolve(decisionID, c)
}

// ResolveTicket verifies a ticket issued to playerID and answers its decision.
func (s *Session) ResolveTicket(playerID, ticket string, c Choice) (bool, error) {
	if s.tickets == nil {
		return false, fmt.Errorf("%w: session does not issue tickets", ErrInvalidTicket)
	}
	claims, err := s.tickets.Verify(ticket)
	if err != nil {
		return false, err
	}
	if claims.PlayerID != playerID {
		return false, fmt.Errorf("%w: ticket belongs to another player", ErrInvalidTicket)
	}
	return s.hub.Resolve(claims.DecisionID, c), nil
}

// Stop cancels the game and stops waiting on a consumer. Events still
// buffered stay readable; later ones may be dropped.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.feed.Abandon()
}

// Wait blocks until the engine goroutine has finished.
func (s *Session) Wait() (Result, error) {
	<-s.done
	return s.result, s.err
}

// Done is closed when the engine goroutine has finished.
func (s *Session) Done() <-chan struct{} { return s.done }
