package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jaminalder/time-travel-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("game not found")
	ErrOutOfRange = errors.New("out of range")
)

// Session is one hot-seat game held in memory. Game is replaced whole on
// every intent.
type Session struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

// View derives the view model of the session's current game.
func (s Session) View() domain.ViewModel { return s.Game.View() }

// Renderer turns a session into the payload broadcast to subscribers.
type Renderer func(Session) []byte

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send delivers b without blocking and reports false if the buffer is full.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log.With("component", "app")
		}
	}
}

// WithRenderer sets the broadcast renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.setRendererLocked(r) }
}

// WithSubscriberBuffer sets the channel capacity of each subscriber.
func WithSubscriberBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// Service manages sessions and subscribers.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   Renderer
	buffer   int
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a service. Without WithRenderer broadcasts carry no payload.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   func(Session) []byte { return nil },
		buffer:   1,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRendererLocked(r)
}

func (s *Service) setRendererLocked(r Renderer) {
	if r == nil {
		s.render = func(Session) []byte { return nil }
		return
	}
	s.render = r
}

// CreateGame creates and registers a new session.
func (s *Service) CreateGame() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{ID: newSessionID(), Game: domain.New(), Created: now, Updated: now}
	s.sessions[sess.ID] = sess
	s.log.Info("session created", "id", sess.ID)
	cp := *sess
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *sess
	return &cp, true
}

// PlaceMark places the next player's mark at cell idx (0..8). Placements on
// a taken cell or a decided board leave the game unchanged and are not errors.
func (s *Service) PlaceMark(id string, idx int) (*Session, error) {
	if idx < 0 || idx >= len(domain.Board{}) {
		return nil, fmt.Errorf("cell %d: %w", idx, ErrOutOfRange)
	}
	return s.apply(id, "place", func(g domain.Game) (domain.Game, error) {
		next := g.PlaceMark(idx)
		if next.Len() == g.Len() && next.Step() == g.Step() {
			s.log.Debug("placement ignored", "id", id, "cell", idx, "status", domain.Status(g.Outcome(), g.NextPlayer()))
		}
		return next, nil
	})
}

// JumpTo moves the session to an existing history step.
func (s *Service) JumpTo(id string, step int) (*Session, error) {
	return s.apply(id, "jump", func(g domain.Game) (domain.Game, error) {
		if step < 0 || step >= g.Len() {
			return g, fmt.Errorf("step %d of %d: %w", step, g.Len(), ErrOutOfRange)
		}
		return g.JumpTo(step), nil
	})
}

// ToggleSort flips the move-list order of the session.
func (s *Service) ToggleSort(id string) (*Session, error) {
	return s.apply(id, "sort", func(g domain.Game) (domain.Game, error) {
		return g.ToggleSort(), nil
	})
}

// apply swaps the session's game for the result of fn and broadcasts.
func (s *Service) apply(id, intent string, fn func(domain.Game) (domain.Game, error)) (*Session, error) {
	var toDrop []*subscriber

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	next, err := fn(sess.Game)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	sess.Game = next
	sess.Updated = s.now()

	// Snapshot state and subscribers
	cp := *sess
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.log.Debug("intent applied", "id", id, "intent", intent, "step", next.Step(), "len", next.Len())

	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.log.Warn("dropping slow subscribers", "id", id, "count", len(toDrop))
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
	return &cp, nil
}

// End discards a session and closes its subscribers.
func (s *Service) End(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.sessions, id)
	subs := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()

	for sub := range subs {
		sub.close()
	}
	s.log.Info("session ended", "id", id)
	return nil
}

// Subscribe registers a subscriber for a session. The channel is closed when
// ctx is done, the unsubscribe func is called, the session ends or the
// subscriber falls behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, s.buffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
