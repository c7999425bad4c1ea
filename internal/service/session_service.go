package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/planpal/planpal/internal/calendar"
	"github.com/planpal/planpal/internal/domain"
	"github.com/planpal/planpal/internal/engine"
	"github.com/planpal/planpal/internal/storage"
)

// CredentialSource hands out the engine's per-session token source.
type CredentialSource interface {
	ForChat(chatID int64) engine.TokenSource
}

// Outcome is what one handled message produces for the chat surface.
type Outcome struct {
	Reply string
	// AwaitsConfirmation is true when the reply is a yes/no prompt, so the
	// surface can attach Ja/Nee buttons.
	AwaitsConfirmation bool
}

// SessionService owns one conversation engine per chat. Engines are created
// on demand and live for the process lifetime; pending conversation state is
// not restored across restarts, only the transcript is persisted.
type SessionService struct {
	mu       sync.Mutex
	sessions map[int64]*session

	storage *storage.Storage
	backend calendar.Backend
	creds   CredentialSource
	loc     *time.Location
	clock   func() time.Time
}

type session struct {
	mu     sync.Mutex
	engine *engine.Engine
}

func NewSessionService(store *storage.Storage, backend calendar.Backend, creds CredentialSource, loc *time.Location) *SessionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionService{
		sessions: make(map[int64]*session),
		storage:  store,
		backend:  backend,
		creds:    creds,
		loc:      loc,
		clock:    time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *SessionService) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *SessionService) session(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{engine: engine.New(s.creds.ForChat(chatID), s.loc)}
		s.sessions[chatID] = sess
	}
	return sess
}

// HandleText runs one user message through the chat's engine. When the
// engine emits a creation request, it is executed against the calendar
// backend right here and the result fed back, so the caller always gets a
// final reply. Messages within one chat are serialized; the engine itself
// stays lock-free.
func (s *SessionService) HandleText(ctx context.Context, chatID int64, text string) (Outcome, error) {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	before := len(sess.engine.History())

	reply, req := sess.engine.HandleMessage(text, s.clock().In(s.loc))
	if req != nil {
		res, err := s.backend.CreateEvent(ctx, req)
		if err != nil {
			log.Printf("Create event for chat %d: %v", chatID, err)
			res = &domain.CalendarEventResult{Err: err.Error()}
		}
		reply = sess.engine.HandleCreationResult(res, s.clock().In(s.loc))
	}

	s.persistNew(chatID, sess, before)

	return Outcome{
		Reply:              reply,
		AwaitsConfirmation: sess.engine.Pending() != nil,
	}, nil
}

// persistNew appends any messages the engine added during this turn to the
// durable transcript.
func (s *SessionService) persistNew(chatID int64, sess *session, before int) {
	if s.storage == nil {
		return
	}
	history := sess.engine.History()
	for _, m := range history[before:] {
		if err := s.storage.AppendMessage(chatID, m); err != nil {
			log.Printf("Persist message for chat %d: %v", chatID, err)
		}
	}
}

// Connected reports whether the chat has a usable calendar credential.
func (s *SessionService) Connected(chatID int64) bool {
	_, ok := s.creds.ForChat(chatID).AccessToken()
	return ok
}

// Agenda returns the chat's events for the given day as a formatted Dutch
// message.
func (s *SessionService) Agenda(ctx context.Context, chatID int64, day time.Time) (string, error) {
	token, ok := s.creds.ForChat(chatID).AccessToken()
	if !ok {
		return "", fmt.Errorf("no calendar credential for chat %d", chatID)
	}

	events, err := s.backend.ListDay(ctx, token, day.In(s.loc))
	if err != nil {
		return "", fmt.Errorf("list day: %w", err)
	}

	return FormatAgenda(day.In(s.loc), events), nil
}
