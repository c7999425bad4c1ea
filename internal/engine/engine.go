// Package engine drives one session's conversation: free text in, a Dutch
// reply out, and at most one calendar-creation request per confirmed intent.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planpal/planpal/internal/domain"
	"github.com/planpal/planpal/internal/nlp"
)

// TokenSource supplies the calendar credential for this session at call
// time. ok is false when the user has no (valid) credential; the engine
// then short-circuits instead of emitting a creation request.
type TokenSource interface {
	AccessToken() (token string, ok bool)
}

// Engine is the per-session state machine. It is not safe for concurrent
// use; the owner serializes message handling per session.
type Engine struct {
	state  domain.ConversationState
	tokens TokenSource
	loc    *time.Location
}

func New(tokens TokenSource, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{tokens: tokens, loc: loc}
}

// Pending returns the intent awaiting confirmation, or nil.
func (e *Engine) Pending() *domain.ParsedIntent {
	return e.state.Pending
}

// History returns the session's messages, oldest first.
func (e *Engine) History() []domain.Message {
	return e.state.History
}

// HandleMessage processes one user message. When a confirmation results in
// a creation request, the returned reply is empty and req is non-nil: the
// caller executes the request and feeds the outcome to HandleCreationResult,
// which produces the user-visible reply for that turn. Pending state is
// cleared before the request is returned, so the request is emitted at most
// once per confirmation regardless of the eventual external result.
func (e *Engine) HandleMessage(text string, now time.Time) (reply string, req *domain.CalendarEventRequest) {
	e.append(domain.RoleUser, text, now)

	if e.state.Pending != nil {
		// Classification runs before any fresh parse, so a reply that
		// starts with a rejection word wins over a re-parse ("nee,
		// maandag om 10" cancels rather than scheduling Monday).
		switch {
		case matchesAny(text, confirmWords):
			intent := e.state.Pending
			e.state.Pending = nil

			token, ok := e.tokens.AccessToken()
			if !ok {
				return e.reply(replyNoAccess, now), nil
			}
			return "", &domain.CalendarEventRequest{
				Title:       intent.Title,
				Start:       intent.Start(e.loc),
				End:         intent.End(e.loc),
				AccessToken: token,
			}
		case matchesAny(text, rejectWords):
			e.state.Pending = nil
			return e.reply(replyCancelled, now), nil
		default:
			// Neither yes nor no: the old intent is superseded and the
			// current text is parsed fresh, never merged.
			e.state.Pending = nil
		}
	}

	intent, ok := nlp.Parse(text, now)
	if !ok {
		return e.reply(replyNoDate, now), nil
	}

	e.state.Pending = intent
	prompt := fmt.Sprintf(replyConfirmFmt, intent.Title, nlp.FormatLongDate(intent.Date), intent.Time)
	return e.reply(prompt, now), nil
}

// HandleCreationResult renders the outcome of an executed creation request.
// The engine is already idle at this point; a new message arriving while
// the request was in flight was handled as ordinary idle input.
func (e *Engine) HandleCreationResult(res *domain.CalendarEventResult, now time.Time) string {
	if !res.OK() {
		msg := replyGenericErr
		if res != nil && res.Err != "" {
			msg = res.Err
		}
		return e.reply(fmt.Sprintf(replyFailedFmt, msg), now)
	}

	start := res.Start.In(e.loc)
	text := fmt.Sprintf(replyCreatedFmt,
		res.Title, nlp.FormatLongDate(start), start.Format("15:04"), res.Link)
	return e.reply(text, now)
}

// matchesAny reports whether text is one of the lexicon words, or starts
// with one followed by a space (or a comma, as in "nee, maandag om 10").
func matchesAny(text string, words []string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	for _, w := range words {
		if norm == w || strings.HasPrefix(norm, w+" ") || strings.HasPrefix(norm, w+",") {
			return true
		}
	}
	return false
}

func (e *Engine) reply(text string, now time.Time) string {
	e.append(domain.RoleAssistant, text, now)
	return text
}

func (e *Engine) append(role domain.MessageRole, text string, now time.Time) {
	e.state.History = append(e.state.History, domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: now,
	})
}
