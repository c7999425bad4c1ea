package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planpal/planpal/internal/calendar"
	"github.com/planpal/planpal/internal/domain"
	"github.com/planpal/planpal/internal/storage"
)

// Wednesday 10 January 2024, 10:00.
var testNow = time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)

type fakeBackend struct {
	creates []*domain.CalendarEventRequest
	fail    string // when set, CreateEvent reports this as the backend error
	events  []calendar.Event
}

func (f *fakeBackend) CreateEvent(_ context.Context, req *domain.CalendarEventRequest) (*domain.CalendarEventResult, error) {
	f.creates = append(f.creates, req)
	if f.fail != "" {
		return &domain.CalendarEventResult{Err: f.fail}, nil
	}
	return &domain.CalendarEventResult{
		EventID: fmt.Sprintf("evt-%d", len(f.creates)),
		Title:   req.Title,
		Link:    "https://calendar.example/evt",
		Start:   req.Start,
		End:     req.End,
	}, nil
}

func (f *fakeBackend) ListDay(context.Context, string, time.Time) ([]calendar.Event, error) {
	return f.events, nil
}

func newTestService(t *testing.T, backend calendar.Backend) (*SessionService, *storage.Storage) {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "planpal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := NewSessionService(store, backend, StaticCredentials{Available: true}, time.UTC)
	svc.SetClock(func() time.Time { return testNow })
	return svc, store
}

func TestHandleTextConfirmFlow(t *testing.T) {
	backend := &fakeBackend{}
	svc, store := newTestService(t, backend)
	ctx := context.Background()

	out, err := svc.HandleText(ctx, 42, "morgen om 14:00 meeting")
	require.NoError(t, err)
	assert.True(t, out.AwaitsConfirmation)
	assert.Contains(t, out.Reply, "Klopt dit?")

	out, err = svc.HandleText(ctx, 42, "ja")
	require.NoError(t, err)
	assert.False(t, out.AwaitsConfirmation)
	assert.Contains(t, out.Reply, "✅")
	assert.Contains(t, out.Reply, "https://calendar.example/evt")

	require.Len(t, backend.creates, 1)
	req := backend.creates[0]
	assert.Equal(t, "meeting", req.Title)
	assert.Equal(t, time.Date(2024, time.January, 11, 14, 0, 0, 0, time.UTC), req.Start)
	assert.Equal(t, time.Date(2024, time.January, 11, 15, 0, 0, 0, time.UTC), req.End)

	// The whole exchange landed in the durable transcript.
	msgs, err := store.ListMessages(42, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "morgen om 14:00 meeting", msgs[0].Text)
	assert.Equal(t, domain.RoleAssistant, msgs[3].Role)
	assert.Contains(t, msgs[3].Text, "✅")
}

func TestHandleTextBackendFailure(t *testing.T) {
	backend := &fakeBackend{fail: "quota exceeded"}
	svc, _ := newTestService(t, backend)
	ctx := context.Background()

	_, err := svc.HandleText(ctx, 7, "vrijdag lunch")
	require.NoError(t, err)

	out, err := svc.HandleText(ctx, 7, "ja")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "❌")
	assert.Contains(t, out.Reply, "quota exceeded")

	// State is clean after a failure; the user can try again right away.
	out, err = svc.HandleText(ctx, 7, "vrijdag lunch")
	require.NoError(t, err)
	assert.True(t, out.AwaitsConfirmation)
}

func TestHandleTextIsolatedSessions(t *testing.T) {
	backend := &fakeBackend{}
	svc, _ := newTestService(t, backend)
	ctx := context.Background()

	outA, err := svc.HandleText(ctx, 1, "morgen om 14:00 meeting")
	require.NoError(t, err)
	outB, err := svc.HandleText(ctx, 2, "blah blah")
	require.NoError(t, err)

	// Chat 2's failed parse does not disturb chat 1's pending intent.
	assert.True(t, outA.AwaitsConfirmation)
	assert.False(t, outB.AwaitsConfirmation)

	out, err := svc.HandleText(ctx, 1, "ja")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "✅")
	require.Len(t, backend.creates, 1)
}

func TestHandleTextNoCredential(t *testing.T) {
	backend := &fakeBackend{}
	store, err := storage.New(filepath.Join(t.TempDir(), "planpal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := NewSessionService(store, backend, StaticCredentials{Available: false}, time.UTC)
	svc.SetClock(func() time.Time { return testNow })
	ctx := context.Background()

	_, err = svc.HandleText(ctx, 9, "morgen om 14:00 meeting")
	require.NoError(t, err)

	out, err := svc.HandleText(ctx, 9, "ja")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "Geen toegang")
	assert.Empty(t, backend.creates, "no request may reach the backend without a credential")
}

func TestFormatAgenda(t *testing.T) {
	day := time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

	empty := FormatAgenda(day, nil)
	assert.Contains(t, empty, "donderdag 11 januari 2024")
	assert.Contains(t, empty, "Geen events vandaag.")

	events := []calendar.Event{
		{Title: "standup", Start: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 15*time.Minute)},
		{Title: "vrij", AllDay: true, Start: day},
		{Start: day.Add(13 * time.Hour)},
	}
	text := FormatAgenda(day, events)
	assert.Contains(t, text, "09:00–09:15 standup")
	assert.Contains(t, text, "vrij (hele dag)")
	assert.Contains(t, text, "13:00 (zonder titel)")
}
