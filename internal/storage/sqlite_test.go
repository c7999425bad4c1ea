package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/planpal/planpal/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "planpal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsers(t *testing.T) {
	s := newTestStorage(t)

	u, err := s.GetUserByTelegramID(100)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, s.CreateUser(&domain.User{TelegramID: 100, Name: "Anna"}))

	u, err = s.GetUserByTelegramID(100)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Anna", u.Name)
	assert.NotZero(t, u.ID)

	require.NoError(t, s.CreateUser(&domain.User{TelegramID: 200, Name: "Bram"}))

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(100), users[0].TelegramID)
	assert.Equal(t, int64(200), users[1].TelegramID)
}

func TestMessages(t *testing.T) {
	s := newTestStorage(t)
	base := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, s.AppendMessage(42, domain.Message{
			ID:        string(rune('a' + i)),
			Role:      role,
			Text:      "bericht",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// Limit keeps the most recent entries, still ordered oldest first.
	msgs, err := s.ListMessages(42, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "c", msgs[0].ID)
	assert.Equal(t, "e", msgs[2].ID)
	assert.True(t, msgs[0].Timestamp.Before(msgs[2].Timestamp))

	// Other chats see nothing.
	msgs, err = s.ListMessages(43, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestGoogleTokens(t *testing.T) {
	s := newTestStorage(t)

	tok, err := s.GetGoogleToken(42)
	require.NoError(t, err)
	assert.Nil(t, tok)

	saved := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.SaveGoogleToken(42, saved))

	tok, err = s.GetGoogleToken(42)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
	assert.True(t, tok.Valid())

	// Saving again replaces the stored token.
	saved.AccessToken = "access-2"
	require.NoError(t, s.SaveGoogleToken(42, saved))
	tok, err = s.GetGoogleToken(42)
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)

	require.NoError(t, s.DeleteGoogleToken(42))
	tok, err = s.GetGoogleToken(42)
	require.NoError(t, err)
	assert.Nil(t, tok)
}
