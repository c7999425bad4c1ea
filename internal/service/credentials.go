package service

import (
	"context"
	"log"

	"golang.org/x/oauth2"

	"github.com/planpal/planpal/internal/engine"
	"github.com/planpal/planpal/internal/storage"
)

// GoogleCredentials serves per-chat OAuth tokens from storage, refreshing
// them through the OAuth config when expired.
type GoogleCredentials struct {
	storage  *storage.Storage
	oauthCfg *oauth2.Config
}

func NewGoogleCredentials(store *storage.Storage, oauthCfg *oauth2.Config) *GoogleCredentials {
	return &GoogleCredentials{storage: store, oauthCfg: oauthCfg}
}

func (g *GoogleCredentials) ForChat(chatID int64) engine.TokenSource {
	return &googleTokenSource{creds: g, chatID: chatID}
}

type googleTokenSource struct {
	creds  *GoogleCredentials
	chatID int64
}

func (t *googleTokenSource) AccessToken() (string, bool) {
	tok, err := t.creds.storage.GetGoogleToken(t.chatID)
	if err != nil {
		log.Printf("Load token for chat %d: %v", t.chatID, err)
		return "", false
	}
	if tok == nil {
		return "", false
	}
	if tok.Valid() {
		return tok.AccessToken, true
	}

	if tok.RefreshToken == "" {
		return "", false
	}

	fresh, err := t.creds.oauthCfg.TokenSource(context.Background(), tok).Token()
	if err != nil {
		log.Printf("Refresh token for chat %d: %v", t.chatID, err)
		return "", false
	}

	if err := t.creds.storage.SaveGoogleToken(t.chatID, fresh); err != nil {
		log.Printf("Save refreshed token for chat %d: %v", t.chatID, err)
	}
	return fresh.AccessToken, true
}

// StaticCredentials is used with backends that authenticate at the service
// level (CalDAV basic auth): every chat shares one availability flag and no
// per-user token.
type StaticCredentials struct {
	Available bool
}

func (s StaticCredentials) ForChat(int64) engine.TokenSource {
	return staticTokenSource{ok: s.Available}
}

type staticTokenSource struct {
	ok bool
}

func (s staticTokenSource) AccessToken() (string, bool) {
	if !s.ok {
		return "", false
	}
	// Non-empty sentinel; the CalDAV client ignores it.
	return "caldav", true
}
