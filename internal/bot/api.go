package bot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// The REST surface mirrors the web-chat boundary: one endpoint that feeds a
// message into a session and returns the rendered reply.

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ChatRequest struct {
	SessionID int64  `json:"session_id"`
	Text      string `json:"text"`
}

type ChatResponse struct {
	Reply              string `json:"reply"`
	AwaitsConfirmation bool   `json:"awaits_confirmation"`
}

// SetupAPI registers the chat route with Basic Auth. Disabled when no
// credentials are configured.
func (b *Bot) SetupAPI() {
	if b.cfg.APIUsername == "" || b.cfg.APIPassword == "" {
		return
	}

	http.HandleFunc("/api/chat", b.basicAuth(b.apiChat))
	http.HandleFunc("/api/history", b.basicAuth(b.apiHistory))
}

func (b *Bot) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != b.cfg.APIUsername || password != b.cfg.APIPassword {
			w.Header().Set("WWW-Authenticate", `Basic realm="PlanPal API"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *Bot) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func (b *Bot) jsonError(w http.ResponseWriter, err string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: err})
}

// POST /api/chat - send a message into a session
func (b *Bot) apiChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.SessionID == 0 || strings.TrimSpace(req.Text) == "" {
		b.jsonError(w, "session_id and text are required", http.StatusBadRequest)
		return
	}

	outcome, err := b.sessions.HandleText(r.Context(), req.SessionID, req.Text)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, ChatResponse{
		Reply:              outcome.Reply,
		AwaitsConfirmation: outcome.AwaitsConfirmation,
	})
}

type HistoryMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// GET /api/history?session_id=N - recent transcript of a session
func (b *Bot) apiHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, err := strconv.ParseInt(r.URL.Query().Get("session_id"), 10, 64)
	if err != nil {
		b.jsonError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	msgs, err := b.storage.ListMessages(sessionID, limit)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	b.jsonResponse(w, out)
}
