package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/planpal/planpal/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Durable chat transcript. Pending conversation state is
		// deliberately not stored; only the exchanged messages are.
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS google_tokens (
			chat_id INTEGER PRIMARY KEY,
			access_token TEXT NOT NULL,
			refresh_token TEXT DEFAULT '',
			token_type TEXT DEFAULT 'Bearer',
			expiry DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Idempotent migrations: ignore reruns of additive steps
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("exec migration: %w", err)
		}
	}

	return nil
}

// --- Users ---

func (s *Storage) CreateUser(u *domain.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (telegram_id, name) VALUES (?, ?)`,
		u.TelegramID, u.Name,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, _ = res.LastInsertId()
	return nil
}

func (s *Storage) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	row := s.db.QueryRow(
		`SELECT id, telegram_id, name, created_at FROM users WHERE telegram_id = ?`,
		telegramID,
	)

	u := &domain.User{}
	err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *Storage) ListUsers() ([]*domain.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- Messages ---

func (s *Storage) AppendMessage(chatID int64, m domain.Message) error {
	_, err := s.db.Exec(
		`INSERT INTO messages (id, chat_id, role, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, chatID, string(m.Role), m.Text, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns the chat's most recent messages, oldest first.
func (s *Storage) ListMessages(chatID int64, limit int) ([]domain.Message, error) {
	rows, err := s.db.Query(
		`SELECT id, role, text, created_at FROM
			(SELECT id, role, text, created_at FROM messages
			 WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?)
		 ORDER BY created_at ASC`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// --- Google tokens ---

func (s *Storage) SaveGoogleToken(chatID int64, tok *oauth2.Token) error {
	_, err := s.db.Exec(
		`INSERT INTO google_tokens (chat_id, access_token, refresh_token, token_type, expiry, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at`,
		chatID, tok.AccessToken, tok.RefreshToken, tok.TokenType, tok.Expiry, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Storage) GetGoogleToken(chatID int64) (*oauth2.Token, error) {
	row := s.db.QueryRow(
		`SELECT access_token, refresh_token, token_type, expiry FROM google_tokens WHERE chat_id = ?`,
		chatID,
	)

	tok := &oauth2.Token{}
	err := row.Scan(&tok.AccessToken, &tok.RefreshToken, &tok.TokenType, &tok.Expiry)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return tok, nil
}

func (s *Storage) DeleteGoogleToken(chatID int64) error {
	_, err := s.db.Exec(`DELETE FROM google_tokens WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
