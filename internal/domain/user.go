package domain

import "time"

// User is a registered chat account. Registration happens automatically on
// first contact; the Telegram chat ID doubles as the session identifier.
type User struct {
	ID         int64
	TelegramID int64
	Name       string
	CreatedAt  time.Time
}
