package bot

import (
	"context"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/planpal/planpal/internal/domain"
)

const handleTimeout = 30 * time.Second

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.cfg.IsAllowedChat(chatID) {
		b.SendMessage(chatID, "⛔ Geen toegang")
		return
	}

	b.ensureUser(msg.From, chatID)

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	b.converse(chatID, text)
}

// converse runs text through the conversation engine and sends the reply,
// with Ja/Nee buttons when a confirmation is pending.
func (b *Bot) converse(chatID int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	outcome, err := b.sessions.HandleText(ctx, chatID, text)
	if err != nil {
		log.Printf("Handle text for chat %d: %v", chatID, err)
		return
	}

	if outcome.Reply == "" {
		return
	}

	if outcome.AwaitsConfirmation {
		if err := b.SendMessageWithKeyboard(chatID, outcome.Reply, confirmKeyboard()); err != nil {
			log.Printf("Send reply to chat %d: %v", chatID, err)
		}
		return
	}

	if err := b.SendMessage(chatID, outcome.Reply); err != nil {
		log.Printf("Send reply to chat %d: %v", chatID, err)
	}
}

// ensureUser auto-registers a chat on first contact.
func (b *Bot) ensureUser(from *tgbotapi.User, chatID int64) {
	if from == nil {
		return
	}

	user, err := b.storage.GetUserByTelegramID(chatID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}
	if user != nil {
		return
	}

	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}

	newUser := &domain.User{TelegramID: chatID, Name: name}
	if err := b.storage.CreateUser(newUser); err != nil {
		log.Printf("Error auto-registering user: %v", err)
		return
	}
	log.Printf("Registered chat %d (%s)", chatID, name)
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	if !b.cfg.IsAllowedChat(chatID) {
		b.api.Request(tgbotapi.NewCallback(callback.ID, "⛔ Geen toegang"))
		return
	}

	// The Ja/Nee buttons simply feed the matching word through the same
	// path as typed text, so buttons and typing behave identically.
	switch callback.Data {
	case "confirm":
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
		b.removeKeyboard(chatID, callback.Message.MessageID)
		b.converse(chatID, "ja")
	case "reject":
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
		b.removeKeyboard(chatID, callback.Message.MessageID)
		b.converse(chatID, "nee")
	default:
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	}
}

func (b *Bot) removeKeyboard(chatID int64, messageID int) {
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, empty)
	if _, err := b.api.Request(edit); err != nil {
		log.Printf("Remove keyboard in chat %d: %v", chatID, err)
	}
}
