package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Plan je events in het Nederlands. Stuur gewoon een bericht, bijvoorbeeld:

• "morgen om 14:00 meeting"
• "volgende week maandag vergadering"
• "15 januari om half 3 tandarts"

Daarna vraag ik een bevestiging (ja/nee) en zet ik het event in je agenda.

/agenda — events van vandaag
/login — agenda koppelen
/help — deze uitleg`

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		name := ""
		if msg.From != nil {
			name = " " + msg.From.FirstName
		}
		text := fmt.Sprintf("👋 Hoi%s! Ik ben PlanPal.\n\n%s", name, helpText)
		b.SendMessage(chatID, text)

	case "help":
		b.SendMessage(chatID, helpText)

	case "agenda":
		b.sendAgenda(chatID)

	case "login":
		if b.sessions.Connected(chatID) {
			b.SendMessage(chatID, "✅ Je agenda is al gekoppeld.")
			return
		}
		b.SendMessage(chatID, fmt.Sprintf(
			"🔑 Je agenda is nog niet gekoppeld. Vraag de beheerder om het auth-commando uit te voeren voor chat <code>%d</code>.", chatID))

	case "logout":
		if err := b.storage.DeleteGoogleToken(chatID); err != nil {
			log.Printf("Delete token for chat %d: %v", chatID, err)
			b.SendMessage(chatID, "❌ Ontkoppelen is niet gelukt. Probeer het later opnieuw.")
			return
		}
		b.SendMessage(chatID, "🔓 Je agenda is ontkoppeld.")

	default:
		b.SendMessage(chatID, "Onbekend commando. Probeer /help")
	}
}

func (b *Bot) sendAgenda(chatID int64) {
	if !b.sessions.Connected(chatID) {
		b.SendMessage(chatID, "Geen toegang tot je agenda. Gebruik /login")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	text, err := b.sessions.Agenda(ctx, chatID, time.Now().In(b.cfg.Timezone))
	if err != nil {
		log.Printf("Agenda for chat %d: %v", chatID, err)
		b.SendMessage(chatID, "❌ Kon je agenda niet ophalen. Probeer het later opnieuw.")
		return
	}

	b.SendMessage(chatID, text)
}
