package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Confirmation keyboard shown under a "Klopt dit?" prompt. The callbacks
// feed "ja"/"nee" through the normal text path.
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Ja", "confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Nee", "reject"),
		),
	)
}
