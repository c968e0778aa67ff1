// Package notify sends Telegram notifications for application events.
// Notifications are optional: a nil Notifier drops every message, so callers
// never branch on whether a bot is configured.
package notify

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mathieu/apply-pilot/internal/db"
)

// Notifier pushes short event messages to a single Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates a notifier for the given bot token and chat. An empty token or
// zero chat id means notifications are off; New then returns (nil, nil) and
// the nil notifier is safe to use.
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID}, nil
}

// ApplicationCreated announces a newly tracked application.
func (n *Notifier) ApplicationCreated(app *db.Application) error {
	if n == nil || app == nil {
		return nil
	}
	return n.send(createdMessage(app))
}

// StatusChanged announces a status move. from is the status the application
// had before the update; app carries the new one.
func (n *Notifier) StatusChanged(app *db.Application, from string) error {
	if n == nil || app == nil {
		return nil
	}
	return n.send(statusMessage(app, from))
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "HTML"
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func createdMessage(app *db.Application) string {
	text := fmt.Sprintf("✅ <b>%s</b> · %s\napplication tracked, match %d%%",
		html.EscapeString(app.Company),
		html.EscapeString(app.Position),
		app.MatchScore,
	)
	if app.URL != "" {
		text += fmt.Sprintf("\n🔗 <a href=\"%s\">posting</a>", html.EscapeString(app.URL))
	}
	return text
}

func statusMessage(app *db.Application, from string) string {
	return fmt.Sprintf("📋 <b>%s</b> · %s\n%s → <b>%s</b>",
		html.EscapeString(app.Company),
		html.EscapeString(app.Position),
		html.EscapeString(from),
		html.EscapeString(app.Status),
	)
}
