package infrastructure

import (
	"fmt"

	"umb_panel/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier pushes ops alerts. Alerts are best-effort: a delivery failure is
// logged and never propagated to the operation that raised it.
type Notifier interface {
	AlertAccountTrouble(bot *entities.Bot, health *entities.HealthReport)
}

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier returns nil when no token is configured; a nil
// *TelegramNotifier is safe to call.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logrus.WithError(err).Warn("telegram notifier disabled: invalid token")
		return nil
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) AlertAccountTrouble(b *entities.Bot, health *entities.HealthReport) {
	if n == nil || health == nil {
		return
	}
	var state string
	switch {
	case health.Account.Blocked:
		state = "blocked"
	case !health.Account.Active:
		state = "inactive"
	default:
		return
	}

	text := fmt.Sprintf("⚠️ Bot *%s* account is %s\nAPI: %s | DB: %s | WhatsApp: %s",
		b.Name, state,
		health.Checks.API, health.Checks.Database, health.Checks.WhatsApp)
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := n.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("bot", b.Name).Warn("failed to send ops alert")
	}
}
