package reminder

import (
	"context"
	"fmt"
	"html"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=telegram_mocks_test.go -package=reminder

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends notifications to a single chat.
type TelegramNotifier struct {
	bot    botSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64, httpClient *http.Client) (*TelegramNotifier, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	botAPI, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	log.Debugf("telegram notifier ready: @%s", botAPI.Self.UserName)
	return newTelegramNotifier(botAPI, chatID), nil
}

func newTelegramNotifier(bot botSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf(
		"<b>%s</b>\n\n%s",
		html.EscapeString(n.Title),
		html.EscapeString(n.Body),
	))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send [%s]: %w", n.Kind, err)
	}
	return nil
}
