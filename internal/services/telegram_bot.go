package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crmdesk/internal/config"
	"crmdesk/internal/models"
)

// TelegramNotifier posts new leads to a sales chat. The bot is created on
// first use because NewBotAPI calls getMe over the network.
type TelegramNotifier struct {
	token    string
	chatID   int64
	endpoint string

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier returns nil when the token or chat id is missing.
func NewTelegramNotifier(cfg config.TelegramConfig) *TelegramNotifier {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil
	}
	return &TelegramNotifier{token: cfg.BotToken, chatID: cfg.ChatID, endpoint: tgbotapi.APIEndpoint}
}

// WithEndpoint points the bot at another Bot API server, e.g. a local one.
func (t *TelegramNotifier) WithEndpoint(endpoint string) *TelegramNotifier {
	t.endpoint = endpoint
	return t
}

func (t *TelegramNotifier) client() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(t.token, t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Printf("[tg][init] authorized as @%s", bot.Self.UserName)
	t.bot = bot
	return bot, nil
}

func (t *TelegramNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := t.client()
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, leadTelegramText(lead))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func leadTelegramText(lead *models.Lead) string {
	text := fmt.Sprintf("<b>New lead #%d</b>\n%s\n%s", lead.ID,
		html.EscapeString(lead.Name), html.EscapeString(lead.Email))
	if lead.Phone != nil {
		text += "\n" + html.EscapeString(*lead.Phone)
	}
	if lead.Source != nil {
		text += "\nsource: " + html.EscapeString(*lead.Source)
	}
	return text
}
