package notify

import (
	"context"
	"time"

	"github.com/gemtrack/gemtrack/internal/events"
	"gopkg.in/tucnak/telebot.v2"
)

// TelegramNotifier pushes reminders to a fixed operator chat. It never
// polls for updates; the bot only sends.
type TelegramNotifier struct {
	bot  *telebot.Bot
	chat telebot.ChatID
}

func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: b, chat: telebot.ChatID(chatID)}, nil
}

func (n *TelegramNotifier) Send(_ context.Context, ev events.ReminderEvent) error {
	_, err := n.bot.Send(n.chat, Message(ev))
	return err
}
