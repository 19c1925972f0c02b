// Package notifier delivers formatted reports over the Telegram Bot API.
package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coffee-tracker/utils"
)

// Telegram sends messages to one configured chat or channel.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	// channel is set instead of chatID when the target is an @channel name.
	channel string
	logger  *utils.Logger
}

// NewTelegram authenticates the bot and resolves the chat target. The chat
// may be a numeric chat ID or an @channelname.
func NewTelegram(token, chat string, logger *utils.Logger) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram: bot token is required")
	}
	if chat == "" {
		return nil, fmt.Errorf("telegram: chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticate: %w", err)
	}

	t := &Telegram{bot: bot, logger: logger}
	if strings.HasPrefix(chat, "@") {
		t.channel = chat
	} else {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram: chat id %q is neither numeric nor @channel: %w", chat, err)
		}
		t.chatID = id
	}

	logger.Info("[telegram] Bot @%s ready, target chat: %s", bot.Self.UserName, chat)
	return t, nil
}

// Send delivers one Markdown message to the configured chat.
func (t *Telegram) Send(text string) error {
	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}

	t.logger.Info("[telegram] Message delivered (%d chars)", len(text))
	return nil
}

// SendStartup announces that the tracker came online and when it will report.
func (t *Telegram) SendStartup(morning, evening string) error {
	text := fmt.Sprintf(
		"🤖 *BOT CẬP NHẬT GIÁ CÀ PHÊ ĐÃ KHỞI ĐỘNG*\n\n"+
			"⏰ Thời gian: %s (GMT+7)\n"+
			"📅 Lịch cập nhật: %s và %s\n\n"+
			"✅ Hệ thống sẵn sàng hoạt động!",
		time.Now().Format("02/01/2006 15:04"), morning, evening)
	return t.Send(text)
}

// SendError notifies the chat that a cycle failed, with enough detail to
// check the logs.
func (t *Telegram) SendError(context string, err error) error {
	text := fmt.Sprintf(
		"🚨 *LỖI HỆ THỐNG*\n\n"+
			"🕐 Thời gian: %s\n"+
			"📝 Ngữ cảnh: %s\n"+
			"🐛 Chi tiết lỗi:\n```\n%v\n```",
		time.Now().Format("02/01/2006 15:04"), context, err)
	return t.Send(text)
}
