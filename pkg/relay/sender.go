package relay

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/KodaTao/ChannelRelay/pkg/config"
)

// API Sender 依赖的 Telegram API 能力
// *tgbotapi.BotAPI 满足该接口，测试用假实现替换
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender 消息发送器
// 封装 Telegram Bot API 的回复与转发调用
type Sender struct {
	api    API
	logger *slog.Logger
}

// NewSender 创建消息发送器
func NewSender(api API, logger *slog.Logger) *Sender {
	return &Sender{
		api:    api,
		logger: logger,
	}
}

// Reply 回复指定消息
// 返回发送的消息 ID
func (s *Sender) Reply(chatID int64, replyToMsgID int, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyToMsgID

	sent, err := s.api.Send(msg)
	if err != nil {
		s.logger.Error("failed to send reply",
			"chat_id", chatID,
			"error", err,
		)
		return 0, fmt.Errorf("failed to send reply: %w", err)
	}

	s.logger.Debug("reply sent",
		"chat_id", chatID,
		"message_id", sent.MessageID,
		"reply_to", replyToMsgID,
	)

	return sent.MessageID, nil
}

// Forward 把一条消息原样转发到目标频道
// 目标既可以是数字 chat ID 也可以是 @username，返回转发后的消息 ID
func (s *Sender) Forward(target config.ChannelID, fromChatID int64, messageID int) (int, error) {
	fwd := tgbotapi.ForwardConfig{
		FromChatID: fromChatID,
		MessageID:  messageID,
	}
	if id, ok := target.Numeric(); ok {
		fwd.ChatID = id
	} else {
		fwd.ChannelUsername = ensureAt(string(target))
	}

	sent, err := s.api.Send(fwd)
	if err != nil {
		s.logger.Error("failed to forward message",
			"from_chat_id", fromChatID,
			"message_id", messageID,
			"target", target,
			"error", err,
		)
		return 0, fmt.Errorf("failed to forward message %d from chat %d: %w", messageID, fromChatID, err)
	}

	s.logger.Debug("message forwarded",
		"from_chat_id", fromChatID,
		"message_id", messageID,
		"target", target,
		"forwarded_id", sent.MessageID,
	)

	return sent.MessageID, nil
}

// ensureAt 确保频道用户名带 @ 前缀
func ensureAt(username string) string {
	if strings.HasPrefix(username, "@") {
		return username
	}
	return "@" + username
}
