package relay

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/KodaTao/ChannelRelay/pkg/config"
	"github.com/KodaTao/ChannelRelay/pkg/observability"
)

// handleChannelPost 处理一条频道消息
// 来源频道在监听列表中才转发，转发失败只记日志和计数，事件循环继续
func (b *Bot) handleChannelPost(post *tgbotapi.Message) {
	src, ok := b.matchSource(post.Chat)
	if !ok {
		b.logger.Debug("channel post from non-monitored channel",
			"chat_id", post.Chat.ID,
			"username", post.Chat.UserName,
		)
		return
	}

	target := b.store.TargetChannel()
	forwardedID, err := b.sender.Forward(target, post.Chat.ID, post.MessageID)
	if err != nil {
		b.forwardErrors.Add(1)
		observability.ForwardErrorsTotal.Inc()
		return
	}

	b.forwarded.Add(1)
	observability.ForwardedTotal.Inc()
	b.logger.Info("channel post forwarded",
		"source", src,
		"target", target,
		"message_id", post.MessageID,
		"forwarded_id", forwardedID,
	)
}

// matchSource 判断消息来源频道是否在监听列表中
// 列表中的条目可能是数字 ID 也可能是 @username，两种形式都要比对
func (b *Bot) matchSource(chat *tgbotapi.Chat) (config.ChannelID, bool) {
	if chat == nil {
		return "", false
	}

	numeric := config.ChannelID(strconv.FormatInt(chat.ID, 10))
	if b.store.HasSource(numeric) {
		return numeric, true
	}

	if chat.UserName != "" {
		named := config.ChannelID("@" + chat.UserName)
		if b.store.HasSource(named) {
			return named, true
		}
	}

	return "", false
}
