package relay

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/KodaTao/ChannelRelay/pkg/config"
	"github.com/KodaTao/ChannelRelay/pkg/observability"
)

// 固定回复文案
const (
	welcomeText = "Welcome to the Channel Forwarding Bot!\n\nUse /help to see available commands."

	helpText = "Available commands:\n\n" +
		"/add_channel CHANNEL_ID - Add a channel to forward messages from\n" +
		"/remove_channel CHANNEL_ID - Remove a channel from the list\n" +
		"/list_channels - Show all channels being monitored\n" +
		"/help - Show this help message"

	notAuthorizedText = "You are not authorized to use this bot."

	unknownCommandText = "Unknown command. Send /help to see available commands."

	channelArgUsage = "Please provide a channel ID or username.\n" +
		"Example: %s @channel_name or %s -1001234567890"
)

// handleCommand 处理管理员私聊命令
// 所有命令先做管理员校验，非管理员只收到固定拒绝回复，不产生任何变更
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.From.ID != b.store.AdminID() {
		b.unauthorized.Add(1)
		observability.UnauthorizedTotal.Inc()
		b.logger.Warn("management command from non-admin user",
			"user_id", msg.From.ID,
			"command", msg.Command(),
		)
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, notAuthorizedText)
		return
	}

	command := msg.Command()
	b.commands.Add(1)
	observability.CommandsTotal.WithLabelValues(command).Inc()

	b.logger.Info("received command",
		"command", command,
		"user_id", msg.From.ID,
	)

	switch command {
	case "start":
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, welcomeText)
	case "help":
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, helpText)
	case "add_channel":
		b.cmdAddChannel(msg)
	case "remove_channel":
		b.cmdRemoveChannel(msg)
	case "list_channels":
		b.cmdListChannels(msg)
	default:
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, unknownCommandText)
	}
}

// cmdAddChannel 把频道加入来源列表
func (b *Bot) cmdAddChannel(msg *tgbotapi.Message) {
	id, ok := b.channelArg(msg, "/add_channel")
	if !ok {
		return
	}

	added, err := b.store.AddSource(id)
	if err != nil {
		b.logger.Error("failed to persist config",
			"command", "add_channel",
			"channel", id,
			"error", err,
		)
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, "Failed to save the configuration. Please check the logs.")
		return
	}

	if !added {
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf("Channel %s is already in the list.", id))
		return
	}

	b.logger.Info("source channel added", "channel", id)
	_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf("Channel %s added successfully.", id))
}

// cmdRemoveChannel 把频道从来源列表移除
func (b *Bot) cmdRemoveChannel(msg *tgbotapi.Message) {
	id, ok := b.channelArg(msg, "/remove_channel")
	if !ok {
		return
	}

	removed, err := b.store.RemoveSource(id)
	if err != nil {
		b.logger.Error("failed to persist config",
			"command", "remove_channel",
			"channel", id,
			"error", err,
		)
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, "Failed to save the configuration. Please check the logs.")
		return
	}

	if !removed {
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf("Channel %s is not in the list.", id))
		return
	}

	b.logger.Info("source channel removed", "channel", id)
	_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf("Channel %s removed successfully.", id))
}

// cmdListChannels 列出当前所有来源频道
func (b *Bot) cmdListChannels(msg *tgbotapi.Message) {
	sources := b.store.Sources()
	if len(sources) == 0 {
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, "No channels are currently being monitored.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Currently monitoring the following channels:\n")
	for _, c := range sources {
		sb.WriteString("\n- ")
		sb.WriteString(string(c))
	}

	_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, sb.String())
}

// channelArg 解析命令的单个频道参数
// 参数缺失或多余时回复用法提示并返回 ok=false
func (b *Bot) channelArg(msg *tgbotapi.Message, usage string) (config.ChannelID, bool) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		_, _ = b.sender.Reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf(channelArgUsage, usage, usage))
		return "", false
	}
	return config.ChannelID(args[0]), true
}
