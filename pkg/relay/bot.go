// Package relay 提供频道转发 Bot
// Bot 监听来源频道的新消息并原样转发到目标频道，
// 管理员通过私聊命令维护来源频道列表
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/KodaTao/ChannelRelay/pkg/config"
)

// Bot 频道转发 Bot
type Bot struct {
	client *tgbotapi.BotAPI
	store  *config.Store
	sender *Sender
	logger *slog.Logger

	// 运行期计数，供 /api/v1/status 和定时统计日志读取
	forwarded     atomic.Uint64
	forwardErrors atomic.Uint64
	commands      atomic.Uint64
	unauthorized  atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// Stats Bot 运行期计数快照
type Stats struct {
	Forwarded     uint64 `json:"forwarded"`
	ForwardErrors uint64 `json:"forward_errors"`
	Commands      uint64 `json:"commands"`
	Unauthorized  uint64 `json:"unauthorized"`
}

// NewBot 创建频道转发 Bot
func NewBot(store *config.Store, logger *slog.Logger) (*Bot, error) {
	if store.Token() == "" {
		return nil, ErrTokenRequired
	}
	if store.TargetChannel() == "" {
		return nil, ErrTargetRequired
	}

	api, err := tgbotapi.NewBotAPI(store.Token())
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram bot created",
		"username", api.Self.UserName,
		"admin_id", store.AdminID(),
		"target_channel", store.TargetChannel(),
		"source_channels", len(store.Sources()),
	)

	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		client: api,
		store:  store,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	bot.sender = NewSender(api, logger)

	return bot, nil
}

// Start 启动 Bot，开始接收消息
func (b *Bot) Start() error {
	if b.client == nil {
		return ErrBotNotInitialized
	}

	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-b.ctx.Done():
				b.logger.Info("telegram bot stopped")
				return
			case update := <-updates:
				// 每个事件处理完再取下一个，配置读写由 Store 的锁保护
				b.handleUpdate(update)
			}
		}
	}()

	b.logger.Info("telegram bot started")
	return nil
}

// Stop 停止 Bot
func (b *Bot) Stop() {
	b.logger.Info("stopping telegram bot")
	b.cancel()
	if b.client != nil {
		b.client.StopReceivingUpdates()
	}
}

// handleUpdate 处理一条更新
// 频道消息走转发路径，私聊命令走管理路径，其余忽略
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.ChannelPost != nil:
		b.handleChannelPost(update.ChannelPost)
	case update.Message != nil && update.Message.IsCommand() && update.Message.Chat.IsPrivate():
		b.handleCommand(update.Message)
	}
}

// Snapshot 返回运行期计数快照
func (b *Bot) Snapshot() Stats {
	return Stats{
		Forwarded:     b.forwarded.Load(),
		ForwardErrors: b.forwardErrors.Load(),
		Commands:      b.commands.Load(),
		Unauthorized:  b.unauthorized.Load(),
	}
}
