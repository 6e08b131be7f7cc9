package app

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/KodaTao/ChannelRelay/pkg/config"
	"github.com/KodaTao/ChannelRelay/pkg/observability"
	"github.com/KodaTao/ChannelRelay/pkg/relay"
	"github.com/KodaTao/ChannelRelay/pkg/server"
)

// App 应用实例
// 这是整个程序的装配入口
type App struct {
	config *Config
	store  *config.Store
	bot    *relay.Bot
	server *server.Server
	cron   *cron.Cron
}

// New 创建新的 App 实例
func New(opts ...Option) *App {
	// 应用默认配置
	cfg := DefaultConfig()

	// 应用选项
	for _, opt := range opts {
		opt(cfg)
	}

	return &App{
		config: cfg,
	}
}

// Initialize 初始化应用
// 包括：日志、配置存储、Bot、运维服务器、统计任务
func (a *App) Initialize() error {
	// 1. 初始化日志
	if err := observability.InitLogger(observability.LogConfig{
		Level:    a.config.Log.Level,
		Format:   a.config.Log.Format,
		Output:   a.config.Log.Output,
		FilePath: a.config.Log.FilePath,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	observability.Info("Initializing ChannelRelay",
		"config_path", a.config.ConfigPath,
	)

	// 2. 加载 Bot 配置
	store, err := config.Load(a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.store = store

	observability.Info("Config loaded",
		"path", store.Path(),
		"source_channels", len(store.Sources()),
	)

	// 3. 创建 Bot
	bot, err := relay.NewBot(store, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	a.bot = bot

	// 4. 运维 HTTP 服务器（可选）
	if a.config.Server.Enabled {
		a.server = server.NewServer(store, bot.Snapshot, &server.ServerConfig{
			Host: a.config.Server.Host,
			Port: a.config.Server.Port,
			Mode: a.config.Server.Mode,
		})
	}

	// 5. 定时统计日志（可选）
	if a.config.Stats.Enabled {
		a.cron = cron.New()
		if _, err := a.cron.AddFunc(a.config.Stats.Schedule, a.logStats); err != nil {
			return fmt.Errorf("failed to schedule stats reporter: %w", err)
		}
	}

	observability.Info("ChannelRelay initialized")
	return nil
}

// Run 启动应用，阻塞直到 Bot 的事件循环退出
func (a *App) Run() error {
	if err := a.bot.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	if a.cron != nil {
		a.cron.Start()
		observability.Info("Stats reporter started", "schedule", a.config.Stats.Schedule)
	}

	if a.server != nil {
		go func() {
			if err := a.server.Run(); err != nil {
				observability.Error("Ops server exited", "error", err)
			}
		}()
	}

	return nil
}

// Shutdown 关闭应用
func (a *App) Shutdown() {
	observability.Info("Shutting down ChannelRelay")

	if a.cron != nil {
		ctx := a.cron.Stop()
		<-ctx.Done()
	}

	if a.bot != nil {
		a.bot.Stop()
	}
}

// GetStore 获取配置存储（用于测试）
func (a *App) GetStore() *config.Store {
	return a.store
}

// GetConfig 获取应用配置
func (a *App) GetConfig() *Config {
	return a.config
}

// logStats 输出一次计数快照
func (a *App) logStats() {
	s := a.bot.Snapshot()
	observability.Info("Relay stats",
		"forwarded", s.Forwarded,
		"forward_errors", s.ForwardErrors,
		"commands", s.Commands,
		"unauthorized", s.Unauthorized,
	)
}
