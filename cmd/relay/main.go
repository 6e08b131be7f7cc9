// Package main 是 ChannelRelay 的 CLI 入口
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KodaTao/ChannelRelay/pkg/app"
	"github.com/KodaTao/ChannelRelay/pkg/config"
	"github.com/KodaTao/ChannelRelay/pkg/observability"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "ChannelRelay - Telegram channel forwarding bot",
		Long: `ChannelRelay listens for posts in a configurable set of source channels
and forwards them verbatim to a single target channel. One designated
administrator manages the source-channel list via private commands.`,
	}

	// 全局 flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "bot config file (default is ./config.json)")

	// 添加子命令
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCmd 启动 Bot
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the forwarding bot",
		Long:  `Load config.json, connect to Telegram and run until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 加载运行配置
			opsConfig, err := loadOpsConfig()
			if err != nil {
				return fmt.Errorf("failed to load runtime config: %w", err)
			}

			// 命令行参数覆盖配置
			if cfgFile != "" {
				opsConfig.ConfigPath = cfgFile
			}

			// 创建应用
			application := app.New(
				app.WithConfigPath(opsConfig.ConfigPath),
				app.WithLogLevel(opsConfig.Log.Level),
				app.WithServer(opsConfig.Server),
				app.WithStats(opsConfig.Stats),
			)

			// 初始化
			if err := application.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			// 启动
			if err := application.Run(); err != nil {
				return err
			}

			// 等待退出信号
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			observability.Info("Received shutdown signal")
			application.Shutdown()
			return nil
		},
	}
}

// initCmd 生成默认配置文件
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.json",
		Long:  `Create a config.json template in the current directory. Existing files are never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}

			fmt.Printf("Wrote default config to %s\n", path)
			fmt.Println("Fill in token, admin_id and target_channel before running `relay run`.")
			return nil
		},
	}
}

// versionCmd 显示版本信息
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ChannelRelay v0.1.0")
		},
	}
}

// loadOpsConfig 加载运维配置
// 默认值 + 可选的 relay.yaml + RELAY_* 环境变量，Bot 自身的状态始终在 config.json
func loadOpsConfig() (*app.Config, error) {
	v := viper.New()

	// 设置默认值
	v.SetDefault("config_path", config.DefaultPath)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.schedule", "@hourly")

	// 配置文件
	v.SetConfigName("relay")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.channelrelay")

	// 环境变量
	v.SetEnvPrefix("RELAY")
	v.AutomaticEnv()

	// 读取配置文件（如果存在）
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// 配置文件不存在时使用默认值
	}

	// 解析配置
	cfg := &app.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
