// Package app 提供应用装配
package app

import "github.com/KodaTao/ChannelRelay/pkg/config"

// Config 应用运行配置
// 与 config.json（Bot 的可变状态）分开：这里只放运维相关的设置，
// 全部有默认值，可被 relay.yaml 或 RELAY_* 环境变量覆盖
type Config struct {
	// ConfigPath Bot 配置文件路径
	ConfigPath string `mapstructure:"config_path"`

	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Stats  StatsConfig  `mapstructure:"stats"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format 日志格式：text, json
	Format string `mapstructure:"format"`

	// Output 输出目标：stdout, file
	Output string `mapstructure:"output"`

	// FilePath 日志文件路径（当 Output 为 file 时生效）
	FilePath string `mapstructure:"file_path"`
}

// ServerConfig 运维 HTTP 服务器配置
type ServerConfig struct {
	// Enabled 是否启用，默认关闭
	Enabled bool `mapstructure:"enabled"`

	// Host 监听地址
	Host string `mapstructure:"host"`

	// Port 监听端口
	Port int `mapstructure:"port"`

	// Mode 运行模式：debug, release, test
	Mode string `mapstructure:"mode"`
}

// StatsConfig 定时统计日志配置
type StatsConfig struct {
	// Enabled 是否启用
	Enabled bool `mapstructure:"enabled"`

	// Schedule cron 表达式，默认每小时一次
	Schedule string `mapstructure:"schedule"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: config.DefaultPath,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Server: ServerConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    8080,
			Mode:    "release",
		},
		Stats: StatsConfig{
			Enabled:  true,
			Schedule: "@hourly",
		},
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithConfigPath 设置 Bot 配置文件路径
func WithConfigPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.ConfigPath = path
		}
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level string) Option {
	return func(c *Config) {
		if level != "" {
			c.Log.Level = level
		}
	}
}

// WithServer 设置运维服务器配置
func WithServer(cfg ServerConfig) Option {
	return func(c *Config) {
		c.Server = cfg
	}
}

// WithStats 设置统计日志配置
func WithStats(cfg StatsConfig) Option {
	return func(c *Config) {
		c.Stats = cfg
	}
}
