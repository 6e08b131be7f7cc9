// Package config 提供配置存储功能
// 配置以单个 JSON 文件形式保存，管理命令的每次变更都会同步写回磁盘
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultPath 默认配置文件路径（与入口程序同目录）
const DefaultPath = "config.json"

// ChannelID 频道标识
// Telegram 的频道既可以用数字 ID（如 -1001234567890）也可以用 @username 表示，
// JSON 中两种写法都允许，内部统一存为字符串
type ChannelID string

// UnmarshalJSON 同时接受 JSON 字符串和数字
func (c *ChannelID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ChannelID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("channel id must be a string or a number, got %s", string(data))
	}
	*c = ChannelID(n.String())
	return nil
}

// Numeric 尝试把频道标识解析为数字 chat ID
func (c ChannelID) Numeric() (int64, bool) {
	id, err := strconv.ParseInt(string(c), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// String 实现 fmt.Stringer
func (c ChannelID) String() string {
	return string(c)
}

// BotConfig Bot 配置
// 字段与磁盘上的 config.json 一一对应
type BotConfig struct {
	// Token Telegram Bot Token
	Token string `json:"token"`

	// AdminID 唯一管理员的用户 ID
	AdminID int64 `json:"admin_id"`

	// TargetChannel 转发目标频道
	TargetChannel ChannelID `json:"target_channel"`

	// SourceChannels 被监听的来源频道列表
	SourceChannels []ChannelID `json:"source_channels"`
}

// Validate 验证必需字段
func (c *BotConfig) Validate() error {
	var missing []string

	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.AdminID == 0 {
		missing = append(missing, "admin_id")
	}
	if c.TargetChannel == "" {
		missing = append(missing, "target_channel")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// DefaultConfig 返回默认配置（relay init 写入的模板）
func DefaultConfig() *BotConfig {
	return &BotConfig{
		Token:          "YOUR_BOT_TOKEN",
		AdminID:        123456789,
		TargetChannel:  "@your_target_channel",
		SourceChannels: []ChannelID{},
	}
}

// Store 配置存储
// 内存中的配置与磁盘文件保持同步：每次变更都在持有锁的情况下写回
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *BotConfig
}

// Load 从 JSON 文件加载配置
// 文件缺失、JSON 非法、必需字段缺失都会返回错误，进程不应继续启动
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `relay init` to create one)", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &BotConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SourceChannels == nil {
		cfg.SourceChannels = []ChannelID{}
	}

	return &Store{path: path, cfg: cfg}, nil
}

// WriteDefault 写入默认配置文件
// 仅供 relay init 使用，已存在的文件不会被覆盖
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	}
	return writeFile(path, DefaultConfig())
}

// Save 把当前配置序列化写回原路径
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeFile(s.path, s.cfg)
}

// writeFile 原子写入：先写临时文件再 rename，崩溃不会留下半截文件
func writeFile(path string, cfg *BotConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Token 获取 Bot Token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Token
}

// AdminID 获取管理员用户 ID
func (s *Store) AdminID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.AdminID
}

// TargetChannel 获取目标频道
func (s *Store) TargetChannel() ChannelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.TargetChannel
}

// Sources 返回来源频道列表的副本
func (s *Store) Sources() []ChannelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChannelID, len(s.cfg.SourceChannels))
	copy(out, s.cfg.SourceChannels)
	return out
}

// HasSource 判断频道是否在来源列表中
func (s *Store) HasSource(id ChannelID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// AddSource 把频道加入来源列表并持久化
// 已存在时返回 false 且不落盘，列表中不会出现重复项
func (s *Store) AddSource(id ChannelID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return false, nil
	}

	s.cfg.SourceChannels = append(s.cfg.SourceChannels, id)
	if err := writeFile(s.path, s.cfg); err != nil {
		// 落盘失败时回滚内存状态，保持内存与磁盘一致
		s.cfg.SourceChannels = s.cfg.SourceChannels[:len(s.cfg.SourceChannels)-1]
		return false, err
	}
	return true, nil
}

// RemoveSource 把频道从来源列表移除并持久化
// 不存在时返回 false 且不落盘
func (s *Store) RemoveSource(id ChannelID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	removed := s.cfg.SourceChannels[idx]
	s.cfg.SourceChannels = append(s.cfg.SourceChannels[:idx], s.cfg.SourceChannels[idx+1:]...)
	if err := writeFile(s.path, s.cfg); err != nil {
		s.cfg.SourceChannels = append(s.cfg.SourceChannels[:idx], append([]ChannelID{removed}, s.cfg.SourceChannels[idx:]...)...)
		return false, err
	}
	return true, nil
}

// indexOf 返回频道在列表中的下标，调用方必须持有锁
func (s *Store) indexOf(id ChannelID) int {
	for i, c := range s.cfg.SourceChannels {
		if c == id {
			return i
		}
	}
	return -1
}

// Path 返回配置文件路径
func (s *Store) Path() string {
	return s.path
}

// Snapshot 返回当前配置的深拷贝（供状态接口只读展示）
func (s *Store) Snapshot() BotConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := *s.cfg
	out.SourceChannels = make([]ChannelID, len(s.cfg.SourceChannels))
	copy(out.SourceChannels, s.cfg.SourceChannels)
	return out
}
