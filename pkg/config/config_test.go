package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig 写入一份测试配置文件并返回路径
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "valid config",
			content: `{"token":"abc","admin_id":42,"target_channel":"@target","source_channels":["@a","-100123"]}`,
			wantErr: nil,
		},
		{
			name:    "numeric channel ids",
			content: `{"token":"abc","admin_id":42,"target_channel":-100999,"source_channels":[-100123,"@b"]}`,
			wantErr: nil,
		},
		{
			name:    "empty source list",
			content: `{"token":"abc","admin_id":42,"target_channel":"@target","source_channels":[]}`,
			wantErr: nil,
		},
		{
			name:    "not valid json",
			content: `{token: abc`,
			wantErr: ErrMalformed,
		},
		{
			name:    "missing token",
			content: `{"admin_id":42,"target_channel":"@target","source_channels":[]}`,
			wantErr: ErrIncomplete,
		},
		{
			name:    "missing admin id",
			content: `{"token":"abc","target_channel":"@target","source_channels":[]}`,
			wantErr: ErrIncomplete,
		},
		{
			name:    "missing target channel",
			content: `{"token":"abc","admin_id":42,"source_channels":[]}`,
			wantErr: ErrIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.content)

			store, err := Load(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if store.Token() != "abc" {
				t.Errorf("Token() = %q, want %q", store.Token(), "abc")
			}
			if store.AdminID() != 42 {
				t.Errorf("AdminID() = %d, want 42", store.AdminID())
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want %v", err, ErrNotFound)
	}
}

func TestLoad_NumericTargetChannel(t *testing.T) {
	path := writeTestConfig(t, `{"token":"abc","admin_id":42,"target_channel":-100999,"source_channels":[]}`)

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if store.TargetChannel() != "-100999" {
		t.Errorf("TargetChannel() = %q, want %q", store.TargetChannel(), "-100999")
	}
	id, ok := store.TargetChannel().Numeric()
	if !ok || id != -100999 {
		t.Errorf("Numeric() = (%d, %v), want (-100999, true)", id, ok)
	}
}

func TestChannelID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ChannelID
		wantErr bool
	}{
		{name: "string", input: `"@channel"`, want: "@channel"},
		{name: "negative number", input: `-1001234567890`, want: "-1001234567890"},
		{name: "positive number", input: `123`, want: "123"},
		{name: "object", input: `{}`, wantErr: true},
		{name: "array", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ChannelID
			err := json.Unmarshal([]byte(tt.input), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c != tt.want {
				t.Errorf("UnmarshalJSON() = %q, want %q", c, tt.want)
			}
		})
	}
}

func TestStore_AddSource(t *testing.T) {
	path := writeTestConfig(t, `{"token":"abc","admin_id":42,"target_channel":"@target","source_channels":[]}`)
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	// 首次添加
	added, err := store.AddSource("-100123")
	if err != nil {
		t.Fatalf("AddSource() unexpected error: %v", err)
	}
	if !added {
		t.Error("AddSource() = false, want true for a new channel")
	}
	if got := store.Sources(); len(got) != 1 || got[0] != "-100123" {
		t.Errorf("Sources() = %v, want [-100123]", got)
	}

	// 重复添加不产生重复项、不报错
	added, err = store.AddSource("-100123")
	if err != nil {
		t.Fatalf("AddSource() unexpected error: %v", err)
	}
	if added {
		t.Error("AddSource() = true, want false for a duplicate channel")
	}
	if got := store.Sources(); len(got) != 1 {
		t.Errorf("Sources() has %d entries after duplicate add, want 1", len(got))
	}

	// 变更已同步落盘
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after save unexpected error: %v", err)
	}
	if got := reloaded.Sources(); len(got) != 1 || got[0] != "-100123" {
		t.Errorf("persisted Sources() = %v, want [-100123]", got)
	}
}

func TestStore_RemoveSource(t *testing.T) {
	path := writeTestConfig(t, `{"token":"abc","admin_id":42,"target_channel":"@target","source_channels":["@a","-100123","@b"]}`)
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	// 移除存在的频道
	removed, err := store.RemoveSource("-100123")
	if err != nil {
		t.Fatalf("RemoveSource() unexpected error: %v", err)
	}
	if !removed {
		t.Error("RemoveSource() = false, want true for a present channel")
	}
	if store.HasSource("-100123") {
		t.Error("HasSource() = true after removal, want false")
	}
	if got := store.Sources(); len(got) != 2 || got[0] != "@a" || got[1] != "@b" {
		t.Errorf("Sources() = %v, want [@a @b]", got)
	}

	// 移除不存在的频道：列表不变
	removed, err = store.RemoveSource("@missing")
	if err != nil {
		t.Fatalf("RemoveSource() unexpected error: %v", err)
	}
	if removed {
		t.Error("RemoveSource() = true, want false for an absent channel")
	}
	if got := store.Sources(); len(got) != 2 {
		t.Errorf("Sources() has %d entries after no-op remove, want 2", len(got))
	}

	// 变更已同步落盘
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after save unexpected error: %v", err)
	}
	if got := reloaded.Sources(); len(got) != 2 {
		t.Errorf("persisted Sources() = %v, want 2 entries", got)
	}
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := writeTestConfig(t, `{"token":"abc","admin_id":42,"target_channel":-100999,"source_channels":[-100123]}`)
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	// 数字形式的频道 ID 写回后以字符串保存，重新加载语义不变
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after save unexpected error: %v", err)
	}
	if reloaded.TargetChannel() != "-100999" {
		t.Errorf("TargetChannel() = %q, want %q", reloaded.TargetChannel(), "-100999")
	}
	if got := reloaded.Sources(); len(got) != 1 || got[0] != "-100123" {
		t.Errorf("Sources() = %v, want [-100123]", got)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() unexpected error: %v", err)
	}

	// 模板本身必须是合法 JSON 且包含全部字段
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read written config: %v", err)
	}
	cfg := &BotConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		t.Fatalf("Default config is not valid JSON: %v", err)
	}
	if cfg.Token == "" || cfg.AdminID == 0 || cfg.TargetChannel == "" {
		t.Errorf("Default config is missing placeholder values: %+v", cfg)
	}
	if cfg.SourceChannels == nil {
		t.Error("Default config should contain an empty source_channels array")
	}

	// 不覆盖已有文件
	if err := WriteDefault(path); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("WriteDefault() on existing file error = %v, want %v", err, ErrAlreadyExists)
	}
}
