package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"statsboard/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置校验失败: %v", err)
	}
	if cfg.UI.RedirectDelay != 2*time.Second {
		t.Errorf("重定向延迟预期 2s，实际 %v", cfg.UI.RedirectDelay)
	}
	if cfg.Servers[0] != "Server1" || cfg.Servers[1] != "Server2" {
		t.Errorf("默认服务器标识不符合预期: %v", cfg.Servers)
	}
}

// TestLoad_Overlay 文件中的字段覆盖默认值，未出现的字段保持默认
func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
backend:
  statsURL: https://stats.example.com
  timeout: 5s
log:
  level: warn
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Backend.StatsURL != "https://stats.example.com" {
		t.Errorf("statsURL 未被覆盖: %s", cfg.Backend.StatsURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("timeout 预期 5s，实际 %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.AuthURL != "http://localhost:3001" {
		t.Errorf("authURL 应保持默认，实际 %s", cfg.Backend.AuthURL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("日志级别预期 warn，实际 %s", cfg.Log.Level)
	}
	if len(cfg.Log.Writer) != 2 {
		t.Errorf("日志输出应保持默认，实际 %v", cfg.Log.Writer)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("空路径应返回默认配置: %v", err)
	}
	if cfg.Sqlite.Db != "data.db" {
		t.Errorf("数据库文件名预期 data.db，实际 %s", cfg.Sqlite.Db)
	}
}

func TestLoad_InvalidServers(t *testing.T) {
	path := writeConfig(t, "servers: [A, A]\n")
	if _, err := config.Load(path); err == nil {
		t.Error("重复的服务器标识应返回错误")
	}

	path = writeConfig(t, "servers: [A]\n")
	if _, err := config.Load(path); err == nil {
		t.Error("服务器数量不为 2 时应返回错误")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("文件不存在时应返回错误")
	}
}

func TestLoad_Retention(t *testing.T) {
	if days := config.NewConfig().Activity.RetentionDays; days != 30 {
		t.Errorf("默认保留天数预期 30，实际 %d", days)
	}

	path := writeConfig(t, "activity:\n  retentionDays: -1\n")
	if _, err := config.Load(path); err == nil {
		t.Error("保留天数为负数时应返回错误")
	}
}
