package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 配置文件结构体
type Config struct {
	Version string `yaml:"version"`
	Sqlite  struct {
		Db     string `yaml:"db"`
		Prefix string `yaml:"prefix"`
	} `yaml:"sqlite"`
	Log struct {
		Level  string   `yaml:"level"`
		Writer []string `yaml:"writer"`
	} `yaml:"log"`
	Backend struct {
		AuthURL  string        `yaml:"authURL"`
		StatsURL string        `yaml:"statsURL"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	// Servers 统计文档中两台服务器的标识，顺序决定图表中的系列顺序
	Servers []string `yaml:"servers"`
	UI      struct {
		RedirectDelay time.Duration `yaml:"redirectDelay"`
	} `yaml:"ui"`
	Chart struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"chart"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Activity struct {
		// RetentionDays 启动时清理早于该天数的活动记录，0 表示不清理
		RetentionDays int `yaml:"retentionDays"`
	} `yaml:"activity"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	cfg := &Config{Version: "1.0.0"}
	cfg.Sqlite.Db = "data.db"
	cfg.Sqlite.Prefix = "statsboard_"
	cfg.Log.Level = "debug"
	// file需要在console之前，因为打包后浏览器控制台日志无法写入会影响文件日志
	cfg.Log.Writer = []string{"file", "console"}
	cfg.Backend.AuthURL = "http://localhost:3001"
	cfg.Backend.StatsURL = "http://localhost:3001"
	cfg.Backend.Timeout = 15 * time.Second
	cfg.Servers = []string{"Server1", "Server2"}
	cfg.UI.RedirectDelay = 2 * time.Second
	cfg.Chart.Width = 640
	cfg.Chart.Height = 400
	cfg.HTTP.Addr = "127.0.0.1:34115"
	cfg.Activity.RetentionDays = 30
	return cfg
}

// Load 读取 YAML 配置文件并覆盖默认值，文件中未出现的字段保持默认
func Load(filename string) (*Config, error) {
	cfg := NewConfig()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Servers) != 2 {
		return fmt.Errorf("servers: expected exactly 2 entries, got %d", len(c.Servers))
	}
	if c.Servers[0] == c.Servers[1] {
		return fmt.Errorf("servers: duplicate key %q", c.Servers[0])
	}
	if c.Backend.AuthURL == "" || c.Backend.StatsURL == "" {
		return fmt.Errorf("backend: authURL and statsURL are required")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart: width and height must be positive")
	}
	if c.Activity.RetentionDays < 0 {
		return fmt.Errorf("activity: retentionDays must not be negative")
	}
	if c.UI.RedirectDelay < 0 {
		return fmt.Errorf("ui: redirectDelay must not be negative")
	}
	return nil
}
