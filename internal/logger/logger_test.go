package logger_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"statsboard/internal/logger"

	"github.com/rs/zerolog"
)

func TestZeroLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, zerolog.InfoLevel)

	l.Debug("不应输出")
	l.Info("加载统计", "servers", 2)
	l.Err(errors.New("boom"), "请求失败", "endpoint", "/api/server-stats")

	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Error("debug 日志在 info 级别下不应输出")
	}
	if !strings.Contains(out, `"servers":2`) {
		t.Errorf("缺少字段 servers: %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, `"endpoint":"/api/server-stats"`) {
		t.Errorf("错误日志缺少字段: %s", out)
	}
}

func TestNew_NoWritersIsNop(t *testing.T) {
	l := logger.New(logger.Options{Level: "debug"})
	// 不应 panic
	l.Info("nothing")
	l.Err(errors.New("x"), "nothing")
}

func TestNew_FileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l := logger.New(logger.Options{Level: "info", Writers: []string{"file"}, FilePath: path})
	l.Info("写入文件")
}
