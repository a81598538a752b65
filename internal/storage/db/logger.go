package db

import (
	"context"
	"errors"
	"time"

	"statsboard/internal/logger"

	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

// Logger 把 GORM 日志转发到项目统一日志系统
type Logger struct {
	internalLogger logger.Logger
	LogLevel       glog.LogLevel
	// SlowThreshold 慢查询阈值，零值表示不检测
	SlowThreshold time.Duration
}

// NewLogger 创建新的 Logger 实例
func NewLogger(l logger.Logger) *Logger {
	return &Logger{
		internalLogger: l,
		LogLevel:       glog.Warn,
		SlowThreshold:  200 * time.Millisecond,
	}
}

// LogMode 实现 logger.Interface 接口
func (l *Logger) LogMode(level glog.LogLevel) glog.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= glog.Info {
		l.internalLogger.Info(msg, data...)
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= glog.Warn {
		l.internalLogger.Warn(msg, data...)
	}
}

func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= glog.Error {
		l.internalLogger.Error(msg, data...)
	}
}

// Trace 记录 SQL 执行详情。未找到记录是会话存储的正常情况（例如尚未登录），不按错误处理。
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= glog.Silent {
		return
	}

	elapsed := time.Since(begin)
	notFound := errors.Is(err, gorm.ErrRecordNotFound)

	switch {
	case err != nil && !notFound && l.LogLevel >= glog.Error:
		sql, rows := fc()
		l.internalLogger.Err(err, "SQL执行错误", "sql", sql, "rows", rows, "timeMs", elapsed.Milliseconds())
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= glog.Warn:
		sql, rows := fc()
		l.internalLogger.Warn("慢SQL查询", "sql", sql, "rows", rows, "timeMs", elapsed.Milliseconds(), "threshold", l.SlowThreshold.String())
	case l.LogLevel >= glog.Info:
		sql, rows := fc()
		l.internalLogger.Debug("SQL执行", "sql", sql, "rows", rows, "notFound", notFound)
	}
}
