package domain

import "errors"

// 会话相关错误
var (
	ErrNoToken      = errors.New("no stored token")
	ErrTokenInvalid = errors.New("token rejected")
)

// 数据相关错误
var (
	ErrStatsUnavailable = errors.New("statistics unavailable")
	ErrChartNotFound    = errors.New("chart not found")
)

// 连接相关错误
var (
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrInvalidResponse    = errors.New("invalid backend response")
)

// 表单相关错误
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRejected     = errors.New("request rejected")
)

// 数据库相关错误
var (
	ErrDatabaseNotInitialized = errors.New("database not initialized")
	ErrRecordNotFound         = errors.New("record not found")
)
