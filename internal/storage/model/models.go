package model

import (
	"time"
)

// SessionEntry 本地会话键值表，作用等同于浏览器端的 localStorage
type SessionEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 预定义的会话 Key
const (
	EntryKeyToken = "token" // 登录后获得的 JWT
	EntryKeyEmail = "email" // 登录账号
)

// ActivityRecord 会话活动记录表
type ActivityRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"index;not null" json:"kind"`
	Email     string    `json:"email"`
	Detail    string    `gorm:"type:text" json:"detail"`
	Timestamp int64     `gorm:"index" json:"timestamp"` // 毫秒
	CreatedAt time.Time `json:"createdAt"`
}

// All 返回需要迁移的全部模型
func All() []any {
	return []any{&SessionEntry{}, &ActivityRecord{}}
}
