package repo

import (
	"context"
	"errors"
	"time"

	"statsboard/internal/storage/model"
	"statsboard/pkg/domain"

	"gorm.io/gorm"
)

// SessionRepo 本地会话键值仓库
type SessionRepo struct {
	BaseRepository[model.SessionEntry]
}

// NewSessionRepo 创建会话仓库实例
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{
		BaseRepository: *NewBaseRepository[model.SessionEntry](db),
	}
}

func byKey(keys ...string) Filter {
	return FilterFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where("key IN ?", keys)
	})
}

// Get 获取值，不存在时返回 domain.ErrRecordNotFound
func (r *SessionRepo) Get(ctx context.Context, key string) (string, error) {
	entry, err := r.FindOne(ctx, byKey(key))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrRecordNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Set 设置值（存在则更新，不存在则创建）
func (r *SessionRepo) Set(ctx context.Context, key, value string) error {
	return r.Save(ctx, &model.SessionEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

// SetMultiple 在一个事务中写入多个键
func (r *SessionRepo) SetMultiple(ctx context.Context, kvs map[string]string) error {
	return r.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for key, value := range kvs {
			entry := model.SessionEntry{Key: key, Value: value, UpdatedAt: now}
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteKeys 删除指定键，键不存在不视为错误
func (r *SessionRepo) DeleteKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Delete(ctx, byKey(keys...))
}
