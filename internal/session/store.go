package session

import (
	"context"
	"errors"
	"sync"

	"statsboard/internal/storage/model"
	"statsboard/internal/storage/repo"
	"statsboard/pkg/domain"
)

// Store 本地会话存储接口
type Store interface {
	// Get 读取键值，不存在时返回 ok=false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set 写入键值
	Set(ctx context.Context, key, value string) error
	// Clear 删除键，键不存在不视为错误
	Clear(ctx context.Context, keys ...string) error
}

// RepoStore 基于 sqlite 会话仓库的存储
type RepoStore struct {
	repo *repo.SessionRepo
}

// NewRepoStore 创建持久化存储
func NewRepoStore(r *repo.SessionRepo) *RepoStore {
	return &RepoStore{repo: r}
}

func (s *RepoStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RepoStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}

func (s *RepoStore) Clear(ctx context.Context, keys ...string) error {
	return s.repo.DeleteKeys(ctx, keys...)
}

// MemoryStore 内存存储，用于测试和无持久化运行
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// 编译期检查
var (
	_ Store = (*RepoStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// 存储中使用的键
const (
	KeyToken = model.EntryKeyToken
	KeyEmail = model.EntryKeyEmail
)
