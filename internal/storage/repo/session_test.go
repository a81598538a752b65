package repo_test

import (
	"context"
	"errors"
	"testing"

	"statsboard/internal/storage/db"
	"statsboard/internal/storage/model"
	"statsboard/internal/storage/repo"
	"statsboard/pkg/domain"

	"gorm.io/gorm"
)

// setupTestDB 创建迁移完成的内存数据库。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.New(db.Options{Name: db.MemoryName, Prefix: "test_"})
	if err != nil {
		t.Fatalf("创建内存数据库失败: %v", err)
	}
	if err := db.Migrate(gdb, model.All()...); err != nil {
		t.Fatalf("迁移数据库失败: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func TestSessionRepo_SetAndGet(t *testing.T) {
	r := repo.NewSessionRepo(setupTestDB(t))
	ctx := context.Background()

	if err := r.Set(ctx, model.EntryKeyToken, "jwt-1"); err != nil {
		t.Fatalf("设置失败: %v", err)
	}
	// 覆盖写入
	if err := r.Set(ctx, model.EntryKeyToken, "jwt-2"); err != nil {
		t.Fatalf("覆盖失败: %v", err)
	}

	got, err := r.Get(ctx, model.EntryKeyToken)
	if err != nil {
		t.Fatalf("获取失败: %v", err)
	}
	if got != "jwt-2" {
		t.Errorf("预期值为 jwt-2，实际为 %s", got)
	}
}

func TestSessionRepo_GetMissing(t *testing.T) {
	r := repo.NewSessionRepo(setupTestDB(t))

	_, err := r.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("预期 ErrRecordNotFound，实际 %v", err)
	}
}

func TestSessionRepo_SetMultipleAndDelete(t *testing.T) {
	r := repo.NewSessionRepo(setupTestDB(t))
	ctx := context.Background()

	err := r.SetMultiple(ctx, map[string]string{
		model.EntryKeyToken: "jwt",
		model.EntryKeyEmail: "a@b.c",
	})
	if err != nil {
		t.Fatalf("批量设置失败: %v", err)
	}

	if err := r.DeleteKeys(ctx, model.EntryKeyToken); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := r.Get(ctx, model.EntryKeyToken); err == nil {
		t.Error("预期 token 已删除，但仍然能获取到值")
	}
	if email, _ := r.Get(ctx, model.EntryKeyEmail); email != "a@b.c" {
		t.Errorf("email 不应被删除，实际 %q", email)
	}

	// 删除不存在的键不报错
	if err := r.DeleteKeys(ctx, "nope"); err != nil {
		t.Errorf("删除不存在的键不应报错: %v", err)
	}
}
