package pool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"statsboard/internal/pool"
)

// TestPool_Basic 验证任务能正常执行
func TestPool_Basic(t *testing.T) {
	p := pool.New(2)
	var count int32
	numTasks := 20

	for i := 0; i < numTasks; i++ {
		if err := p.Go(context.Background(), func() error {
			atomic.AddInt32(&count, 1)
			return nil
		}); err != nil {
			t.Fatalf("任务 %d 提交失败: %v", i, err)
		}
	}

	if err := p.Wait(); err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if atomic.LoadInt32(&count) != int32(numTasks) {
		t.Errorf("期望执行 %d 个任务, 实际执行 %d", numTasks, count)
	}
	if submit, fail := p.Stats(); submit != int64(numTasks) || fail != 0 {
		t.Errorf("统计错误: submit=%d fail=%d", submit, fail)
	}
}

// TestPool_ConcurrencyLimit 验证并发数限制
func TestPool_ConcurrencyLimit(t *testing.T) {
	size := 3
	p := pool.New(size)

	var active, maxActive int32
	for i := 0; i < 12; i++ {
		_ = p.Go(context.Background(), func() error {
			cur := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&maxActive)
				if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return nil
		})
	}
	_ = p.Wait()

	if got := atomic.LoadInt32(&maxActive); got > int32(size) {
		t.Errorf("最大并发 %d 超过限制 %d", got, size)
	}
}

// TestPool_FirstError 验证返回第一个错误且其余任务仍执行
func TestPool_FirstError(t *testing.T) {
	p := pool.New(1)
	boom := errors.New("boom")
	var ran int32

	_ = p.Go(context.Background(), func() error { atomic.AddInt32(&ran, 1); return boom })
	_ = p.Go(context.Background(), func() error { atomic.AddInt32(&ran, 1); return errors.New("later") })
	_ = p.Go(context.Background(), func() error { atomic.AddInt32(&ran, 1); return nil })

	if err := p.Wait(); !errors.Is(err, boom) {
		t.Errorf("应返回第一个错误，实际 %v", err)
	}
	if atomic.LoadInt32(&ran) != 3 {
		t.Errorf("全部任务都应执行，实际 %d", ran)
	}
	if _, fail := p.Stats(); fail != 2 {
		t.Errorf("失败数错误: %d", fail)
	}
}

// TestPool_ContextCancelled 验证等待名额时取消
func TestPool_ContextCancelled(t *testing.T) {
	p := pool.New(1)
	release := make(chan struct{})
	_ = p.Go(context.Background(), func() error { <-release; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Go(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("应返回 context.Canceled，实际 %v", err)
	}
	close(release)
	_ = p.Wait()
}

// TestPool_Unlimited 验证不限制并发
func TestPool_Unlimited(t *testing.T) {
	p := pool.New(0)
	if p.IsLimited() {
		t.Error("size=0 不应限制并发")
	}
	var count int32
	for i := 0; i < 5; i++ {
		_ = p.Go(context.Background(), func() error { atomic.AddInt32(&count, 1); return nil })
	}
	_ = p.Wait()
	if count != 5 {
		t.Errorf("期望 5，实际 %d", count)
	}
}
