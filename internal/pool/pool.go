package pool

import (
	"context"
	"sync"

	"statsboard/internal/logger"
)

// Pool 固定并发度的任务组：Go 在活跃任务达到上限时阻塞，Wait 等待全部任务结束。
// 一个 Pool 对应一批任务，Wait 返回后不应再提交。
type Pool struct {
	sem chan struct{} // 信号量通道，容量即为最大并发数
	wg  sync.WaitGroup
	log logger.Logger

	mu          sync.Mutex
	firstErr    error
	totalSubmit int64
	totalFail   int64
}

// New 创建任务组，size <= 0 时不限制并发
func New(size int) *Pool {
	p := &Pool{log: logger.NewNop()}
	if size > 0 {
		p.sem = make(chan struct{}, size)
	}
	return p
}

// SetLogger 设置日志记录器
func (p *Pool) SetLogger(l logger.Logger) {
	if l != nil {
		p.log = l
	}
}

// Go 提交任务，等待并发名额时 ctx 取消则不再执行并返回 ctx.Err()
func (p *Pool) Go(ctx context.Context, fn func() error) error {
	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	p.totalSubmit++
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.sem != nil {
			defer func() { <-p.sem }()
		}
		if err := fn(); err != nil {
			p.mu.Lock()
			p.totalFail++
			if p.firstErr == nil {
				p.firstErr = err
			}
			p.mu.Unlock()
		}
	}()
	return nil
}

// Wait 等待全部任务结束，返回第一个失败任务的错误
func (p *Pool) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.totalFail > 0 {
		p.log.Debug("任务组完成", "totalSubmit", p.totalSubmit, "totalFail", p.totalFail)
	}
	return p.firstErr
}

// Stats 返回累计提交与失败数量
func (p *Pool) Stats() (totalSubmit, totalFail int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalSubmit, p.totalFail
}

// IsLimited 是否限制了并发数
func (p *Pool) IsLimited() bool {
	return p.sem != nil
}
