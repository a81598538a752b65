package repo

import (
	"context"
	"sync"
	"time"

	"statsboard/internal/logger"
	"statsboard/internal/storage/model"
	"statsboard/pkg/domain"

	"gorm.io/gorm"
)

// ActivityRepo 会话活动仓库，写入先进入缓冲区，由后台协程批量落库
type ActivityRepo struct {
	BaseRepository[model.ActivityRecord]
	log       logger.Logger
	buffer    []*model.ActivityRecord
	bufferMu  sync.Mutex
	batchSize int
	interval  time.Duration
	flushCh   chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewActivityRepo 创建活动仓库实例并启动异步写入协程
func NewActivityRepo(db *gorm.DB, l logger.Logger) *ActivityRepo {
	if l == nil {
		l = logger.NewNop()
	}
	r := &ActivityRepo{
		BaseRepository: *NewBaseRepository[model.ActivityRecord](db),
		log:            l,
		buffer:         make([]*model.ActivityRecord, 0, 32),
		batchSize:      20,
		interval:       3 * time.Second,
		flushCh:        make(chan struct{}, 1),
		stopCh:         make(chan struct{}),
	}
	r.wg.Add(1)
	go r.asyncWriter()
	return r
}

// asyncWriter 异步批量写入协程
func (r *ActivityRepo) asyncWriter() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			// 停止前刷新剩余数据
			r.flush()
			return
		case <-ticker.C:
			r.flush()
		case <-r.flushCh:
			r.flush()
		}
	}
}

// flush 刷新缓冲区到数据库
func (r *ActivityRepo) flush() {
	r.bufferMu.Lock()
	if len(r.buffer) == 0 {
		r.bufferMu.Unlock()
		return
	}
	toWrite := r.buffer
	r.buffer = make([]*model.ActivityRecord, 0, 32)
	r.bufferMu.Unlock()

	if err := r.CreateBatch(context.Background(), toWrite, 100); err != nil {
		r.log.Err(err, "活动记录写入失败", "count", len(toWrite))
	}
}

// Stop 停止异步写入，剩余记录会在返回前落库。可重复调用。
func (r *ActivityRepo) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	r.wg.Wait()
}

// Record 记录一条活动（异步写入数据库）
func (r *ActivityRepo) Record(a domain.Activity) {
	ts := a.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	record := &model.ActivityRecord{
		Kind:      string(a.Kind),
		Email:     a.Email,
		Detail:    a.Detail,
		Timestamp: ts,
		CreatedAt: time.Now(),
	}

	r.bufferMu.Lock()
	r.buffer = append(r.buffer, record)
	needFlush := len(r.buffer) >= r.batchSize
	r.bufferMu.Unlock()

	if needFlush {
		select {
		case r.flushCh <- struct{}{}:
		default:
		}
	}
}

// Recent 按时间倒序返回最近的活动，已落库的记录才可见
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	records, err := r.FindAll(ctx, nil, &Pagination{Page: 1, Limit: limit}, Orders{{Field: "timestamp", Sort: "DESC"}, {Field: "id", Sort: "DESC"}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Activity{
			Kind:      domain.ActivityKind(rec.Kind),
			Email:     rec.Email,
			Detail:    rec.Detail,
			Timestamp: rec.Timestamp,
		})
	}
	return out, nil
}

// Cleanup 删除保留天数之前的记录
func (r *ActivityRepo) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays).UnixMilli()
	result := r.Db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&model.ActivityRecord{})
	return result.RowsAffected, result.Error
}
