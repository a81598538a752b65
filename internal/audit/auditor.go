package audit

import (
	"sync/atomic"
	"time"

	"statsboard/internal/logger"
	"statsboard/pkg/domain"
)

// Sink 活动持久化接口
type Sink interface {
	Record(a domain.Activity)
}

// Auditor 会话活动记录者，负责持久化并分发给实时观察者
type Auditor struct {
	enabled atomic.Bool
	sink    Sink
	events  chan domain.Activity
	log     logger.Logger
}

// New 创建记录者，sink 与 events 均可为空
func New(sink Sink, events chan domain.Activity, l logger.Logger) *Auditor {
	if l == nil {
		l = logger.NewNop()
	}
	a := &Auditor{
		sink:   sink,
		events: events,
		log:    l,
	}
	a.enabled.Store(true)
	return a
}

// SetEnabled 设置是否启用记录
func (a *Auditor) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}

// Track 记录一条会话活动
func (a *Auditor) Track(kind domain.ActivityKind, email, detail string) {
	if a == nil || !a.enabled.Load() {
		return
	}

	act := domain.Activity{
		Kind:      kind,
		Email:     email,
		Detail:    detail,
		Timestamp: time.Now().UnixMilli(),
	}
	a.log.Debug("[Auditor] 记录活动", "kind", kind, "email", email)

	if a.sink != nil {
		a.sink.Record(act)
	}
	a.dispatch(act)
}

// dispatch 分发到实时观察通道，通道满时丢弃
func (a *Auditor) dispatch(act domain.Activity) {
	if a.events == nil {
		return
	}

	select {
	case a.events <- act:
	default:
		a.log.Warn("[Auditor] 活动分发通道已满，丢弃", "kind", act.Kind)
	}
}
