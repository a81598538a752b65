// Package nav 负责视图跳转与延迟调度。
package nav

import (
	"sync"
	"time"

	"statsboard/pkg/domain"
)

// Navigator 将路由通知给前端
type Navigator interface {
	Navigate(route domain.Route)
}

// NavigatorFunc 函数适配
type NavigatorFunc func(route domain.Route)

func (f NavigatorFunc) Navigate(route domain.Route) { f(route) }

// Scheduler 延迟执行任务，已调度的任务不会被取消
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler 基于 time.AfterFunc 的调度器
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	if d <= 0 {
		go fn()
		return
	}
	time.AfterFunc(d, fn)
}

// Redirect 在 delay 之后跳转到 route
func Redirect(s Scheduler, n Navigator, delay time.Duration, route domain.Route) {
	s.After(delay, func() { n.Navigate(route) })
}

// Recorder 记录跳转历史，并保存当前路由
type Recorder struct {
	mu      sync.Mutex
	current domain.Route
	history []domain.Route
	next    Navigator
}

// NewRecorder 创建记录器，next 可为空
func NewRecorder(next Navigator) *Recorder {
	return &Recorder{current: domain.RouteLogin, next: next}
}

func (r *Recorder) Navigate(route domain.Route) {
	r.mu.Lock()
	r.current = route
	r.history = append(r.history, route)
	next := r.next
	r.mu.Unlock()

	if next != nil {
		next.Navigate(route)
	}
}

// Current 当前路由
func (r *Recorder) Current() domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History 跳转历史副本
func (r *Recorder) History() []domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Route, len(r.history))
	copy(out, r.history)
	return out
}

// ManualScheduler 手动触发的调度器，用于测试
type ManualScheduler struct {
	mu      sync.Mutex
	pending []Pending
}

// Pending 待执行任务
type Pending struct {
	Delay time.Duration
	fn    func()
}

func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, Pending{Delay: d, fn: fn})
}

// Pending 当前待执行任务
func (m *ManualScheduler) Pending() []Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Pending, len(m.pending))
	copy(out, m.pending)
	return out
}

// Fire 执行全部待执行任务并返回执行数量
func (m *ManualScheduler) Fire() int {
	m.mu.Lock()
	tasks := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, p := range tasks {
		p.fn()
	}
	return len(tasks)
}
