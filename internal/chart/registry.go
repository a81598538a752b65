package chart

import (
	"sync"

	"github.com/google/uuid"
)

// Handle 已绘制的图表实例
type Handle struct {
	ID   string
	Slot Slot
	Spec Spec

	mu       sync.RWMutex
	png      []byte
	disposed bool
}

// NewHandle 创建图表实例
func NewHandle(spec Spec, png []byte) *Handle {
	return &Handle{
		ID:   uuid.New().String(),
		Slot: spec.Slot,
		Spec: spec,
		png:  png,
	}
}

// PNG 返回图像数据，已释放时返回 false
func (h *Handle) PNG() ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.disposed {
		return nil, false
	}
	return h.png, true
}

// Dispose 释放实例，可重复调用
func (h *Handle) Dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposed = true
	h.png = nil
}

// Disposed 是否已释放
func (h *Handle) Disposed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.disposed
}

// Registry 图表位置到实例的映射，每个位置最多一个存活实例
type Registry struct {
	mu    sync.RWMutex
	slots map[Slot]*Handle
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{slots: make(map[Slot]*Handle)}
}

// Release 释放并移除位置上的实例
func (r *Registry) Release(slot Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.slots[slot]; ok {
		h.Dispose()
		delete(r.slots, slot)
	}
}

// Bind 绑定新实例，先释放该位置上已有的实例
func (r *Registry) Bind(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.slots[h.Slot]; ok && old != h {
		old.Dispose()
	}
	r.slots[h.Slot] = h
}

// Get 获取位置上的实例
func (r *Registry) Get(slot Slot) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.slots[slot]
	return h, ok
}

// Live 存活实例数量
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, h := range r.slots {
		if !h.Disposed() {
			n++
		}
	}
	return n
}

// Reset 释放全部实例
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot, h := range r.slots {
		h.Dispose()
		delete(r.slots, slot)
	}
}
