package core

import (
	"sync"
	"sync/atomic"
)

// Handle 保存一个构建一次、只读多次的推荐产物（隐因子模型、文本索引等），
// 并提供安全的整体替换。
//
// 约束：
//   - Rebuild 串行执行（同一时刻只有一次重建）
//   - 只有构建完全成功才替换，读方永远看不到半成品
//   - Load 无锁，可被任意多个请求并发调用
type Handle[T any] struct {
	mu  sync.Mutex
	ptr atomic.Pointer[T]
}

// NewHandle 用一个已构建好的产物初始化 Handle。artifact 可以为 nil，
// 表示尚未构建。
func NewHandle[T any](artifact *T) *Handle[T] {
	h := &Handle[T]{}
	if artifact != nil {
		h.ptr.Store(artifact)
	}
	return h
}

// Load 返回当前产物；尚未构建时返回 nil。
func (h *Handle[T]) Load() *T {
	return h.ptr.Load()
}

// Rebuild 执行一次重建并原子替换。build 返回错误时保留旧产物不变。
func (h *Handle[T]) Rebuild(build func() (*T, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := build()
	if err != nil {
		return err
	}
	h.ptr.Store(next)
	return nil
}
