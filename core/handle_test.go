package core

import (
	"errors"
	"sync"
	"testing"
)

type artifact struct {
	version int
}

func TestHandle_LoadAndRebuild(t *testing.T) {
	h := NewHandle(&artifact{version: 1})
	if got := h.Load(); got == nil || got.version != 1 {
		t.Fatalf("Load = %+v, want version 1", got)
	}

	if err := h.Rebuild(func() (*artifact, error) {
		return &artifact{version: 2}, nil
	}); err != nil {
		t.Fatal(err)
	}
	if got := h.Load(); got.version != 2 {
		t.Errorf("Load after rebuild = %d, want 2", got.version)
	}
}

// 重建失败时保留旧产物。
func TestHandle_RebuildFailureKeepsOld(t *testing.T) {
	h := NewHandle(&artifact{version: 1})

	err := h.Rebuild(func() (*artifact, error) {
		return nil, errors.New("build failed")
	})
	if err == nil {
		t.Fatal("Rebuild expected error, got nil")
	}
	if got := h.Load(); got == nil || got.version != 1 {
		t.Errorf("Load after failed rebuild = %+v, want version 1", got)
	}
}

func TestHandle_NilStart(t *testing.T) {
	h := NewHandle[artifact](nil)
	if got := h.Load(); got != nil {
		t.Errorf("Load on empty handle = %+v, want nil", got)
	}
}

// 并发读 + 串行重建：任何时刻 Load 到的都是完整版本。
func TestHandle_ConcurrentAccess(t *testing.T) {
	h := NewHandle(&artifact{version: 0})

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		version := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = h.Rebuild(func() (*artifact, error) {
				return &artifact{version: version}, nil
			})
		}()
		go func() {
			defer wg.Done()
			if got := h.Load(); got == nil {
				t.Error("Load returned nil during rebuilds")
			}
		}()
	}
	wg.Wait()

	if got := h.Load(); got == nil {
		t.Error("Load returned nil after all rebuilds")
	}
}
