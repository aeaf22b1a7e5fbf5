package flagstore

import (
	"context"
	"sync"
)

// Memory is an in-process flag store. One instance corresponds to one
// device (kiosk) context: a fresh instance starts with no flags set.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemory creates an empty in-memory flag store
func NewMemory() *Memory {
	return &Memory{flags: make(map[string]bool)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[key], nil
}

func (m *Memory) Set(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = true
	return nil
}
