package kv

import "sync"

// Memory is an in-memory Blob implementation. It is used by tests and by
// the server's memory storage mode; contents do not survive a restart.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, true, nil
}

// Put stores a copy of value under key.
func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	m.blobs[key] = valueCopy
	return nil
}
