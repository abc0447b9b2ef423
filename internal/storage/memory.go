package storage

import (
	"context"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps videos in process memory. Development and tests only.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

var _ VideoStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return "", ErrObjectExists
	}
	m.objects[key] = memoryObject{data: buf, contentType: contentType}

	return "memory://" + key, nil
}

// Get returns a copy of the stored object.
func (m *MemoryStore) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrObjectNotFound
	}

	buf := make([]byte, len(obj.data))
	copy(buf, obj.data)
	return buf, obj.contentType, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
