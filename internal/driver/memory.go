package driver

import (
	"context"
	"sync"
)

type MemoryDriver struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{objects: make(map[string][]byte)}
}

func (d *MemoryDriver) Get(ctx context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (d *MemoryDriver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	d.objects[key] = buf
	return nil
}

func (d *MemoryDriver) Close(ctx context.Context) error {
	return nil
}
