package cache

import (
	"context"
	"time"
)

// MockDedupe provides an in-memory implementation for tests and for runs
// where Redis is not available.
type MockDedupe struct {
	data   map[string]bool
	prefix string
}

func NewMockDedupe(prefix string) *MockDedupe {
	return &MockDedupe{
		data:   make(map[string]bool),
		prefix: prefix,
	}
}

func (m *MockDedupe) Close() error {
	return nil
}

func (m *MockDedupe) SeenText(ctx context.Context, hash string) (bool, error) {
	return m.data[m.prefix+hash], nil
}

func (m *MockDedupe) MarkText(ctx context.Context, hash string, ttl time.Duration) error {
	m.data[m.prefix+hash] = true
	return nil
}
