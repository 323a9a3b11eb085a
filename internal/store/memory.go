package store

import (
	"context"
	"sync"
	"time"

	"github.com/neuropy/homehub/backend/internal/model/journal"
)

// MemoryStore 是 JournalStore 的进程内实现，用于测试与离线回放。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]journal.Entry
	order   []string
}

// NewMemoryStore 创建空的内存存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]journal.Entry)}
}

// Save 覆盖写入一条记录，并模拟服务端时间戳。
func (s *MemoryStore) Save(_ context.Context, chatID string, entry journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ChatID = chatID
	entry.Timestamp = time.Now().UTC()
	if _, exists := s.entries[chatID]; !exists {
		s.order = append(s.order, chatID)
	}
	s.entries[chatID] = entry
	return nil
}

// Get 按键读取一条记录。
func (s *MemoryStore) Get(_ context.Context, chatID string) (journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[chatID]
	if !ok {
		return journal.Entry{}, ErrNotFound
	}
	return entry, nil
}

// List 按写入顺序倒序返回最近的记录。
func (s *MemoryStore) List(_ context.Context, limit int) ([]journal.Entry, error) {
	if limit < 1 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]journal.Entry, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.entries[s.order[i]])
	}
	return entries, nil
}

// Len 返回当前记录数。
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
