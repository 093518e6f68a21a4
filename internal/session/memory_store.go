package session

import (
	"context"
	"sync"

	"github.com/MilchZocker/UCC-DreamPacket/internal/models"
)

// MemoryStore keeps sessions in a process-local map. Used by tests and the
// "memory" backend; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, clientKey string) (models.Session, error) {
	m.mu.RLock()
	record, ok := m.records[clientKey]
	m.mu.RUnlock()
	if !ok {
		return models.DefaultSession(), nil
	}
	return models.DecodeRecord(record), nil
}

func (m *MemoryStore) Put(_ context.Context, clientKey string, s models.Session) error {
	m.mu.Lock()
	m.records[clientKey] = s.EncodeRecord()
	m.mu.Unlock()
	return nil
}
