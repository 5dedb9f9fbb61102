package repositories

import (
	"context"
	"sync"

	"shop-admin-gateway/internal/entities"
	apperrors "shop-admin-gateway/pkg/errors"
)

// MemorySessionRecordRepository - запись сессии в памяти,
// для разработки и тестов.
type MemorySessionRecordRepository struct {
	mu      sync.RWMutex
	records map[string]entities.Identity
}

func NewMemorySessionRecordRepository() *MemorySessionRecordRepository {
	return &MemorySessionRecordRepository{records: make(map[string]entities.Identity)}
}

func (r *MemorySessionRecordRepository) Save(_ context.Context, identity entities.Identity) error {
	if identity.Token == "" {
		return apperrors.ErrTokenNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[identity.Token] = identity
	return nil
}

func (r *MemorySessionRecordRepository) Find(_ context.Context, token string) (*entities.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[token]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &record, nil
}

func (r *MemorySessionRecordRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, token)
	return nil
}
