package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	errx "github.com/kira-carbon/server/internal/core/errx"
)

// Memory is an in-process Store for tests and for running the service
// without Redis (STORE_DRIVER=memory). Documents are stored as marshalled
// JSON so reads see the same representation the Redis driver returns.
type Memory struct {
	mu   sync.RWMutex
	docs map[Collection]map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[Collection]map[string]json.RawMessage)}
}

func (m *Memory) Get(ctx context.Context, col Collection, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[col][id]
	if !ok {
		return nil, errx.New(errx.ErrNotFound, http.StatusNotFound, errx.RedisNotFoundMessage)
	}
	return raw, nil
}

func (m *Memory) Set(ctx context.Context, col Collection, id string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[col] == nil {
		m.docs[col] = make(map[string]json.RawMessage)
	}
	m.docs[col][id] = b
	return nil
}

func (m *Memory) Query(ctx context.Context, col Collection, filter Filter, limit int) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs[col]))
	for id := range m.docs[col] {
		ids = append(ids, id)
	}
	// deterministic order for tests; Redis set order is unspecified
	sort.Strings(ids)

	var results []json.RawMessage
	for _, id := range ids {
		raw := m.docs[col][id]
		if !matchesFilter(raw, filter) {
			continue
		}
		results = append(results, raw)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

var _ Store = (*Memory)(nil)
