package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
)

// MemoryArchive keeps encoded snapshots in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

// Put implements allergy.Archive.
func (a *MemoryArchive) Put(_ context.Context, snap allergy.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[objectKey(snap)] = data
	return nil
}

// Keys lists stored object keys in order.
func (a *MemoryArchive) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.objects))
	for k := range a.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load decodes one stored snapshot.
func (a *MemoryArchive) Load(key string) (allergy.Snapshot, error) {
	a.mu.RLock()
	data, ok := a.objects[key]
	a.mu.RUnlock()
	if !ok {
		return allergy.Snapshot{}, fmt.Errorf("snapshot %s not found", key)
	}
	var snap allergy.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return allergy.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return snap, nil
}

var _ allergy.Archive = (*MemoryArchive)(nil)
