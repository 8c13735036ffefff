package profilerepo

import (
	"context"
	"sync"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// MemoryRepository keeps sensitivity levels in process memory for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	levels map[int64]forecast.Levels
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{levels: make(map[int64]forecast.Levels)}
}

// Get returns a copy of the stored levels; unknown users have none.
func (r *MemoryRepository) Get(_ context.Context, userID int64) (forecast.Levels, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyLevels(r.levels[userID]), nil
}

// Save replaces the user's levels.
func (r *MemoryRepository) Save(_ context.Context, userID int64, levels forecast.Levels) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[userID] = copyLevels(levels)
	return nil
}

func copyLevels(in forecast.Levels) forecast.Levels {
	out := make(forecast.Levels, len(in))
	for plant, level := range in {
		out[plant] = level
	}
	return out
}

var _ allergy.LevelRepository = (*MemoryRepository)(nil)
