package artifact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fileforge/fileforge/internal/observability"
)

// MemoryStore is the in-process registry implementation. Entries expire
// after the configured TTL and are reclaimed by a background sweeper, so
// the table cannot grow without bound across the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Artifact

	ttl    time.Duration
	now    func() time.Time
	logger *observability.Logger
}

// NewMemoryStore creates a memory-backed registry. Artifacts live for ttl
// after insertion; ttl must be positive.
func NewMemoryStore(ttl time.Duration, logger *observability.Logger) *MemoryStore {
	if logger == nil {
		logger = observability.Nop()
	}
	return &MemoryStore{
		entries: make(map[string]*Artifact),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Put registers content under a fresh random id. The id is a v4 UUID
// with 122 random bits, so collisions are negligible; the insert still
// re-mints rather than overwrite if one ever occurs.
func (s *MemoryStore) Put(_ context.Context, content []byte, mediaType, filename string) (string, error) {
	art := &Artifact{
		Content:   content,
		MediaType: mediaType,
		Filename:  filename,
		StoredAt:  s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := s.entries[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	art.ID = id
	s.entries[id] = art

	s.logger.Debug().
		Str("artifact_id", id).
		Str("media_type", mediaType).
		Int("bytes", len(content)).
		Msg("Artifact stored")

	return id, nil
}

// Get resolves an id. Expired entries report ErrNotFound even before the
// sweeper reclaims them.
func (s *MemoryStore) Get(_ context.Context, id string) (*Artifact, error) {
	s.mu.RLock()
	art, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.now().Sub(art.StoredAt) > s.ttl {
		return nil, ErrNotFound
	}
	return art, nil
}

// Len reports the number of live artifacts.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Sweep removes all expired artifacts and returns how many were reclaimed.
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, art := range s.entries {
		if art.StoredAt.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper starts a background goroutine that calls Sweep on every
// interval until ctx is cancelled. A first pass runs immediately.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		s.Sweep()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					s.logger.Info().Int("removed", removed).Msg("Registry sweep complete")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
