package records

import (
	"context"
	"sync"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps records in process, in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]models.Location
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]models.Location),
		now:   time.Now,
	}
}

// Seed inserts records verbatim, keeping their IDs and timestamps.
func (s *MemoryStore) Seed(locs ...models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range locs {
		if loc.ID == "" {
			loc.ID = uuid.NewString()
		}
		if _, ok := s.items[loc.ID]; !ok {
			s.order = append(s.order, loc.ID)
		}
		s.items[loc.ID] = loc
	}
}

func (s *MemoryStore) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	loc.ID = uuid.NewString()
	loc.CreatedAt = &now
	s.items[loc.ID] = loc
	s.order = append(s.order, loc.ID)
	return loc, nil
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]models.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Location, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.items[id]
	if !ok {
		return models.Location{}, ErrNotFound
	}
	return loc, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	s.items[id] = patch.Apply(loc)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
