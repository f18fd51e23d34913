package location

import (
	"context"
	"sync"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	"github.com/ecoexplorer/core/internal/pkg/pagination"
	"github.com/ecoexplorer/core/internal/pkg/response"
)

// Projection is the server-held list of every record behind the gallery.
// It is refreshed by full re-fetch or patched in place after a mutation;
// both paths converge on the same visible state.
type Projection struct {
	source records.Store

	mu       sync.RWMutex
	items    []models.Location
	loaded   bool
	stale    bool
	loadedAt time.Time
}

func NewProjection(source records.Store) *Projection {
	return &Projection{source: source}
}

// ReconcileFull replaces the held collection with the store's contents.
func (p *Projection) ReconcileFull(ctx context.Context) error {
	all, err := p.source.ReadAll(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.items = all
	p.loaded = true
	p.stale = false
	p.loadedAt = time.Now()
	p.mu.Unlock()
	return nil
}

// ApplyPatch replaces the record with the same ID, or appends it.
func (p *Projection) ApplyPatch(loc models.Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == loc.ID {
			p.items[i] = loc
			return
		}
	}
	p.items = append(p.items, loc)
}

func (p *Projection) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// Invalidate forces the next EnsureFresh to re-fetch.
func (p *Projection) Invalidate() {
	p.mu.Lock()
	p.stale = true
	p.mu.Unlock()
}

// EnsureFresh re-fetches when never loaded or invalidated.
func (p *Projection) EnsureFresh(ctx context.Context) error {
	p.mu.RLock()
	fresh := p.loaded && !p.stale
	p.mu.RUnlock()
	if fresh {
		return nil
	}
	return p.ReconcileFull(ctx)
}

func (p *Projection) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}

// Snapshot copies the held collection in store order.
func (p *Projection) Snapshot() []models.Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Location, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Projection) Get(id string) (models.Location, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, loc := range p.items {
		if loc.ID == id {
			return loc, true
		}
	}
	return models.Location{}, false
}

// Query filters, sorts and paginates the held collection.
func (p *Projection) Query(q Query) ([]models.Location, response.Pagination) {
	items := Filter(p.Snapshot(), q.Search, q.Tag)
	Sort(items, q.Sort)
	return pagination.Slice(items, pagination.Normalize(q.Page, q.Size, pagination.DefaultSize))
}

// Related returns up to limit records near id: same district first, then shared tags.
func (p *Projection) Related(id string, limit int) []models.Location {
	base, ok := p.Get(id)
	if !ok {
		return nil
	}
	candidates := p.Snapshot()
	Sort(candidates, SortNewest)
	return related(base, candidates, limit)
}
