package location

import (
	"context"
	"fmt"
	"time"

	"github.com/ecoexplorer/core/internal/modules/storage/images"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	"go.uber.org/zap"
)

// Reconciler removes blobs that journaled operations left unreferenced.
type Reconciler struct {
	records records.Store
	images  images.Store
	journal Journal
	grace   time.Duration
	logger  *zap.Logger
}

func NewReconciler(recs records.Store, imgs images.Store, journal Journal, grace time.Duration, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		records: recs,
		images:  imgs,
		journal: journal,
		grace:   grace,
		logger:  logger.Named("Reconciler"),
	}
}

// Sweep handles every entry older than the grace period and returns how
// many blobs it deleted. Entries are committed once all their blobs are
// either referenced by a record or gone.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	if r.journal == nil {
		return 0, nil
	}
	entries, err := r.journal.Pending(ctx, r.grace)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	all, err := r.records.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile: read records: %w", err)
	}
	referenced := make(map[string]struct{}, len(all))
	for _, loc := range all {
		if loc.HasImage() {
			referenced[loc.CustomFilename] = struct{}{}
		}
	}

	removed := 0
	for _, e := range entries {
		resolved := true
		for _, blob := range e.Blobs {
			if _, ok := referenced[blob]; ok || !images.ValidName(blob) {
				continue
			}
			exists, err := r.images.Exists(ctx, blob)
			if err != nil {
				resolved = false
				r.logger.Warn("orphan check failed", zap.String("blob", blob), zap.Error(err))
				continue
			}
			if !exists {
				continue
			}
			if err := r.images.Delete(ctx, blob); err != nil {
				resolved = false
				r.logger.Warn("orphan delete failed", zap.String("blob", blob), zap.Error(err))
				continue
			}
			removed++
			r.logger.Info("orphan blob removed", zap.String("blob", blob), zap.String("op", e.Op))
		}
		if resolved {
			if err := r.journal.Commit(ctx, e.ID); err != nil {
				return removed, err
			}
		}
	}
	return removed, nil
}
