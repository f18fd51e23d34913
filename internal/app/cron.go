package app

import (
	"context"
	"fmt"

	pkgcron "github.com/ecoexplorer/core/internal/pkg/cron"
	"go.uber.org/zap"
)

const (
	jobRefreshGallery = "refresh_gallery"
	jobReconcile      = "reconcile_images"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("CronService")

	a.sched.Register(pkgcron.Job{
		Name:        jobRefreshGallery,
		Description: "Re-read every location record into the gallery projection",
		Interval:    a.cfg.GalleryRefresh(),
		RunOnStart:  true,
		Fn: func(ctx context.Context) error {
			if err := a.projection.ReconcileFull(ctx); err != nil {
				cronLogger.Warn("gallery refresh failed", zap.Error(err))
				return err
			}
			return nil
		},
	})

	if a.reconciler == nil {
		return
	}
	a.sched.Register(pkgcron.Job{
		Name:        jobReconcile,
		Description: "Delete image blobs left behind by failed location writes",
		Interval:    a.cfg.ReconcileInterval(),
		Fn: func(ctx context.Context) error {
			removed, err := a.reconciler.Sweep(ctx)
			if err != nil {
				cronLogger.Warn("image reconciliation failed", zap.Error(err))
				return err
			}
			if removed > 0 {
				cronLogger.Info(fmt.Sprintf("image reconciliation removed %d orphan blobs", removed))
			}
			return nil
		},
	})
}
