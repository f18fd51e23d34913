package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/ecoexplorer/core/internal/middleware"
	"github.com/ecoexplorer/core/internal/modules/location"
	"github.com/ecoexplorer/core/internal/modules/storage/images"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	pkgcron "github.com/ecoexplorer/core/internal/pkg/cron"
	pkgredis "github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	logger  *zap.Logger
	cancel  context.CancelFunc
	sched   *pkgcron.Scheduler
	redis   *pkgredis.Client
	closers []func() error
	started time.Time

	records    records.Store
	images     images.Store
	lifecycle  *location.Lifecycle
	projection *location.Projection
	reconciler *location.Reconciler
	feed       *location.ChangeFeed
}

// New initializes the application: config → stores → Redis → routes → background jobs.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	applyRuntimeSettings(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{cfg: cfg, logger: logger, cancel: cancel, started: time.Now()}

	if err := a.openStores(ctx); err != nil {
		cancel()
		_ = a.Close()
		return nil, err
	}
	a.buildLocation()

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(newCORS(cfg))
	a.router = router

	a.sched = pkgcron.New(logger)
	a.registerCronJobs()
	a.registerRoutes()

	go a.sched.Start(ctx)
	if a.feed != nil {
		go a.listenForChanges(ctx)
	}
	return a, nil
}

func (a *App) openStores(ctx context.Context) error {
	recs, closeRecs, err := records.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("records: %w", err)
	}
	a.records = recs
	a.closers = append(a.closers, closeRecs)

	imgs, err := images.Open(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("images: %w", err)
	}
	a.images = imgs

	if a.cfg.RedisEnabled() {
		rc, err := pkgredis.Connect(a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		a.redis = rc
		a.closers = append(a.closers, rc.Close)
	} else {
		a.logger.Warn("redis_url is empty; sessions are stateless, rate limiting and orphan reconciliation are off")
	}
	return nil
}

func (a *App) buildLocation() {
	a.projection = location.NewProjection(a.records)

	opts := []location.Option{
		location.WithProjection(a.projection),
		location.WithImageCheck(a.cfg.ValidateUploads()),
	}
	if a.redis != nil {
		a.feed = location.NewChangeFeed(a.redis, a.logger)
		opts = append(opts, location.WithNotifier(a.feed))
	}
	if a.cfg.ReconcileEnabled() {
		journal := location.NewRedisJournal(a.redis)
		opts = append(opts, location.WithJournal(journal))
		a.reconciler = location.NewReconciler(a.records, a.images, journal, a.cfg.ReconcileGrace(), a.logger)
	}
	a.lifecycle = location.NewLifecycle(a.records, a.images, a.logger, opts...)
}

// listenForChanges invalidates the projection when another instance mutates
// a record, resubscribing after transient redis failures.
func (a *App) listenForChanges(ctx context.Context) {
	log := a.logger.Named("ChangeFeed")
	for {
		err := a.feed.Listen(ctx, func(id string) {
			log.Debug("remote change", zap.String("id", id))
			a.projection.Invalidate()
		}, nil)
		if ctx.Err() != nil {
			return
		}
		log.Warn("change feed dropped, retrying", zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and waits for running ones to return.
func (a *App) Shutdown() {
	a.cancel()
	if a.sched != nil {
		a.sched.Wait()
	}
}

// Close releases store and redis connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
