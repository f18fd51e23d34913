// Package records holds the location record stores.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/ecoexplorer/core/internal/database"
	"github.com/ecoexplorer/core/internal/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get and Update for an unknown id.
var ErrNotFound = errors.New("location not found")

// Store is the document store holding location metadata.
type Store interface {
	// Create assigns ID and CreatedAt and returns the stored record.
	Create(ctx context.Context, loc models.Location) (models.Location, error)
	ReadAll(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id string) (models.Location, error)
	// Update applies patch; an empty patch is a no-op.
	Update(ctx context.Context, id string, patch models.Patch) error
	// Delete succeeds when id is already absent.
	Delete(ctx context.Context, id string) error
}

// Open builds the store selected by records.driver. The returned func releases it.
func Open(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Records.Driver {
	case "memory":
		logger.Warn("using in-memory record store; data is lost on restart")
		return NewMemoryStore(), noop, nil

	case "mongo":
		client, col, err := database.OpenMongo(ctx, cfg.Records.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoStore(col), func() error { return client.Disconnect(context.Background()) }, nil

	case "firestore":
		client, err := database.OpenFirestore(ctx, cfg.Records.Firestore)
		if err != nil {
			return nil, nil, err
		}
		return NewFirestoreStore(client, cfg.Records.Firestore.Collection), client.Close, nil

	case "mysql":
		db, err := database.OpenMySQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve sql db: %w", err)
		}
		return NewMySQLStore(db), sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown records driver %q", cfg.Records.Driver)
}
