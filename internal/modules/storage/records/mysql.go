package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"gorm.io/gorm"
)

// MySQLStore keeps records in the locations table through gorm.
type MySQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db, now: time.Now}
}

func (s *MySQLStore) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	now := s.now().Truncate(time.Second)
	row := models.LocationModelFrom(loc)
	row.ID = ""
	row.CreatedAt = &now
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Location{}, fmt.Errorf("insert location: %w", err)
	}
	return row.ToLocation(), nil
}

func (s *MySQLStore) ReadAll(ctx context.Context) ([]models.Location, error) {
	var rows []models.LocationModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToLocation())
	}
	return out, nil
}

func (s *MySQLStore) Get(ctx context.Context, id string) (models.Location, error) {
	var row models.LocationModel
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Location{}, ErrNotFound
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("get location: %w", err)
	}
	return row.ToLocation(), nil
}

func (s *MySQLStore) Update(ctx context.Context, id string, patch models.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.LocationModel{}).Where("id = ?", id).Updates(patch.Fields())
	if res.Error != nil {
		return fmt.Errorf("update location: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the values did not change.
	var count int64
	if err := db.Model(&models.LocationModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.LocationModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
