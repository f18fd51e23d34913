package records

import (
	"context"
	"testing"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	created, err := s.Create(ctx, models.Location{LocationName: "Ella Rock", CustomFilename: "a.jpg"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.NotNil(t, created.CreatedAt)
	assert.Equal(t, fixed, *created.CreatedAt)

	second, err := s.Create(ctx, models.Location{LocationName: "Sigiriya"})
	require.NoError(t, err)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	require.NoError(t, s.Update(ctx, created.ID, models.Patch{LocationName: strPtr("Ella Rock Trail")}))
	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ella Rock Trail", got.LocationName)
	assert.Equal(t, "a.jpg", got.CustomFilename)

	require.NoError(t, s.Delete(ctx, created.ID))
	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "nope", models.Patch{Credit: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Update(context.Background(), "nope", models.Patch{}))
}

func TestMemoryStoreHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	_, err := s.Create(ctx, models.Location{LocationName: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	all, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStoreSeedKeepsLegacyRecords(t *testing.T) {
	s := NewMemoryStore()
	s.Seed(models.Location{ID: "legacy", LocationName: "Old"})

	got, err := s.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Nil(t, got.CreatedAt)
}
