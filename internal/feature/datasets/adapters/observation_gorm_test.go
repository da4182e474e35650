package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	require.NoError(t, db.AutoMigrate(&DatasetModel{}, &ObservationModel{}))
	return db
}

func obsDate(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestObservationGorm_UpsertDataset(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	ctx := context.Background()

	d := entity.Dataset{Slug: "chick_placements", Name: "Chick Placements", Frequency: entity.FrequencyDaily}
	require.NoError(t, repo.UpsertDataset(ctx, d))

	// Upserting the same slug updates in place
	d.Name = "Chick Placements (revised)"
	require.NoError(t, repo.UpsertDataset(ctx, d))

	got, err := repo.GetDataset(ctx, "chick_placements")
	require.NoError(t, err)
	assert.Equal(t, "Chick Placements (revised)", got.Name)

	list, err := repo.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestObservationGorm_GetDataset_NotFound(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))

	_, err := repo.GetDataset(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestObservationGorm_ListDatasets_OrderedBySlug(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	ctx := context.Background()

	for _, slug := range []string{"zz_last", "aa_first", "mm_middle"} {
		require.NoError(t, repo.UpsertDataset(ctx, entity.Dataset{Slug: slug, Name: slug, Frequency: entity.FrequencyDaily}))
	}

	list, err := repo.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "aa_first", list[0].Slug)
	assert.Equal(t, "zz_last", list[2].Slug)
}

func TestObservationGorm_UpsertBatchAndFindSeries(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	ctx := context.Background()

	obs := []entity.Observation{
		{Dataset: "placements", Series: "Placements", Date: obsDate(2), Value: 1050},
		{Dataset: "placements", Series: "Placements", Date: obsDate(1), Value: 1000},
		{Dataset: "placements", Series: "Hatchability", Date: obsDate(1), Value: 82.5},
	}
	require.NoError(t, repo.UpsertBatch(ctx, obs))

	found, err := repo.FindSeries(ctx, "placements", "Placements")
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Returned in date ascending order regardless of insertion order
	assert.Equal(t, float64(1000), found[0].Value)
	assert.Equal(t, float64(1050), found[1].Value)
	assert.True(t, found[0].Date.Before(found[1].Date))
}

func TestObservationGorm_UpsertBatch_ConflictUpdatesValue(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	ctx := context.Background()

	first := []entity.Observation{{Dataset: "eggs", Series: "Eggs_Set", Date: obsDate(1), Value: 7500}}
	require.NoError(t, repo.UpsertBatch(ctx, first))

	// Re-ingesting the same key replaces the value instead of duplicating the row
	revised := []entity.Observation{{Dataset: "eggs", Series: "Eggs_Set", Date: obsDate(1), Value: 7600}}
	require.NoError(t, repo.UpsertBatch(ctx, revised))

	found, err := repo.FindSeries(ctx, "eggs", "Eggs_Set")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, float64(7600), found[0].Value)
}

func TestObservationGorm_UpsertBatch_Empty(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	assert.NoError(t, repo.UpsertBatch(context.Background(), nil))
}

func TestObservationGorm_ListSeries(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))
	ctx := context.Background()

	obs := []entity.Observation{
		{Dataset: "placements", Series: "Placements", Date: obsDate(1), Value: 1},
		{Dataset: "placements", Series: "Placements", Date: obsDate(2), Value: 2},
		{Dataset: "placements", Series: "Hatchability", Date: obsDate(1), Value: 3},
		{Dataset: "other", Series: "Unrelated", Date: obsDate(1), Value: 4},
	}
	require.NoError(t, repo.UpsertBatch(ctx, obs))

	names, err := repo.ListSeries(ctx, "placements")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hatchability", "Placements"}, names)
}

func TestObservationGorm_FindSeries_Empty(t *testing.T) {
	repo := NewObservationRepository(setupTestDB(t))

	found, err := repo.FindSeries(context.Background(), "nothing", "here")
	require.NoError(t, err)
	assert.Empty(t, found)
}
