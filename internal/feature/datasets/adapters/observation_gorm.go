// Package adapters はdatasetsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dashboard_backend/internal/feature/datasets/domain/entity"
	"dashboard_backend/internal/feature/datasets/usecase"
)

// observationGorm はObservationRepositoryインターフェースのGORM実装です。
type observationGorm struct {
	db *gorm.DB
}

// observationGormがObservationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ObservationRepository = (*observationGorm)(nil)

// NewObservationRepository は指定されたgorm.DB接続でobservationGormの新しいインスタンスを生成します。
func NewObservationRepository(db *gorm.DB) *observationGorm {
	return &observationGorm{db: db}
}

// DatasetModel はデータセットカタログのGORMモデルです。
type DatasetModel struct {
	Slug      string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"size:255;not null"`
	Frequency string `gorm:"size:16;not null"`
	Unit      string `gorm:"size:64"`
}

func (DatasetModel) TableName() string {
	return "datasets"
}

// ObservationModel は観測値のGORMモデルです。
type ObservationModel struct {
	ID      uint      `gorm:"primaryKey"`
	Dataset string    `gorm:"size:128;not null;uniqueIndex:obs_ds_series_date,priority:1"`
	Series  string    `gorm:"size:128;not null;uniqueIndex:obs_ds_series_date,priority:2"`
	Date    time.Time `gorm:"not null;uniqueIndex:obs_ds_series_date,priority:3"`
	Value   float64   `gorm:"not null"`
}

func (ObservationModel) TableName() string {
	return "observations"
}

func toModel(e entity.Observation) ObservationModel {
	return ObservationModel{
		Dataset: e.Dataset,
		Series:  e.Series,
		Date:    e.Date,
		Value:   e.Value,
	}
}

func toEntity(m ObservationModel) entity.Observation {
	return entity.Observation{
		Dataset: m.Dataset,
		Series:  m.Series,
		Date:    m.Date,
		Value:   m.Value,
	}
}

// UpsertDataset はカタログにデータセットを登録または更新します。
func (r *observationGorm) UpsertDataset(ctx context.Context, d entity.Dataset) error {
	m := DatasetModel{Slug: d.Slug, Name: d.Name, Frequency: d.Frequency, Unit: d.Unit}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "frequency", "unit"}),
	}).Create(&m).Error
}

// ListDatasets はカタログの全データセットをスラッグ順で返します。
func (r *observationGorm) ListDatasets(ctx context.Context) ([]entity.Dataset, error) {
	var rows []DatasetModel
	if err := r.db.WithContext(ctx).Order("slug").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Dataset, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Dataset{Slug: m.Slug, Name: m.Name, Frequency: m.Frequency, Unit: m.Unit})
	}
	return out, nil
}

// GetDataset はスラッグでデータセットを取得します。
func (r *observationGorm) GetDataset(ctx context.Context, slug string) (entity.Dataset, error) {
	var m DatasetModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Dataset{}, fmt.Errorf("dataset %q not found", slug)
		}
		return entity.Dataset{}, err
	}
	return entity.Dataset{Slug: m.Slug, Name: m.Name, Frequency: m.Frequency, Unit: m.Unit}, nil
}

// UpsertBatch は観測値を一括で挿入し、重複キーは値を更新します。
func (r *observationGorm) UpsertBatch(ctx context.Context, obs []entity.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	ms := make([]ObservationModel, 0, len(obs))
	for _, e := range obs {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dataset"}, {Name: "series"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).CreateInBatches(&ms, 500).Error
}

// FindSeries は指定データセットの1系列を日付昇順で返します。
func (r *observationGorm) FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
	var rows []ObservationModel
	err := r.db.WithContext(ctx).
		Where("dataset = ? AND series = ?", dataset, series).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.Observation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// ListSeries は指定データセットの系列名一覧を返します。
func (r *observationGorm) ListSeries(ctx context.Context, dataset string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&ObservationModel{}).
		Where("dataset = ?", dataset).
		Distinct("series").
		Order("series").
		Pluck("series", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
