// Package usecase はdatasetsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

// ObservationRepository は時系列データの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ObservationRepository interface {
	// UpsertDataset はカタログにデータセットを登録または更新します。
	UpsertDataset(ctx context.Context, d entity.Dataset) error

	// ListDatasets はカタログの全データセットを返します。
	ListDatasets(ctx context.Context) ([]entity.Dataset, error)

	// GetDataset はスラッグでデータセットを取得します。
	GetDataset(ctx context.Context, slug string) (entity.Dataset, error)

	// UpsertBatch は観測値を一括で挿入または更新します。
	UpsertBatch(ctx context.Context, obs []entity.Observation) error

	// FindSeries は指定データセットの1系列を日付昇順で返します。
	FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error)

	// ListSeries は指定データセットの系列名一覧を返します。
	ListSeries(ctx context.Context, dataset string) ([]string, error)
}

// DatasetsUsecase はデータセットの一覧・取得・CSVエクスポートを提供します。
type DatasetsUsecase struct {
	repo ObservationRepository
}

// NewDatasetsUsecase はDatasetsUsecaseの新しいインスタンスを生成します。
func NewDatasetsUsecase(repo ObservationRepository) *DatasetsUsecase {
	return &DatasetsUsecase{repo: repo}
}

// ListDatasets はカタログの全データセットを返します。
func (u *DatasetsUsecase) ListDatasets(ctx context.Context) ([]entity.Dataset, error) {
	return u.repo.ListDatasets(ctx)
}

// GetSeries は指定データセットの1系列を返します。
// 系列名が空の場合はデータセットの最初の系列を使用します。
func (u *DatasetsUsecase) GetSeries(ctx context.Context, slug, series string) ([]entity.Observation, error) {
	if series == "" {
		names, err := u.repo.ListSeries(ctx, slug)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("dataset %q has no series", slug)
		}
		series = names[0]
	}
	return u.repo.FindSeries(ctx, slug, series)
}

// ExportCSV はデータセットの全系列を日付×系列の表形式でCSV出力します。
// 出力はダウンロード用途を想定し、ヘッダー行（Date, 系列名...）を含みます。
func (u *DatasetsUsecase) ExportCSV(ctx context.Context, slug string, w io.Writer) error {
	names, err := u.repo.ListSeries(ctx, slug)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("dataset %q has no series", slug)
	}
	sort.Strings(names)

	// 日付 -> 系列名 -> 値 のピボットを構築
	byDate := map[string]map[string]float64{}
	for _, name := range names {
		obs, err := u.repo.FindSeries(ctx, slug, name)
		if err != nil {
			return err
		}
		for _, o := range obs {
			key := o.Date.UTC().Format("2006-01-02")
			if byDate[key] == nil {
				byDate[key] = map[string]float64{}
			}
			byDate[key][name] = o.Value
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Date"}, names...)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range dates {
		row := make([]string, 0, len(names)+1)
		row = append(row, d)
		for _, name := range names {
			if v, ok := byDate[d][name]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
