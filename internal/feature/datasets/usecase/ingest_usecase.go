package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

// 日付列の候補名。CSVファイルごとに命名が揺れているため、順に探索します。
var dateColumns = []string{"Date", "Date_produced", "Projected_Date"}

// IngestUsecase はCSVファイルから時系列データを取り込み、データベースに永続化します。
type IngestUsecase struct {
	repo ObservationRepository
}

// NewIngestUsecase は新しいIngestUsecaseを作成します。
func NewIngestUsecase(repo ObservationRepository) *IngestUsecase {
	return &IngestUsecase{repo: repo}
}

// IngestDir はディレクトリ内の全CSVファイルを取り込みます。
// 1ファイルでエラーが発生しても処理を止めずにログに出力し、次のファイルへ進みます。
func (iu *IngestUsecase) IngestDir(ctx context.Context, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to list csv files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no csv files found in %s", dir)
	}

	for _, p := range paths {
		if err := iu.IngestFile(ctx, p); err != nil {
			slog.Error("failed to ingest dataset", "file", p, "error", err)
			continue
		}
		slog.Info("dataset ingested", "file", p)
	}
	return nil
}

// IngestFile は1つのCSVファイルを解析し、データセットと観測値を永続化します。
// データセットのスラッグはファイル名（拡張子なし）から導出します。
func (iu *IngestUsecase) IngestFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dataset, obs, err := ParseCSV(slug, f)
	if err != nil {
		return err
	}

	if err := iu.repo.UpsertDataset(ctx, dataset); err != nil {
		return fmt.Errorf("failed to upsert dataset %s: %w", slug, err)
	}
	return iu.repo.UpsertBatch(ctx, obs)
}

// ParseCSV はCSVを解析してデータセットと観測値に変換します。
// 日付の表現はファイルによって異なります:
//   - "Date"等の日付列（YYYY-MM-DD）
//   - "Year" + "Month"（月名: Jan, Feb, ...）
//   - "Year" + "Week"（ISO週番号; 週の月曜日を日付とする）
//
// 日付列以外の数値列はそれぞれ1つの系列になります。数値に変換できない列は
// 無視します（カンマ区切りの数値は取り込み前に正規化します）。
func ParseCSV(slug string, r io.Reader) (entity.Dataset, []entity.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return entity.Dataset{}, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) < 2 {
		return entity.Dataset{}, nil, fmt.Errorf("csv %s has no data rows", slug)
	}

	header := rows[0]
	parse, frequency, dateCols, err := dateScheme(header)
	if err != nil {
		return entity.Dataset{}, nil, fmt.Errorf("csv %s: %w", slug, err)
	}

	var obs []entity.Observation
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			continue
		}
		date, err := parse(row)
		if err != nil {
			continue
		}
		for i, col := range header {
			if dateCols[col] {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[i]), ",", ""), 64)
			if err != nil {
				continue
			}
			obs = append(obs, entity.Observation{
				Dataset: slug,
				Series:  col,
				Date:    date,
				Value:   v,
			})
		}
	}
	if len(obs) == 0 {
		return entity.Dataset{}, nil, fmt.Errorf("csv %s produced no observations", slug)
	}

	dataset := entity.Dataset{
		Slug:      slug,
		Name:      datasetName(slug),
		Frequency: frequency,
	}
	return dataset, obs, nil
}

// dateScheme はヘッダーから日付の表現方法を判定し、行から日付を得る関数と
// 観測頻度、日付を構成する列の集合を返します。
func dateScheme(header []string) (func(row []string) (time.Time, error), string, map[string]bool, error) {
	index := map[string]int{}
	for i, col := range header {
		index[col] = i
	}

	for _, col := range dateColumns {
		if i, ok := index[col]; ok {
			return func(row []string) (time.Time, error) {
				return time.Parse("2006-01-02", strings.TrimSpace(row[i]))
			}, entity.FrequencyDaily, map[string]bool{col: true}, nil
		}
	}

	yi, hasYear := index["Year"]
	if mi, ok := index["Month"]; hasYear && ok {
		return func(row []string) (time.Time, error) {
			return time.Parse("2006-Jan", strings.TrimSpace(row[yi])+"-"+strings.TrimSpace(row[mi]))
		}, entity.FrequencyMonthly, map[string]bool{"Year": true, "Month": true}, nil
	}
	if wi, ok := index["Week"]; hasYear && ok {
		return func(row []string) (time.Time, error) {
			year, err := strconv.Atoi(strings.TrimSpace(row[yi]))
			if err != nil {
				return time.Time{}, err
			}
			week, err := strconv.Atoi(strings.TrimSpace(row[wi]))
			if err != nil {
				return time.Time{}, err
			}
			return isoWeekStart(year, week), nil
		}, entity.FrequencyWeekly, map[string]bool{"Year": true, "Week": true}, nil
	}

	return nil, "", nil, fmt.Errorf("no recognized date columns in header %v", header)
}

// isoWeekStart は指定されたISO年・週番号の週の月曜日を返します。
func isoWeekStart(year, week int) time.Time {
	// 1月4日は常にISO第1週に含まれる
	t := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	// その週の月曜日まで戻す
	offset := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -offset)
	return t.AddDate(0, 0, (week-1)*7)
}

// datasetName はスラッグから表示名を導出します（アンダースコアを空白に、先頭を大文字に）。
func datasetName(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", "_"), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
