// Package usecase はinsightsフィーチャーのビジネスロジックを実装します。
// データセットの直近の推移から、市況コメントを生成します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

const (
	// recentPoints はコメント生成に使う直近の観測点数です。
	recentPoints = 12

	// promptTemplate は市況コメント生成のプロンプトテンプレートです。
	promptTemplate = "You are a commodity-market analyst. Based on the following recent " +
		"observations of %q (%s), write a concise three-sentence commentary on the " +
		"trend and what it may mean for the market.\n\n%s"
)

// MarketAnalyzer は市況コメントを生成するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketAnalyzer interface {
	// Analyze はプロンプトからコメントを生成します。
	Analyze(ctx context.Context, prompt string) (string, error)
}

// SeriesReader は分析対象の時系列読み取りレイヤーを抽象化します。
type SeriesReader interface {
	GetDataset(ctx context.Context, slug string) (entity.Dataset, error)
	ListSeries(ctx context.Context, dataset string) ([]string, error)
	FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error)
}

// Insight はあるデータセットに対する生成済みコメントです。
type Insight struct {
	Dataset string
	Series  string
	Summary string
}

// InsightsUsecase は市況コメント生成のユースケースを定義します。
type InsightsUsecase struct {
	series   SeriesReader
	analyzer MarketAnalyzer
}

// NewInsightsUsecase はInsightsUsecaseの新しいインスタンスを生成します。
func NewInsightsUsecase(series SeriesReader, analyzer MarketAnalyzer) *InsightsUsecase {
	return &InsightsUsecase{series: series, analyzer: analyzer}
}

// Commentary は指定データセットの直近の推移からコメントを生成します。
// 系列名が空の場合はデータセットの最初の系列を使用します。
func (u *InsightsUsecase) Commentary(ctx context.Context, slug, series string) (*Insight, error) {
	ds, err := u.series.GetDataset(ctx, slug)
	if err != nil {
		return nil, err
	}
	if series == "" {
		names, err := u.series.ListSeries(ctx, slug)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("dataset %q has no series", slug)
		}
		series = names[0]
	}

	obs, err := u.series.FindSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("series %q of dataset %q is empty", series, slug)
	}
	if len(obs) > recentPoints {
		obs = obs[len(obs)-recentPoints:]
	}

	var sb strings.Builder
	for _, o := range obs {
		fmt.Fprintf(&sb, "%s: %.3f\n", o.Date.UTC().Format("2006-01-02"), o.Value)
	}

	prompt := fmt.Sprintf(promptTemplate, ds.Name, ds.Frequency, sb.String())
	summary, err := u.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("market analyzer failed for %q: %w", slug, err)
	}

	return &Insight{Dataset: slug, Series: series, Summary: summary}, nil
}
