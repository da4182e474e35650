// Package usecase はanalyticsフィーチャーのビジネスロジックを実装します。
// 取り込み済みの時系列に対する前年同期比・移動平均・系列間比率などの
// 変換を提供します。
package usecase

import (
	"context"
	"fmt"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

const (
	// DefaultRollingWindow は移動平均のデフォルトウィンドウです。
	DefaultRollingWindow = 12
	// MaxRollingWindow は移動平均の最大ウィンドウです。
	MaxRollingWindow = 60

	// 固定分析が参照するデータセットと系列。CSVファイル名・列名に対応します。
	eggsDataset        = "broiler_hatching_eggs_monthly"
	eggsSeries         = "Hatching Eggs"
	layerHerdDataset   = "broiler_breeder_layer_herd_monthly"
	layerHerdSeries    = "Layer_Herd"
	eggBreakDataset    = "egg_break_analysis"
	eggBreakSeries     = "Break_Ratio"
	yieldLTMWindow     = 12
	eggBreakRollWindow = 15
)

// SeriesRepository は分析対象の時系列読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesRepository interface {
	// FindSeries は指定データセットの1系列を日付昇順で返します。
	FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error)

	// GetDataset はスラッグでデータセットを取得します。
	GetDataset(ctx context.Context, slug string) (entity.Dataset, error)

	// ListSeries は指定データセットの系列名一覧を返します。
	ListSeries(ctx context.Context, dataset string) ([]string, error)
}

// RatioResult は比率分析の結果です。元の比率と移動平均を併せて返します。
type RatioResult struct {
	Ratio   []Point
	Rolling []Point
	Window  int
}

// AnalyticsUsecase は時系列変換のユースケースを定義します。
type AnalyticsUsecase struct {
	series SeriesRepository
}

// NewAnalyticsUsecase はAnalyticsUsecaseの新しいインスタンスを生成します。
func NewAnalyticsUsecase(series SeriesRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{series: series}
}

// resolveSeries は系列名を解決します。空の場合はデータセットの最初の系列を使用します。
func (au *AnalyticsUsecase) resolveSeries(ctx context.Context, slug, series string) (string, error) {
	if series != "" {
		return series, nil
	}
	names, err := au.series.ListSeries(ctx, slug)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("dataset %q has no series", slug)
	}
	return names[0], nil
}

// YoY は指定系列の前年同期比成長率を計算します。
// 比較の周期（ISO週または月）はデータセットの観測頻度から決まります。
func (au *AnalyticsUsecase) YoY(ctx context.Context, slug, series string) ([]GrowthPoint, error) {
	ds, err := au.series.GetDataset(ctx, slug)
	if err != nil {
		return nil, err
	}
	series, err = au.resolveSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	obs, err := au.series.FindSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	return YoYGrowth(toPoints(obs), ds.Frequency), nil
}

// Rolling は指定系列の移動平均を計算します。
func (au *AnalyticsUsecase) Rolling(ctx context.Context, slug, series string, window int) ([]Point, error) {
	if window <= 0 || window > MaxRollingWindow {
		window = DefaultRollingWindow
	}
	series, err := au.resolveSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	obs, err := au.series.FindSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	return RollingMean(toPoints(obs), window), nil
}

// Cumulative は指定系列の累積和を計算します。
func (au *AnalyticsUsecase) Cumulative(ctx context.Context, slug, series string) ([]Point, error) {
	series, err := au.resolveSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	obs, err := au.series.FindSeries(ctx, slug, series)
	if err != nil {
		return nil, err
	}
	return CumulativeSum(toPoints(obs)), nil
}

// Ratio は2系列を日付で結合して比率を計算し、移動平均を併せて返します。
func (au *AnalyticsUsecase) Ratio(ctx context.Context, numSlug, numSeries, denSlug, denSeries string, window int) (*RatioResult, error) {
	if window <= 0 || window > MaxRollingWindow {
		window = DefaultRollingWindow
	}
	num, err := au.series.FindSeries(ctx, numSlug, numSeries)
	if err != nil {
		return nil, err
	}
	den, err := au.series.FindSeries(ctx, denSlug, denSeries)
	if err != nil {
		return nil, err
	}
	ratio := RatioSeries(toPoints(num), toPoints(den))
	return &RatioResult{
		Ratio:   ratio,
		Rolling: RollingMean(ratio, window),
		Window:  window,
	}, nil
}

// Yield は産卵鶏1羽あたりの種卵数（Hatching Eggs / Layer_Herd）と
// そのLTM（直近12ヶ月移動平均）を計算します。
func (au *AnalyticsUsecase) Yield(ctx context.Context) (*RatioResult, error) {
	return au.Ratio(ctx, eggsDataset, eggsSeries, layerHerdDataset, layerHerdSeries, yieldLTMWindow)
}

// EggBreak は破卵率とその15ヶ月移動平均を返します。
func (au *AnalyticsUsecase) EggBreak(ctx context.Context) (*RatioResult, error) {
	obs, err := au.series.FindSeries(ctx, eggBreakDataset, eggBreakSeries)
	if err != nil {
		return nil, err
	}
	ratio := toPoints(obs)
	return &RatioResult{
		Ratio:   ratio,
		Rolling: RollingMean(ratio, eggBreakRollWindow),
		Window:  eggBreakRollWindow,
	}, nil
}
