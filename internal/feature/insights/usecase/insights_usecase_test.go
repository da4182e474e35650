package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

// mockSeriesReader is a mock implementation of SeriesReader.
type mockSeriesReader struct {
	GetDatasetFunc func(ctx context.Context, slug string) (entity.Dataset, error)
	ListSeriesFunc func(ctx context.Context, dataset string) ([]string, error)
	FindSeriesFunc func(ctx context.Context, dataset, series string) ([]entity.Observation, error)
}

func (m *mockSeriesReader) GetDataset(ctx context.Context, slug string) (entity.Dataset, error) {
	if m.GetDatasetFunc != nil {
		return m.GetDatasetFunc(ctx, slug)
	}
	return entity.Dataset{Slug: slug, Name: "Chick Placements", Frequency: entity.FrequencyMonthly}, nil
}

func (m *mockSeriesReader) ListSeries(ctx context.Context, dataset string) ([]string, error) {
	if m.ListSeriesFunc != nil {
		return m.ListSeriesFunc(ctx, dataset)
	}
	return []string{"Placements"}, nil
}

func (m *mockSeriesReader) FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
	if m.FindSeriesFunc != nil {
		return m.FindSeriesFunc(ctx, dataset, series)
	}
	return nil, nil
}

// mockAnalyzer is a mock implementation of MarketAnalyzer.
type mockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, prompt)
	}
	return "mock commentary", nil
}

func obsRange(n int) []entity.Observation {
	out := make([]entity.Observation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity.Observation{
			Dataset: "placements",
			Series:  "Placements",
			Date:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0),
			Value:   float64(1000 + i),
		})
	}
	return out
}

func TestInsightsUsecase_Commentary(t *testing.T) {
	t.Run("builds a prompt from the recent observations", func(t *testing.T) {
		var gotPrompt string
		reader := &mockSeriesReader{
			FindSeriesFunc: func(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
				return obsRange(3), nil
			},
		}
		analyzer := &mockAnalyzer{
			AnalyzeFunc: func(ctx context.Context, prompt string) (string, error) {
				gotPrompt = prompt
				return "placements are trending up", nil
			},
		}
		uc := NewInsightsUsecase(reader, analyzer)

		insight, err := uc.Commentary(context.Background(), "placements", "Placements")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if insight.Summary != "placements are trending up" {
			t.Errorf("unexpected summary %q", insight.Summary)
		}
		if insight.Dataset != "placements" || insight.Series != "Placements" {
			t.Errorf("unexpected insight metadata %+v", insight)
		}
		if !strings.Contains(gotPrompt, "Chick Placements") {
			t.Error("prompt missing dataset name")
		}
		if !strings.Contains(gotPrompt, "2023-01-01: 1000.000") {
			t.Errorf("prompt missing observation line:\n%s", gotPrompt)
		}
	})

	t.Run("only the recent window is included", func(t *testing.T) {
		var gotPrompt string
		reader := &mockSeriesReader{
			FindSeriesFunc: func(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
				return obsRange(24), nil
			},
		}
		analyzer := &mockAnalyzer{
			AnalyzeFunc: func(ctx context.Context, prompt string) (string, error) {
				gotPrompt = prompt
				return "ok", nil
			},
		}
		uc := NewInsightsUsecase(reader, analyzer)

		if _, err := uc.Commentary(context.Background(), "placements", "Placements"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(gotPrompt, "2023-01-01") {
			t.Error("oldest observation leaked into the prompt")
		}
		if !strings.Contains(gotPrompt, "2024-12-01") {
			t.Errorf("latest observation missing from the prompt:\n%s", gotPrompt)
		}
	})

	t.Run("empty series name falls back to the first series", func(t *testing.T) {
		var requested string
		reader := &mockSeriesReader{
			FindSeriesFunc: func(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
				requested = series
				return obsRange(1), nil
			},
		}
		uc := NewInsightsUsecase(reader, &mockAnalyzer{})

		if _, err := uc.Commentary(context.Background(), "placements", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if requested != "Placements" {
			t.Errorf("expected first series, got %q", requested)
		}
	})

	t.Run("empty series is an error", func(t *testing.T) {
		reader := &mockSeriesReader{
			FindSeriesFunc: func(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
				return nil, nil
			},
		}
		uc := NewInsightsUsecase(reader, &mockAnalyzer{})

		if _, err := uc.Commentary(context.Background(), "placements", "Placements"); err == nil {
			t.Error("expected error for an empty series")
		}
	})

	t.Run("analyzer failure surfaces", func(t *testing.T) {
		reader := &mockSeriesReader{
			FindSeriesFunc: func(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
				return obsRange(1), nil
			},
		}
		analyzer := &mockAnalyzer{
			AnalyzeFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		uc := NewInsightsUsecase(reader, analyzer)

		if _, err := uc.Commentary(context.Background(), "placements", "Placements"); err == nil {
			t.Error("expected error")
		}
	})
}
