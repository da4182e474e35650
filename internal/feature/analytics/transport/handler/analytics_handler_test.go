package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard_backend/internal/feature/analytics/usecase"
)

// mockAnalyticsUsecase is a mock implementation of the AnalyticsUsecase interface.
type mockAnalyticsUsecase struct {
	YoYFunc        func(ctx context.Context, slug, series string) ([]usecase.GrowthPoint, error)
	RollingFunc    func(ctx context.Context, slug, series string, window int) ([]usecase.Point, error)
	CumulativeFunc func(ctx context.Context, slug, series string) ([]usecase.Point, error)
	RatioFunc      func(ctx context.Context, numSlug, numSeries, denSlug, denSeries string, window int) (*usecase.RatioResult, error)
	YieldFunc      func(ctx context.Context) (*usecase.RatioResult, error)
	EggBreakFunc   func(ctx context.Context) (*usecase.RatioResult, error)
}

func (m *mockAnalyticsUsecase) YoY(ctx context.Context, slug, series string) ([]usecase.GrowthPoint, error) {
	if m.YoYFunc != nil {
		return m.YoYFunc(ctx, slug, series)
	}
	return nil, nil
}

func (m *mockAnalyticsUsecase) Rolling(ctx context.Context, slug, series string, window int) ([]usecase.Point, error) {
	if m.RollingFunc != nil {
		return m.RollingFunc(ctx, slug, series, window)
	}
	return nil, nil
}

func (m *mockAnalyticsUsecase) Cumulative(ctx context.Context, slug, series string) ([]usecase.Point, error) {
	if m.CumulativeFunc != nil {
		return m.CumulativeFunc(ctx, slug, series)
	}
	return nil, nil
}

func (m *mockAnalyticsUsecase) Ratio(ctx context.Context, numSlug, numSeries, denSlug, denSeries string, window int) (*usecase.RatioResult, error) {
	if m.RatioFunc != nil {
		return m.RatioFunc(ctx, numSlug, numSeries, denSlug, denSeries, window)
	}
	return &usecase.RatioResult{Window: window}, nil
}

func (m *mockAnalyticsUsecase) Yield(ctx context.Context) (*usecase.RatioResult, error) {
	if m.YieldFunc != nil {
		return m.YieldFunc(ctx)
	}
	return &usecase.RatioResult{Window: 12}, nil
}

func (m *mockAnalyticsUsecase) EggBreak(ctx context.Context) (*usecase.RatioResult, error) {
	if m.EggBreakFunc != nil {
		return m.EggBreakFunc(ctx)
	}
	return &usecase.RatioResult{Window: 15}, nil
}

func newAnalyticsRouter(mock *mockAnalyticsUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(mock)
	r := gin.New()
	r.GET("/analytics/yoy/:slug", h.YoY)
	r.GET("/analytics/rolling/:slug", h.Rolling)
	r.GET("/analytics/cumulative/:slug", h.Cumulative)
	r.GET("/analytics/ratio", h.Ratio)
	r.GET("/analytics/yield", h.Yield)
	r.GET("/analytics/egg-break", h.EggBreak)
	return r
}

func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

func TestAnalyticsHandler_YoY(t *testing.T) {
	t.Run("returns growth points", func(t *testing.T) {
		mock := &mockAnalyticsUsecase{
			YoYFunc: func(ctx context.Context, slug, series string) ([]usecase.GrowthPoint, error) {
				return []usecase.GrowthPoint{
					{Date: jan(1), Year: 2024, Period: 1, Value: 110, Previous: 100, Growth: 10},
				}, nil
			},
		}
		r := newAnalyticsRouter(mock)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/yoy/placements", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"growth_pct":10`)
		assert.Contains(t, w.Body.String(), `"date":"2024-01-01"`)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		mock := &mockAnalyticsUsecase{
			YoYFunc: func(ctx context.Context, slug, series string) ([]usecase.GrowthPoint, error) {
				return nil, errors.New("dataset not found")
			},
		}
		r := newAnalyticsRouter(mock)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/yoy/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnalyticsHandler_Rolling(t *testing.T) {
	t.Run("window query is forwarded", func(t *testing.T) {
		var gotWindow int
		mock := &mockAnalyticsUsecase{
			RollingFunc: func(ctx context.Context, slug, series string, window int) ([]usecase.Point, error) {
				gotWindow = window
				return []usecase.Point{{Date: jan(31), Value: 2.5}}, nil
			},
		}
		r := newAnalyticsRouter(mock)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/rolling/eggs?window=6", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 6, gotWindow)
		assert.Contains(t, w.Body.String(), `"value":2.5`)
	})

	t.Run("window defaults to 12", func(t *testing.T) {
		var gotWindow int
		mock := &mockAnalyticsUsecase{
			RollingFunc: func(ctx context.Context, slug, series string, window int) ([]usecase.Point, error) {
				gotWindow = window
				return nil, nil
			},
		}
		r := newAnalyticsRouter(mock)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/rolling/eggs", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 12, gotWindow)
	})
}

func TestAnalyticsHandler_Cumulative(t *testing.T) {
	mock := &mockAnalyticsUsecase{
		CumulativeFunc: func(ctx context.Context, slug, series string) ([]usecase.Point, error) {
			return []usecase.Point{{Date: jan(1), Value: 1}, {Date: jan(2), Value: 3}}, nil
		},
	}
	r := newAnalyticsRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/cumulative/placements", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":3`)
}

func TestAnalyticsHandler_Ratio(t *testing.T) {
	var got [4]string
	mock := &mockAnalyticsUsecase{
		RatioFunc: func(ctx context.Context, numSlug, numSeries, denSlug, denSeries string, window int) (*usecase.RatioResult, error) {
			got = [4]string{numSlug, numSeries, denSlug, denSeries}
			return &usecase.RatioResult{
				Ratio:  []usecase.Point{{Date: jan(1), Value: 5}},
				Window: window,
			}, nil
		},
	}
	r := newAnalyticsRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/analytics/ratio?num=eggs&num_series=Hatching+Eggs&den=herd&den_series=Layer_Herd", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [4]string{"eggs", "Hatching Eggs", "herd", "Layer_Herd"}, got)
	assert.Contains(t, w.Body.String(), `"window":12`)
}

func TestAnalyticsHandler_YieldAndEggBreak(t *testing.T) {
	r := newAnalyticsRouter(&mockAnalyticsUsecase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/yield", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"window":12`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/egg-break", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"window":15`)
}
