package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard_backend/internal/feature/insights/usecase"
)

// mockInsightsUsecase is a mock implementation of the InsightsUsecase interface.
type mockInsightsUsecase struct {
	CommentaryFunc func(ctx context.Context, slug, series string) (*usecase.Insight, error)
}

func (m *mockInsightsUsecase) Commentary(ctx context.Context, slug, series string) (*usecase.Insight, error) {
	if m.CommentaryFunc != nil {
		return m.CommentaryFunc(ctx, slug, series)
	}
	return &usecase.Insight{Dataset: slug, Series: series, Summary: "mock commentary"}, nil
}

func newInsightsRouter(h *InsightsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/insights/:slug", h.Commentary)
	return r
}

func TestInsightsHandler_Commentary(t *testing.T) {
	t.Run("returns the generated summary", func(t *testing.T) {
		mock := &mockInsightsUsecase{
			CommentaryFunc: func(ctx context.Context, slug, series string) (*usecase.Insight, error) {
				return &usecase.Insight{Dataset: slug, Series: "Placements", Summary: "trending up"}, nil
			},
		}
		r := newInsightsRouter(NewInsightsHandler(mock))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/placements?series=Placements", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"summary":"trending up"`)
		assert.Contains(t, w.Body.String(), `"dataset":"placements"`)
	})

	t.Run("generation failure maps to 502", func(t *testing.T) {
		mock := &mockInsightsUsecase{
			CommentaryFunc: func(ctx context.Context, slug, series string) (*usecase.Insight, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		r := newInsightsRouter(NewInsightsHandler(mock))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/placements", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unconfigured analyzer maps to 503", func(t *testing.T) {
		r := newInsightsRouter(NewInsightsHandler(nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/placements", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
