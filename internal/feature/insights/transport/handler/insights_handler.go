// Package handler はinsightsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/feature/insights/usecase"
)

// InsightsUsecase は市況コメント生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InsightsUsecase interface {
	Commentary(ctx context.Context, slug, series string) (*usecase.Insight, error)
}

// InsightsHandler は市況コメントのHTTPリクエストを処理します。
type InsightsHandler struct {
	uc InsightsUsecase
}

// NewInsightsHandler は指定されたusecaseでInsightsHandlerの新しいインスタンスを生成します。
func NewInsightsHandler(uc InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// Commentary は指定データセットの市況コメントをJSONで返します。
//
// エンドポイント例:
// GET /insights/:slug?series=Placements
func (h *InsightsHandler) Commentary(c *gin.Context) {
	if h.uc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insights are not configured"})
		return
	}
	slug := c.Param("slug")
	insight, err := h.uc.Commentary(c.Request.Context(), slug, c.Query("series"))
	if err != nil {
		slog.Warn("insight generation failed", "dataset", slug, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate insight"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset": insight.Dataset,
		"series":  insight.Series,
		"summary": insight.Summary,
	})
}
