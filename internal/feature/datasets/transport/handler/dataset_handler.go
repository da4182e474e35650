// Package handler はdatasetsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/feature/datasets/domain/entity"
	"dashboard_backend/internal/feature/datasets/transport/http/dto"
)

// DatasetsUsecase はデータセット操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DatasetsUsecase interface {
	ListDatasets(ctx context.Context) ([]entity.Dataset, error)
	GetSeries(ctx context.Context, slug, series string) ([]entity.Observation, error)
	ExportCSV(ctx context.Context, slug string, w io.Writer) error
}

// DatasetHandler はデータセットのHTTPリクエストを処理します。
type DatasetHandler struct {
	uc DatasetsUsecase
}

// NewDatasetHandler は指定されたusecaseでDatasetHandlerの新しいインスタンスを生成します。
func NewDatasetHandler(uc DatasetsUsecase) *DatasetHandler {
	return &DatasetHandler{uc: uc}
}

// List はカタログのデータセット一覧をJSONで返します。
//
// エンドポイント例:
// GET /datasets
func (h *DatasetHandler) List(c *gin.Context) {
	datasets, err := h.uc.ListDatasets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.DatasetItem, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, dto.DatasetItem{Slug: d.Slug, Name: d.Name, Frequency: d.Frequency, Unit: d.Unit})
	}
	c.JSON(http.StatusOK, out)
}

// GetSeries は指定データセットの1系列をJSONで返します。
// 系列名が未指定の場合はデータセットの最初の系列を返します。
//
// エンドポイント例:
// GET /datasets/:slug?series=Hatching%20Eggs
func (h *DatasetHandler) GetSeries(c *gin.Context) {
	slug := c.Param("slug")
	series := c.Query("series")

	obs, err := h.uc.GetSeries(c.Request.Context(), slug, series)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	res := dto.SeriesResponse{Dataset: slug, Points: make([]dto.SeriesPoint, 0, len(obs))}
	for _, o := range obs {
		res.Series = o.Series
		res.Points = append(res.Points, dto.SeriesPoint{
			Date:  o.Date.UTC().Format("2006-01-02"),
			Value: o.Value,
		})
	}
	c.JSON(http.StatusOK, res)
}

// ExportCSV はデータセット全体をCSVファイルとしてダウンロードさせます。
//
// エンドポイント例:
// GET /datasets/:slug/csv
func (h *DatasetHandler) ExportCSV(c *gin.Context) {
	slug := c.Param("slug")

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+".csv"))

	if err := h.uc.ExportCSV(c.Request.Context(), slug, c.Writer); err != nil {
		// ヘッダー送出後はエラーをボディで返せないためログのみ
		slog.Error("csv export failed", "dataset", slug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
}
