// Package handler はanalyticsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/feature/analytics/usecase"
)

// AnalyticsUsecase は時系列変換のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalyticsUsecase interface {
	YoY(ctx context.Context, slug, series string) ([]usecase.GrowthPoint, error)
	Rolling(ctx context.Context, slug, series string, window int) ([]usecase.Point, error)
	Cumulative(ctx context.Context, slug, series string) ([]usecase.Point, error)
	Ratio(ctx context.Context, numSlug, numSeries, denSlug, denSeries string, window int) (*usecase.RatioResult, error)
	Yield(ctx context.Context) (*usecase.RatioResult, error)
	EggBreak(ctx context.Context) (*usecase.RatioResult, error)
}

// AnalyticsHandler は分析エンドポイントのHTTPリクエストを処理します。
type AnalyticsHandler struct {
	uc AnalyticsUsecase
}

// NewAnalyticsHandler は指定されたusecaseでAnalyticsHandlerの新しいインスタンスを生成します。
func NewAnalyticsHandler(uc AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// growthItem は前年同期比のレスポンス1点です。
type growthItem struct {
	Date     string  `json:"date"`
	Year     int     `json:"year"`
	Period   int     `json:"period"`
	Value    float64 `json:"value"`
	Previous float64 `json:"previous"`
	Growth   float64 `json:"growth_pct"`
}

// pointItem は計算値のレスポンス1点です。
type pointItem struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func toGrowthItems(points []usecase.GrowthPoint) []growthItem {
	out := make([]growthItem, 0, len(points))
	for _, p := range points {
		out = append(out, growthItem{
			Date:     p.Date.UTC().Format("2006-01-02"),
			Year:     p.Year,
			Period:   p.Period,
			Value:    p.Value,
			Previous: p.Previous,
			Growth:   p.Growth,
		})
	}
	return out
}

func toPointItems(points []usecase.Point) []pointItem {
	out := make([]pointItem, 0, len(points))
	for _, p := range points {
		out = append(out, pointItem{Date: p.Date.UTC().Format("2006-01-02"), Value: p.Value})
	}
	return out
}

func ratioResponse(r *usecase.RatioResult) gin.H {
	return gin.H{
		"ratio":   toPointItems(r.Ratio),
		"rolling": toPointItems(r.Rolling),
		"window":  r.Window,
	}
}

// YoY は前年同期比成長率を返します。
//
// エンドポイント例:
// GET /analytics/yoy/:slug?series=Placements
func (h *AnalyticsHandler) YoY(c *gin.Context) {
	points, err := h.uc.YoY(c.Request.Context(), c.Param("slug"), c.Query("series"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toGrowthItems(points))
}

// Rolling は移動平均を返します。
//
// エンドポイント例:
// GET /analytics/rolling/:slug?series=Hatching%20Eggs&window=12
func (h *AnalyticsHandler) Rolling(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", "12"))
	points, err := h.uc.Rolling(c.Request.Context(), c.Param("slug"), c.Query("series"), window)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPointItems(points))
}

// Cumulative は累積和を返します。
//
// エンドポイント例:
// GET /analytics/cumulative/:slug?series=Placements
func (h *AnalyticsHandler) Cumulative(c *gin.Context) {
	points, err := h.uc.Cumulative(c.Request.Context(), c.Param("slug"), c.Query("series"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPointItems(points))
}

// Ratio は任意の2系列の比率と移動平均を返します。
//
// エンドポイント例:
// GET /analytics/ratio?num=eggs&num_series=Hatching%20Eggs&den=herd&den_series=Layer_Herd
func (h *AnalyticsHandler) Ratio(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", "12"))
	result, err := h.uc.Ratio(c.Request.Context(),
		c.Query("num"), c.Query("num_series"),
		c.Query("den"), c.Query("den_series"), window)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ratioResponse(result))
}

// Yield は産卵鶏1羽あたりの種卵数とLTMを返します。
//
// エンドポイント例:
// GET /analytics/yield
func (h *AnalyticsHandler) Yield(c *gin.Context) {
	result, err := h.uc.Yield(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ratioResponse(result))
}

// EggBreak は破卵率とその移動平均を返します。
//
// エンドポイント例:
// GET /analytics/egg-break
func (h *AnalyticsHandler) EggBreak(c *gin.Context) {
	result, err := h.uc.EggBreak(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ratioResponse(result))
}
