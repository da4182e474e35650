package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	analyticshandler "dashboard_backend/internal/feature/analytics/transport/handler"
	authhandler "dashboard_backend/internal/feature/auth/transport/handler"
	datasethandler "dashboard_backend/internal/feature/datasets/transport/handler"
	insightshandler "dashboard_backend/internal/feature/insights/transport/handler"
	"dashboard_backend/internal/platform/gate"
	"dashboard_backend/internal/platform/http/handler"
	"dashboard_backend/internal/shared/ratelimiter"
)

// NewRouter は全エンドポイントを配線したgin.Engineを生成します。
// 認証系の書き込みエンドポイントにはクライアントIPごとのレートリミットを適用します。
func NewRouter(authHandler *authhandler.AuthHandler, datasets *datasethandler.DatasetHandler,
	analytics *analyticshandler.AnalyticsHandler, insights *insightshandler.InsightsHandler,
	sessions gate.SessionResolver, limiter ratelimiter.LimiterInterface) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（セッションCookie + JWT発行）、総当たり対策のレートリミット付き
	r.POST("/login", throttle(limiter), authHandler.Login)
	// ログアウト（未認証でも成功する）
	r.POST("/logout", authHandler.Logout)
	// パスワードリセット
	r.POST("/password-reset/request", throttle(limiter), authHandler.RequestReset)
	r.POST("/password-reset/redeem", throttle(limiter), authHandler.RedeemReset)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(gate.AuthRequired(sessions))
	{
		auth.GET("/datasets", datasets.List)
		auth.GET("/datasets/:slug", datasets.GetSeries)
		auth.GET("/datasets/:slug/csv", datasets.ExportCSV)

		auth.GET("/analytics/yoy/:slug", analytics.YoY)
		auth.GET("/analytics/rolling/:slug", analytics.Rolling)
		auth.GET("/analytics/cumulative/:slug", analytics.Cumulative)
		auth.GET("/analytics/ratio", analytics.Ratio)
		auth.GET("/analytics/yield", analytics.Yield)
		auth.GET("/analytics/egg-break", analytics.EggBreak)

		auth.GET("/insights/:slug", insights.Commentary)
	}

	return r
}

// throttle はクライアントIPごとのレートリミットを適用するミドルウェアです。
func throttle(limiter ratelimiter.LimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
