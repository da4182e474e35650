package main

import (
	"context"
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"dashboard_backend/internal/app/router"
	analyticshandler "dashboard_backend/internal/feature/analytics/transport/handler"
	analyticsusecase "dashboard_backend/internal/feature/analytics/usecase"
	authadapters "dashboard_backend/internal/feature/auth/adapters"
	authhandler "dashboard_backend/internal/feature/auth/transport/handler"
	authusecase "dashboard_backend/internal/feature/auth/usecase"
	datasetadapters "dashboard_backend/internal/feature/datasets/adapters"
	datasethandler "dashboard_backend/internal/feature/datasets/transport/handler"
	datasetusecase "dashboard_backend/internal/feature/datasets/usecase"
	"dashboard_backend/internal/feature/insights/adapters/gemini"
	insightshandler "dashboard_backend/internal/feature/insights/transport/handler"
	insightsusecase "dashboard_backend/internal/feature/insights/usecase"
	"dashboard_backend/internal/platform/cache"
	infradb "dashboard_backend/internal/platform/db"
	"dashboard_backend/internal/platform/gate"
	"dashboard_backend/internal/platform/hash"
	jwtmw "dashboard_backend/internal/platform/jwt"
	infraredis "dashboard_backend/internal/platform/redis"
	"dashboard_backend/internal/platform/session"
	"dashboard_backend/internal/platform/token"
	"dashboard_backend/internal/shared/ratelimiter"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to in-memory sessions and no cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Auth stores (whole-file JSON documents)
	credStore := authadapters.NewCredentialFile(os.Getenv("USERS_FILE"))
	resetStore := authadapters.NewResetTokenFile(os.Getenv("RESET_TOKENS_FILE"))

	// Sessions: Redis when available, otherwise in-process
	var sessions authusecase.SessionRepository
	if rdb != nil {
		sessions = session.NewSessionRedis(rdb, "sessions")
	} else {
		sessions = session.NewSessionMemory()
	}

	// Datasets repository, Redisキャッシュでラップ
	obsRepo := datasetadapters.NewObservationRepository(db)
	cachedRepo := cache.NewCachingObservationRepository(rdb, 15*time.Minute, obsRepo, "series")

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(gate.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// リセット要求の検索ポリシー（既定はメールアドレス検索・列挙攻撃対策あり）
	policy := authusecase.ResetByEmail
	if os.Getenv("RESET_LOOKUP") == "username" {
		policy = authusecase.ResetByUsername
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(credStore, resetStore, sessions,
		hash.NewHasher(), token.NewGenerator(), jwtmw.NewGenerator(secret, time.Hour), policy)
	datasetsUC := datasetusecase.NewDatasetsUsecase(cachedRepo)
	analyticsUC := analyticsusecase.NewAnalyticsUsecase(cachedRepo)

	// Insights（Gemini未設定時はエンドポイントが503を返す）
	var insightsH *insightshandler.InsightsHandler
	if analyzer, err := gemini.NewGeminiAnalyzer(context.Background()); err != nil {
		log.Println("[WARN] Gemini unavailable. Insights endpoint disabled:", err)
		insightsH = insightshandler.NewInsightsHandler(nil)
	} else {
		insightsH = insightshandler.NewInsightsHandler(insightsusecase.NewInsightsUsecase(cachedRepo, analyzer))
	}

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	datasetsH := datasethandler.NewDatasetHandler(datasetsUC)
	analyticsH := analyticshandler.NewAnalyticsHandler(analyticsUC)

	// ログイン試行のレートリミット（IPごとに毎分10回）
	limiter := ratelimiter.NewLimiter(10, time.Minute)

	// ルータ生成
	r := router.NewRouter(authH, datasetsH, analyticsH, insightsH, sessions, limiter)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
