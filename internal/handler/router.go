package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/minisns/internal/metrics"
	"github.com/hitoshi/minisns/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 観測
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler
	HealthChecker  HealthChecker

	// サービス
	AuthService       AuthServiceInterface
	UserService       UserServiceInterface
	FollowService     FollowServiceInterface
	PostService       PostServiceInterface
	EngagementService EngagementServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証不要ルート（/register、/authenticate、/token/refresh、/health、/metrics）は
// 認証ミドルウェアの外に配置する。認証ルートにはAuth → RateLimit(General)を適用し、
// コンテンツ作成（POST /posts、POST /comment/{id}）には作成専用レート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(metrics.Middleware(deps.Metrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService)
	followHandler := NewFollowHandler(deps.FollowService, deps.Metrics)
	postHandler := NewPostHandler(deps.PostService, deps.Metrics)
	engagementHandler := NewEngagementHandler(deps.EngagementService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Post("/register", authHandler.Register)
	r.Post("/authenticate", authHandler.Authenticate)
	r.Post("/token/refresh", authHandler.Refresh)

	r.Get("/health", healthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール
		r.Get("/user", userHandler.GetSelf)

		// フォローグラフ
		r.Post("/follow/{id}", followHandler.Follow)
		r.Post("/unfollow/{id}", followHandler.Unfollow)

		// 投稿管理
		// POST /posts - 投稿作成（作成専用レート制限を追加）
		r.With(deps.RateLimiter.WriteMiddleware()).Post("/posts", postHandler.CreatePost)
		r.Get("/posts/{id}", engagementHandler.GetPost)
		r.Delete("/posts/{id}", postHandler.DeletePost)
		r.Get("/all_posts", postHandler.ListOwnPosts)

		// エンゲージメント
		r.Post("/like/{id}", engagementHandler.Like)
		r.Post("/unlike/{id}", engagementHandler.Unlike)
		r.With(deps.RateLimiter.WriteMiddleware()).Post("/comment/{id}", engagementHandler.Comment)
	})

	return r
}

// healthHandler はストア疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
