package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/learnlog/internal/metrics"
	"github.com/hitoshi/learnlog/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// インフラ
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer
	Logger          *slog.Logger

	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsRecorder   middleware.HTTPMetricsRecorder

	// 認証
	AuthService AuthServiceInterface
	AdminCheck  AdminChecker
	AuthConfig  AuthHandlerConfig

	// 記事
	PostService PostServiceInterface

	// コメント
	CommentService CommentServiceInterface

	// アバタープロキシ
	UserFinder    UserFinder
	AvatarFetcher AvatarFetcher
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging
//
// 閲覧系ルート（記事・コメントの読み取り、認証フロー、ヘルスチェック）は
// セッションミドルウェアの外に配置する。変更系ルートは
// Session → RateLimit(General) → CSRF のグループ内に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AdminCheck, deps.AuthConfig)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)
	userHandler := NewUserHandler(deps.UserFinder, deps.AvatarFetcher)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 記事・コメントの閲覧（公開）
	r.Get("/api/posts", postHandler.ListPosts)
	r.Get("/api/posts/{id}", postHandler.GetPost)
	r.Get("/api/posts/{id}/comments", commentHandler.ListComments)

	// アバタープロキシ（公開）
	r.Get("/api/users/{id}/avatar", userHandler.GetAvatar)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// 記事の変更（管理者ゲートはサービス層で判定）
		r.Post("/api/posts", postHandler.CreatePost)
		r.Patch("/api/posts/{id}", postHandler.UpdatePost)
		r.Delete("/api/posts/{id}", postHandler.DeletePost)

		// コメント投稿（投稿専用レート制限を追加）
		r.With(deps.RateLimiter.CommentPostingMiddleware()).
			Post("/api/posts/{id}/comments", commentHandler.CreateComment)

		// コメント削除（本人または管理者）
		r.Delete("/api/comments/{id}", commentHandler.DeleteComment)
	})

	return r
}
