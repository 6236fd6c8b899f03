package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tubesum/internal/metrics"
	"github.com/hitoshi/tubesum/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector

	// メトリクス公開用ハンドラー。nilの場合は/metricsを公開しない。
	MetricsHandler http.Handler

	// サービス
	AuthService AuthServiceInterface
	Pipeline    PipelineInterface
	History     HistoryListerInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → [AuthMiddleware → RateLimit(General)]
//
// 登録・ログイン・言語一覧・ヘルスチェック・メトリクスは認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	languageHandler := NewLanguageHandler()
	summarizeHandler := NewSummarizeHandler(deps.Pipeline)
	historyHandler := NewHistoryHandler(deps.History)

	// --- 認証不要のルート ---

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/languages", languageHandler.ListLanguages)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.UserFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /summarize - 要約パイプライン（要約専用レート制限を追加）
		r.With(deps.RateLimiter.SummarizeMiddleware()).Post("/summarize", summarizeHandler.Summarize)

		r.Get("/history", historyHandler.ListHistory)
	})

	return r
}
