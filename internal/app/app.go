// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/tubesum/internal/auth"
	"github.com/hitoshi/tubesum/internal/config"
	"github.com/hitoshi/tubesum/internal/database"
	"github.com/hitoshi/tubesum/internal/executor"
	"github.com/hitoshi/tubesum/internal/fetch"
	"github.com/hitoshi/tubesum/internal/handler"
	"github.com/hitoshi/tubesum/internal/logger"
	"github.com/hitoshi/tubesum/internal/metrics"
	"github.com/hitoshi/tubesum/internal/middleware"
	"github.com/hitoshi/tubesum/internal/pipeline"
	"github.com/hitoshi/tubesum/internal/repository"
	"github.com/hitoshi/tubesum/internal/security"
	"github.com/hitoshi/tubesum/internal/summarize"
	"github.com/hitoshi/tubesum/internal/transcribe"
	"github.com/hitoshi/tubesum/internal/translate"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	summaryRepo := repository.NewPostgresSummaryRepo(db)

	// 3. セキュリティサービスの初期化
	urlGuard := security.NewURLGuard()
	titleSanitizer := security.NewTitleSanitizer()

	// 4. 認証サービスの初期化
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	authService := auth.NewService(userRepo, tokenIssuer)

	// 5. パイプラインステージの初期化
	cmdExecutor := executor.New()

	// タイトル補完のoEmbed取得はSSRF防止付きクライアントで行う
	audioFetcher, err := fetch.NewYtdlpFetcher(cmdExecutor, urlGuard.NewSafeClient(10*time.Second), cfg.YtdlpPath, cfg.ScratchDir)
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}

	transcriber := transcribe.NewWhisperTranscriber(cmdExecutor, transcribe.WhisperConfig{
		BinaryPath: cfg.WhisperPath,
		ModelPath:  cfg.WhisperModel,
		Threads:    cfg.WhisperThreads,
	})

	summarizer, err := summarize.NewGeminiSummarizer(cfg.GeminiAPIKeys, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("failed to initialize summarizer: %w", err)
	}

	translator, err := translate.NewGeminiTranslator(cfg.GeminiAPIKeys[0], cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("failed to initialize translator: %w", err)
	}

	// 6. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 7. パイプラインのワイヤリング
	pipelineService := pipeline.NewService(
		urlGuard,
		titleSanitizer,
		audioFetcher,
		transcriber,
		summarizer,
		translator,
		summaryRepo,
		collector,
		pipeline.Timeouts{
			Fetch:      cfg.FetchTimeout,
			Transcribe: cfg.TranscribeTimeout,
			Summarize:  cfg.SummarizeTimeout,
			Translate:  cfg.TranslateTimeout,
		},
	)

	// 8. ルーターの構築
	// configのレート制限はreq/min単位なのでreq/secに変換する
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.SummarizeRate = rate.Limit(float64(cfg.RateLimitSummarize) / 60.0)
	rateLimiterCfg.SummarizeBurst = cfg.RateLimitSummarize

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		TokenVerifier:     tokenIssuer,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		Collector:         collector,
		MetricsHandler:    metrics.Handler(registry),

		AuthService: authService,
		Pipeline:    pipelineService,
		History:     summaryRepo,
	}

	router := handler.NewRouter(deps)

	// 9. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // 要約パイプラインは長時間かかるため
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
