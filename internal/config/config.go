// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Pipeline
	ScratchDir        string
	YtdlpPath         string
	WhisperPath       string
	WhisperModel      string
	WhisperThreads    int
	GeminiAPIKeys     []string
	GeminiModel       string
	FetchTimeout      time.Duration
	TranscribeTimeout time.Duration
	SummarizeTimeout  time.Duration
	TranslateTimeout  time.Duration

	// Rate Limit
	RateLimitGeneral   int
	RateLimitSummarize int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.GeminiAPIKeys = splitCSV(os.Getenv("GEMINI_API_KEYS"))
	if len(cfg.GeminiAPIKeys) == 0 {
		missing = append(missing, "GEMINI_API_KEYS")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.TokenExpiry = getEnvDuration("TOKEN_EXPIRY", 24*time.Hour)
	cfg.ScratchDir = getEnvString("SCRATCH_DIR", "downloads")
	cfg.YtdlpPath = getEnvString("YTDLP_PATH", "yt-dlp")
	cfg.WhisperPath = getEnvString("WHISPER_PATH", "whisper-cli")
	cfg.WhisperModel = getEnvString("WHISPER_MODEL", "models/ggml-base.en.bin")
	cfg.WhisperThreads = getEnvInt("WHISPER_THREADS", 4)
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.5-flash")
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 5*time.Minute)
	cfg.TranscribeTimeout = getEnvDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute)
	cfg.SummarizeTimeout = getEnvDuration("SUMMARIZE_TIMEOUT", 2*time.Minute)
	cfg.TranslateTimeout = getEnvDuration("TRANSLATE_TIMEOUT", 2*time.Minute)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSummarize = getEnvInt("RATE_LIMIT_SUMMARIZE", 6)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// splitCSV はカンマ区切りの環境変数値を分割する。空要素は除外する。
func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
