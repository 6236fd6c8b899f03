package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/tubesum/internal/model"
)

// --- ヘルパー ---

func authedRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	ctx := ContextWithUser(req.Context(), &model.User{ID: userID})
	return req.WithContext(ctx)
}

// --- GeneralMiddleware のテスト ---

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     2, // 2 req/sec
		GeneralBurst:    5, // バースト5
		SummarizeRate:   1,
		SummarizeBurst:  10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, authedRequest("user-1"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1, // 1 req/sec
		GeneralBurst:    2, // バースト2
		SummarizeRate:   1,
		SummarizeBurst:  10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, authedRequest("user-rate-limit"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目は429
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("user-rate-limit"))

	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}
	if w.Result().Header.Get("Retry-After") == "" {
		t.Error("Retry-After header should be set on 429")
	}
}

func TestRateLimitMiddleware_UnauthenticatedIs401(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached without auth")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// ユーザーごとに独立したリミッターが使われることを検証
func TestRateLimitMiddleware_PerUserIsolation(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SummarizeRate:   1,
		SummarizeBurst:  1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-aがバーストを使い切る
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("user-a"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("user-a"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("user-a second request: status = %d, want 429", w.Result().StatusCode)
	}

	// user-bは影響を受けない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("user-b"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user-b: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("limiter count = %d, want 2", rl.GeneralLimiterCount())
	}
}

// --- SummarizeMiddleware のテスト ---

// 要約リミッターはAPI全般リミッターと独立に動作することを検証
func TestSummarizeMiddleware_IndependentFromGeneral(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		SummarizeRate:   1,
		SummarizeBurst:  1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	summarize := rl.SummarizeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 要約リミッターのバーストを使い切る
	w := httptest.NewRecorder()
	summarize.ServeHTTP(w, authedRequest("user-1"))
	w = httptest.NewRecorder()
	summarize.ServeHTTP(w, authedRequest("user-1"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("summarize second request: status = %d, want 429", w.Result().StatusCode)
	}

	// API全般はまだ通る
	w = httptest.NewRecorder()
	general.ServeHTTP(w, authedRequest("user-1"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("general after summarize 429: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

// --- cleanup のテスト ---

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SummarizeRate:   1,
		SummarizeBurst:  1,
		CleanupInterval: 1 * time.Millisecond,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	rl.getOrCreateGeneralLimiter("stale-user")

	// lastAccessを過去に偽装
	rl.generalMu.Lock()
	rl.generalLimiters["stale-user"].lastAccess = time.Now().Add(-time.Hour)
	rl.generalMu.Unlock()

	rl.cleanup()

	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("limiter count after cleanup = %d, want 0", rl.GeneralLimiterCount())
	}
}
