package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/tubesum/internal/middleware"
	"github.com/hitoshi/tubesum/internal/model"
)

// HistoryListerInterface は履歴ハンドラーが必要とするリポジトリインターフェース。
// repository.SummaryRepositoryの部分集合として定義する。
type HistoryListerInterface interface {
	// ListByUserID は指定ユーザーの要約履歴を新しい順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.SummaryRecord, error)
}

// HistoryHandler は要約履歴のHTTPハンドラー。
type HistoryHandler struct {
	summaries HistoryListerInterface
}

// NewHistoryHandler はHistoryHandlerを生成する。
func NewHistoryHandler(summaries HistoryListerInterface) *HistoryHandler {
	return &HistoryHandler{summaries: summaries}
}

// historyEntry は履歴1件のレスポンス。
type historyEntry struct {
	ID        string    `json:"id"`
	VideoURL  string    `json:"video_url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// historyResponse は履歴一覧のレスポンス。
type historyResponse struct {
	History []historyEntry `json:"history"`
}

// ListHistory は認証済みユーザーの要約履歴を新しい順で返す。
// GET /history
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
			Code:     "UNAUTHORIZED",
			Message:  "認証が必要です。",
			Category: "auth",
			Action:   "ログインしてください。",
		})
		return
	}

	records, err := h.summaries.ListByUserID(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	entries := make([]historyEntry, len(records))
	for i, rec := range records {
		entries[i] = historyEntry{
			ID:        rec.ID,
			VideoURL:  rec.VideoURL,
			Title:     rec.Title,
			Summary:   rec.Summary,
			Language:  rec.Language,
			CreatedAt: rec.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}
