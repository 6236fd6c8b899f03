package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/tubesum/internal/language"
	"github.com/hitoshi/tubesum/internal/middleware"
	"github.com/hitoshi/tubesum/internal/model"
	"github.com/hitoshi/tubesum/internal/pipeline"
)

// PipelineInterface は要約ハンドラーが必要とするパイプラインインターフェース。
type PipelineInterface interface {
	// Run は動画URLに対して要約パイプラインを1回実行する。
	Run(ctx context.Context, user *model.User, videoURL, languageName string) (*pipeline.Result, error)
}

// SummarizeHandler は動画要約のHTTPハンドラー。
type SummarizeHandler struct {
	pipeline PipelineInterface
}

// NewSummarizeHandler はSummarizeHandlerを生成する。
func NewSummarizeHandler(p PipelineInterface) *SummarizeHandler {
	return &SummarizeHandler{pipeline: p}
}

// summarizeRequest は要約リクエストのボディ。
// languageが省略された場合は "english" として扱う。
type summarizeRequest struct {
	VideoURL string `json:"video_url"`
	Language string `json:"language"`
}

// summarizeResponse は要約成功時のレスポンス。
type summarizeResponse struct {
	Success          bool   `json:"success"`
	Summary          string `json:"summary"`
	Language         string `json:"language"`
	TranscriptLength int    `json:"transcript_length"`
	SummaryLength    int    `json:"summary_length"`
	Message          string `json:"message"`
}

// Summarize は動画要約リクエストを処理する。
// POST /summarize
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
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

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	if req.VideoURL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidURLError("video_urlが空です"))
		return
	}
	if req.Language == "" {
		req.Language = language.English
	}

	result, err := h.pipeline.Run(r.Context(), user, req.VideoURL, req.Language)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{
		Success:          true,
		Summary:          result.Summary,
		Language:         result.Language,
		TranscriptLength: result.TranscriptLength,
		SummaryLength:    result.SummaryLength,
		Message:          result.Message,
	})
}
