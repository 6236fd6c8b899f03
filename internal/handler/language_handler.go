package handler

import (
	"net/http"

	"github.com/hitoshi/tubesum/internal/language"
)

// LanguageHandler は対応言語一覧のHTTPハンドラー。
type LanguageHandler struct{}

// NewLanguageHandler はLanguageHandlerを生成する。
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// languagesResponse は対応言語一覧のレスポンス。
type languagesResponse struct {
	Languages []string `json:"languages"`
}

// ListLanguages は対応言語の一覧を返す。"english" が常に先頭。
// GET /languages
func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Languages: language.Names(),
	})
}
