// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, pipeline, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
// 翻訳失敗はこの分類に含まれない。翻訳は失敗しても要約を英語のまま返す
// 縮退モードで処理される。
const (
	ErrCodeDuplicateUser       = "DUPLICATE_USER"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	ErrCodeFetchFailed         = "FETCH_FAILED"
	ErrCodeTranscriptionFailed = "TRANSCRIPTION_FAILED"
	ErrCodeSummarizationFailed = "SUMMARIZATION_FAILED"
	ErrCodeInvalidURL          = "INVALID_URL"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewDuplicateUserError は重複登録エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "このメールアドレスまたはユーザー名は既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスまたはユーザー名で登録するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// アカウント列挙を防ぐため、メールアドレス不明とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnsupportedLanguageError は未対応言語エラーを生成する。
func NewUnsupportedLanguageError(language string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedLanguage,
		Message:  fmt.Sprintf("未対応の言語です: %s", language),
		Category: "validation",
		Action:   "GET /languages で対応言語の一覧を確認してください。",
	}
}

// NewInvalidURLError は無効な動画URLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効な動画URLです: %s", reason),
		Category: "validation",
		Action:   "http:// または https:// で始まる公開動画のURLを入力してください。",
	}
}

// NewFetchFailedError は音声ダウンロード失敗エラーを生成する。
func NewFetchFailedError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("動画の音声取得に失敗しました: %v", cause),
		Category: "pipeline",
		Action:   "URLが正しいか、動画が公開されているか確認してください。",
	}
}

// NewTranscriptionFailedError は文字起こし失敗エラーを生成する。
func NewTranscriptionFailedError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeTranscriptionFailed,
		Message:  fmt.Sprintf("音声の文字起こしに失敗しました: %v", cause),
		Category: "pipeline",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewSummarizationFailedError は要約生成失敗エラーを生成する。
func NewSummarizationFailedError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeSummarizationFailed,
		Message:  fmt.Sprintf("要約の生成に失敗しました: %v", cause),
		Category: "pipeline",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
