// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TitleSanitizerService はダウンローダーから取得した動画タイトルを
// サニタイズし、HTMLタグ混入によるXSSリスクから履歴表示を保護する。
// bluemondayのStrictPolicyにより、タグを一切許可しないプレーンテキスト化を行う。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService は外部由来テキストのサニタイズ機能のインターフェースを定義する。
// 要約履歴の保存前に動画タイトルへ適用される。
type TitleSanitizerService interface {
	// Sanitize はテキストから全てのHTMLタグを除去し、前後の空白を取り除く。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// タイトルはプレーンテキストとして扱うため、タグを一切許可しない
// StrictPolicyを使用する。
func NewTitleSanitizer() *titleSanitizer {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストから全てのHTMLタグを除去する。
func (s *titleSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
