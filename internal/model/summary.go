// Package model はドメインモデルを定義する。
package model

import "time"

// SummaryRecord はパイプライン成功1回につき1件作成される要約履歴を表す。
// 作成後は変更・削除されない。UserIDは外部キーだが所有参照ではなく、
// 将来ユーザーが独立に削除されてもカスケードしない設計。
type SummaryRecord struct {
	ID        string
	UserID    string
	VideoURL  string
	Title     string // ダウンローダーから取得したベストエフォートのタイトル
	Summary   string
	Language  string // 正規言語名（例: "english", "hindi"）
	CreatedAt time.Time
}

// Claims はログイン時に発行されるトークンに含まれる同一性主張を表す。
// 永続化されず、有効なトークンは常に既存ユーザー1人に対応する。
type Claims struct {
	Email    string
	Username string
	IssuedAt time.Time
	Expiry   time.Time
}
