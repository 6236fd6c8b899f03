// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/tubesum/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// 正規化は行わず、保存された値との完全一致で検索する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	// email または username の一意制約違反の場合はmodel.NewDuplicateUserError()を返す。
	Create(ctx context.Context, user *model.User) error
}

// SummaryRepository は要約履歴の永続化インターフェース。
type SummaryRepository interface {
	// Create は要約履歴を作成する。パイプライン成功時のみ呼ばれる。
	Create(ctx context.Context, record *model.SummaryRecord) error

	// ListByUserID は指定ユーザーの要約履歴を新しい順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.SummaryRecord, error)
}
