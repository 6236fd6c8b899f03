package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/tubesum/internal/model"
	"github.com/hitoshi/tubesum/internal/repository"
)

// Service は登録・ログインのサービス層。
type Service struct {
	userRepo repository.UserRepository
	issuer   *TokenIssuer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, issuer *TokenIssuer) *Service {
	return &Service{userRepo: userRepo, issuer: issuer}
}

// LoginResult はログイン成功時に返す認証情報。
type LoginResult struct {
	AccessToken string
	User        *model.User
}

// Register は新規ユーザーを作成する。
// email / username の重複は事前チェックで検出するが、同時登録の競合は
// ストレージ層の一意制約が最終的に防ぐ（リポジトリがDuplicateUserを返す）。
func (s *Service) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing == nil {
		existing, err = s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
		}
	}
	if existing != nil {
		return nil, model.NewDuplicateUserError()
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login は資格情報を検証し、成功時にベアラートークンを発行する。
// メールアドレス不明とパスワード不一致はいずれも同一の
// InvalidCredentialsエラーを返し、アカウント列挙を防ぐ。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, model.NewInvalidCredentialsError()
	}

	token, err := s.issuer.Issue(user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	return &LoginResult{AccessToken: token, User: user}, nil
}
