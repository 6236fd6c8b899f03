package repository

import "testing"

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresSummaryRepoはSummaryRepositoryインターフェースを満たすことを検証
func TestPostgresSummaryRepo_ImplementsInterface(t *testing.T) {
	var _ SummaryRepository = (*PostgresSummaryRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSummaryRepoが正しく初期化されることを検証
func TestNewPostgresSummaryRepo_Initializes(t *testing.T) {
	repo := NewPostgresSummaryRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
