package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tubesum/internal/model"
)

// PostgresSummaryRepo はPostgreSQLを使用した要約履歴リポジトリ。
type PostgresSummaryRepo struct {
	db *sql.DB
}

// NewPostgresSummaryRepo はPostgresSummaryRepoを生成する。
func NewPostgresSummaryRepo(db *sql.DB) *PostgresSummaryRepo {
	return &PostgresSummaryRepo{db: db}
}

// Create は要約履歴を作成する。
func (r *PostgresSummaryRepo) Create(ctx context.Context, record *model.SummaryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO summary_history (id, user_id, video_url, original_title, summary, language, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.UserID, record.VideoURL, record.Title, record.Summary, record.Language, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert summary record: %w", err)
	}

	return nil
}

// ListByUserID は指定ユーザーの要約履歴を新しい順で返す。
func (r *PostgresSummaryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.SummaryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, video_url, original_title, summary, language, created_at
		 FROM summary_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary records: %w", err)
	}
	defer rows.Close()

	var records []*model.SummaryRecord
	for rows.Next() {
		rec := &model.SummaryRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.VideoURL, &rec.Title, &rec.Summary, &rec.Language, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary records: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ SummaryRepository = (*PostgresSummaryRepo)(nil)
