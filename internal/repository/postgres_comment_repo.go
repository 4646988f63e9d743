package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/minisns/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, user_id, post_id, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.UserID, comment.PostID, comment.Body, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// ListViewsByPostID は投稿のコメント一覧を著者名付き・作成順で返す。
func (r *PostgresCommentRepo) ListViewsByPostID(ctx context.Context, postID string) ([]model.CommentView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, u.username, c.body, c.created_at
		 FROM comments c
		 JOIN users u ON c.user_id = u.id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var views []model.CommentView
	for rows.Next() {
		var v model.CommentView
		if err := rows.Scan(&v.ID, &v.AuthorName, &v.Body, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("コメント行の読み取りに失敗しました: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コメント一覧の走査に失敗しました: %w", err)
	}
	return views, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
