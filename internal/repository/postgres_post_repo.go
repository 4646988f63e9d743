package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/minisns/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
// UUID形式でないIDはストアに問い合わせず未検出として扱う。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, created_at, updated_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.UserID, &post.Title, &post.Description, &post.CreatedAt, &post.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}

	return post, nil
}

// Create は投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.UserID, post.Title, post.Description, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの投稿を削除する。削除した場合はtrueを返す。
// likes、commentsはON DELETE CASCADEにより同一トランザクションで削除される。
func (r *PostgresPostRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListWithCountsByUserID はユーザーの投稿一覧をいいね数・コメント数付きで作成順で返す。
// likes、commentsとJOINして集計する。
func (r *PostgresPostRepo) ListWithCountsByUserID(ctx context.Context, userID string) ([]PostWithCounts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			p.id, p.user_id, p.title, p.description, p.created_at, p.updated_at,
			COALESCE(l.cnt, 0), COALESCE(c.cnt, 0)
		 FROM posts p
		 LEFT JOIN (
		     SELECT post_id, COUNT(*) AS cnt FROM likes GROUP BY post_id
		 ) l ON l.post_id = p.id
		 LEFT JOIN (
		     SELECT post_id, COUNT(*) AS cnt FROM comments GROUP BY post_id
		 ) c ON c.post_id = p.id
		 WHERE p.user_id = $1
		 ORDER BY p.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧（集計付き）の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []PostWithCounts
	for rows.Next() {
		var info PostWithCounts
		if err := rows.Scan(
			&info.ID, &info.UserID, &info.Title, &info.Description, &info.CreatedAt, &info.UpdatedAt,
			&info.LikeCount, &info.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("投稿行（集計付き）の読み取りに失敗しました: %w", err)
		}
		results = append(results, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("投稿一覧（集計付き）の走査に失敗しました: %w", err)
	}
	return results, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
