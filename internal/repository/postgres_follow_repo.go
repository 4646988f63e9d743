package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/minisns/internal/model"
)

// PostgresFollowRepo はPostgreSQLを使用したフォロー関係リポジトリ。
// エッジの一意性は (follower_id, followee_id) の複合主キーで保証する。
// 存在チェックを通過した同時リクエストは主キー違反として検出される。
type PostgresFollowRepo struct {
	db *sql.DB
}

// NewPostgresFollowRepo はPostgresFollowRepoを生成する。
func NewPostgresFollowRepo(db *sql.DB) *PostgresFollowRepo {
	return &PostgresFollowRepo{db: db}
}

// Exists はエッジ (followerID → followeeID) の有無を完全一致で判定する。
func (r *PostgresFollowRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("フォローエッジの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Create はエッジを挿入する。既に存在する場合はErrDuplicateKeyを返す。
func (r *PostgresFollowRepo) Create(ctx context.Context, follow *model.Follow) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES ($1, $2, $3)`,
		follow.FollowerID, follow.FolloweeID, follow.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("フォローエッジの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はエッジを削除する。削除した場合はtrueを返す。
func (r *PostgresFollowRepo) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID,
	)
	if err != nil {
		return false, fmt.Errorf("フォローエッジの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// CountFollowing はユーザーの発信エッジ数（フォロー数）を返す。
func (r *PostgresFollowRepo) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("フォロー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountFollowers はユーザーの受信エッジ数（フォロワー数）を返す。
// idx_follows_followee による逆方向インデックス検索。
func (r *PostgresFollowRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE followee_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("フォロワー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ FollowRepository = (*PostgresFollowRepo)(nil)
