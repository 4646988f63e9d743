// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/minisns/internal/model"
)

// ErrDuplicateKey はストアの一意制約違反を表す。
// 同一操作の同時実行時、存在チェックを通過した2つ目のリクエストが
// この違反として検出され、エンジン層で重複エラーに変換される。
var ErrDuplicateKey = errors.New("duplicate key violates unique constraint")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが重複している場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, user *model.User) error
}

// FollowRepository はフォロー関係（有向エッジ集合）の永続化インターフェース。
// フォロワー一覧は逆方向インデックスで導出し、独立した複製は保存しない。
type FollowRepository interface {
	// Exists はエッジ (followerID → followeeID) の有無を完全一致で判定する。
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)

	// Create はエッジを挿入する。既に存在する場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, follow *model.Follow) error

	// Delete はエッジを削除する。削除した場合はtrueを返す。
	// エッジが存在しなかった場合はfalseを返す（エラーにはしない）。
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)

	// CountFollowing はユーザーの発信エッジ数（フォロー数）を返す。
	CountFollowing(ctx context.Context, userID string) (int, error)

	// CountFollowers はユーザーの受信エッジ数（フォロワー数）を返す。
	CountFollowers(ctx context.Context, userID string) (int, error)
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// DeleteByID は指定IDの投稿を削除する。削除した場合はtrueを返す。
	// 関連するlikes、commentsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) (bool, error)

	// ListWithCountsByUserID はユーザーの投稿一覧をいいね数・コメント数付きで
	// 作成順で返す。呼び出しのたびに再クエリし、現在の状態を返す。
	ListWithCountsByUserID(ctx context.Context, userID string) ([]PostWithCounts, error)
}

// PostWithCounts は投稿といいね数・コメント数を結合した構造体。
type PostWithCounts struct {
	model.Post
	LikeCount    int
	CommentCount int
}

// LikeRepository は投稿のいいね集合の永続化インターフェース。
type LikeRepository interface {
	// Exists は (userID, postID) のいいねの有無を判定する。
	Exists(ctx context.Context, userID, postID string) (bool, error)

	// Create はいいねを追加する。既に存在する場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, userID, postID string) error

	// Delete はいいねを削除する。削除した場合はtrueを返す。
	Delete(ctx context.Context, userID, postID string) (bool, error)

	// CountByPostID は投稿のいいね数を返す。
	CountByPostID(ctx context.Context, postID string) (int, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// ListViewsByPostID は投稿のコメント一覧を著者名付き・作成順で返す。
	ListViewsByPostID(ctx context.Context, postID string) ([]model.CommentView, error)
}

// RefreshTokenRepository は発行済みリフレッシュトークンの永続化インターフェース。
type RefreshTokenRepository interface {
	// Create はリフレッシュトークンレコードを作成する。
	Create(ctx context.Context, token *model.RefreshToken) error

	// FindByTokenID はjtiクレームでトークンレコードを検索する。見つからない場合はnilを返す。
	FindByTokenID(ctx context.Context, tokenID string) (*model.RefreshToken, error)

	// DeleteExpired は期限切れトークンレコードを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
