// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュであり、コアロジックからは不透明な値として扱う。
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Follow はフォロー関係（有向エッジ follower → followee）を表す。
// (FollowerID, FolloweeID) の組は一意であり、自己フォローは存在しない。
// フォロワー一覧は逆方向インデックスから導出し、二重には保存しない。
type Follow struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}

// Identity は検証済みアクセストークンから取り出した認証主体を表す。
// 全エンジン呼び出しに明示的な引数として受け渡す。
type Identity struct {
	UserID   string
	Username string
}

// RefreshToken は発行済みリフレッシュトークンのサーバー側レコードを表す。
// 失効とローテーションを可能にするため永続化する。
type RefreshToken struct {
	ID        string
	UserID    string
	TokenID   string // JWTのjtiクレーム
	ExpiresAt time.Time
	CreatedAt time.Time
}
