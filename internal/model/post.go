// Package model はドメインモデルを定義する。
package model

import "time"

// TitleMaxLength は投稿タイトルの最大文字数。
const TitleMaxLength = 100

// Post は投稿を表す。
// UserID（所有者）は作成後に変更されない。
// いいね集合とコメント一覧はPostが排他的に所有し、投稿削除時にカスケード削除される。
type Post struct {
	ID          string
	UserID      string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment は投稿に対するコメントを表す。
// 親投稿（PostID）は作成後に変更されず、親投稿の削除時にのみ削除される。
type Comment struct {
	ID        string
	UserID    string
	PostID    string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentView はコメントと著者名を結合した読み取り専用ビュー。
type CommentView struct {
	ID         string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// PostSummary は投稿のいいね数・コメント一覧（作成順）を結合した読み取り専用ビュー。
type PostSummary struct {
	PostID       string
	LikeCount    int
	Comments     []CommentView
	CommentCount int
}
