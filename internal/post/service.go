// Package post は投稿ライフサイクルのドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/minisns/internal/authz"
	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/repository"
)

// Sanitizer はユーザー入力のサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service は投稿ライフサイクルのサービス層。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(postRepo repository.PostRepository, sanitizer Sanitizer) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
	}
}

// CreatePost は新しい投稿を作成する。
// タイトル・本文はサニタイズ後に検証する。いいね集合とコメント一覧は空で開始する。
func (s *Service) CreatePost(ctx context.Context, ownerID, title, description string) (*model.Post, error) {
	cleanTitle := s.sanitizer.Sanitize(title)
	cleanDesc := s.sanitizer.Sanitize(description)

	if cleanTitle == "" {
		return nil, model.NewInvalidPostError("タイトルが空です")
	}
	if utf8.RuneCountInString(cleanTitle) > model.TitleMaxLength {
		return nil, model.NewInvalidPostError(fmt.Sprintf("タイトルは%d文字以内にしてください", model.TitleMaxLength))
	}
	if cleanDesc == "" {
		return nil, model.NewInvalidPostError("本文が空です")
	}

	now := time.Now()
	post := &model.Post{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       cleanTitle,
		Description: cleanDesc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}

	slog.Info("post created",
		slog.String("user_id", ownerID),
		slog.String("post_id", post.ID),
	)

	return post, nil
}

// DeletePost は投稿を削除する。所有者のみ実行できる。
// コメントといいね集合はストアのCASCADE削除により同一トランザクションで消える。
func (s *Service) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if apiErr := authz.Check(authz.OpDeletePost, actorID, post.UserID); apiErr != nil {
		return apiErr
	}

	deleted, err := s.postRepo.DeleteByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}
	if !deleted {
		// 取得後に別リクエストが削除した場合
		return model.NewPostNotFoundError(postID)
	}

	slog.Info("post deleted",
		slog.String("user_id", actorID),
		slog.String("post_id", postID),
	)

	return nil
}

// PostInfo は一覧表示用の投稿ビュー。いいね数・コメント数を含む。
type PostInfo struct {
	ID           string
	Title        string
	Description  string
	CreatedAt    time.Time
	LikeCount    int
	CommentCount int
}

// ListPostsByOwner は所有者の投稿一覧をいいね数・コメント数付きで作成順で返す。
// 呼び出しのたびに再クエリするため、スナップショットではなく現在の状態を反映する。
func (s *Service) ListPostsByOwner(ctx context.Context, ownerID string) ([]PostInfo, error) {
	rows, err := s.postRepo.ListWithCountsByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}

	infos := make([]PostInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, PostInfo{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			CreatedAt:    row.CreatedAt,
			LikeCount:    row.LikeCount,
			CommentCount: row.CommentCount,
		})
	}
	return infos, nil
}
