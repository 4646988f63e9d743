// Package engagement は投稿への「いいね」とコメントのドメインロジックを提供する。
package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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

// Service はエンゲージメントのサービス層。
type Service struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	sanitizer   Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	sanitizer Sanitizer,
) *Service {
	return &Service{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		sanitizer:   sanitizer,
	}
}

// LikePost は投稿のいいね集合にactorを追加する。
// 判定順序: 投稿の存在 → 自己いいね禁止 → 重複禁止。
// 所有者は自分の投稿のいいね集合に決して現れない。
// 同時実行時はストアの一意制約違反を重複エラーに変換する。
func (s *Service) LikePost(ctx context.Context, actorID, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if apiErr := authz.Check(authz.OpLike, actorID, post.UserID); apiErr != nil {
		return apiErr
	}

	exists, err := s.likeRepo.Exists(ctx, actorID, postID)
	if err != nil {
		return fmt.Errorf("いいね状態の確認に失敗しました: %w", err)
	}
	if exists {
		return model.NewAlreadyLikedError(postID)
	}

	if err := s.likeRepo.Create(ctx, actorID, postID); err != nil {
		if err == repository.ErrDuplicateKey {
			return model.NewAlreadyLikedError(postID)
		}
		return fmt.Errorf("いいねの追加に失敗しました: %w", err)
	}

	slog.Info("post liked",
		slog.String("user_id", actorID),
		slog.String("post_id", postID),
	)

	return nil
}

// UnlikePost は投稿のいいね集合からactorを削除する。
// 自分の投稿へのいいね解除も禁止される（LikePostが先に禁止するため
// 実際には到達しない分岐だが、元の挙動どおり保持する）。
func (s *Service) UnlikePost(ctx context.Context, actorID, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if apiErr := authz.Check(authz.OpUnlike, actorID, post.UserID); apiErr != nil {
		return apiErr
	}

	deleted, err := s.likeRepo.Delete(ctx, actorID, postID)
	if err != nil {
		return fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotLikedError(postID)
	}

	slog.Info("post unliked",
		slog.String("user_id", actorID),
		slog.String("post_id", postID),
	)

	return nil
}

// CommentOnPost は存在する投稿に新しいコメントを追加し、コメントIDを返す。
// 自己投稿へのコメントは許可される。本文はサニタイズ後に空ならエラー。
func (s *Service) CommentOnPost(ctx context.Context, actorID, postID, body string) (string, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return "", fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return "", model.NewPostNotFoundError(postID)
	}

	if apiErr := authz.Check(authz.OpComment, actorID, post.UserID); apiErr != nil {
		return "", apiErr
	}

	cleanBody := s.sanitizer.Sanitize(body)
	if cleanBody == "" {
		return "", model.NewEmptyCommentError()
	}

	now := time.Now()
	comment := &model.Comment{
		ID:        uuid.New().String(),
		UserID:    actorID,
		PostID:    postID,
		Body:      cleanBody,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return "", fmt.Errorf("コメントの追加に失敗しました: %w", err)
	}

	slog.Info("comment created",
		slog.String("user_id", actorID),
		slog.String("post_id", postID),
		slog.String("comment_id", comment.ID),
	)

	return comment.ID, nil
}

// GetPostSummary は投稿のいいね数・コメント一覧（作成順、著者名付き）・
// コメント数を返す。投稿が存在しない場合はPOST_NOT_FOUND。
func (s *Service) GetPostSummary(ctx context.Context, postID string) (*model.PostSummary, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	likeCount, err := s.likeRepo.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	comments, err := s.commentRepo.ListViewsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}

	return &model.PostSummary{
		PostID:       postID,
		LikeCount:    likeCount,
		Comments:     comments,
		CommentCount: len(comments),
	}, nil
}
