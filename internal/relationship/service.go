// Package relationship はフォローグラフのドメインロジックを提供する。
// フォローは (actor → target) の有向エッジであり、対称性は強制しない。
// 全操作はエッジ単位のO(1)処理で、グラフ走査は行わない。
package relationship

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/minisns/internal/authz"
	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/repository"
)

// Profile はユーザーのフォロー統計を含む読み取り専用ビュー。
type Profile struct {
	UserID         string
	Username       string
	FollowingCount int
	FollowerCount  int
}

// Service はフォロー関係のサービス層。
type Service struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *Service {
	return &Service{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Follow はactorからtargetへのフォローエッジを追加する。
// 判定順序: 対象の存在 → 自己フォロー禁止 → 重複禁止。
// 成功時は対象ユーザーの表示名を返す。
// 重複判定はエッジの完全一致検索で行い、同時実行時はストアの
// 一意制約違反を重複エラーに変換する（二重適用は起こらない）。
func (s *Service) Follow(ctx context.Context, actorID, targetID string) (string, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return "", fmt.Errorf("フォロー対象の取得に失敗しました: %w", err)
	}
	if target == nil {
		return "", model.NewUserNotFoundError(targetID)
	}

	if apiErr := authz.Check(authz.OpFollow, actorID, targetID); apiErr != nil {
		return "", apiErr
	}

	exists, err := s.followRepo.Exists(ctx, actorID, targetID)
	if err != nil {
		return "", fmt.Errorf("フォロー状態の確認に失敗しました: %w", err)
	}
	if exists {
		return "", model.NewAlreadyFollowingError(target.Username)
	}

	follow := &model.Follow{
		FollowerID: actorID,
		FolloweeID: targetID,
		CreatedAt:  time.Now(),
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if err == repository.ErrDuplicateKey {
			return "", model.NewAlreadyFollowingError(target.Username)
		}
		return "", fmt.Errorf("フォローエッジの追加に失敗しました: %w", err)
	}

	slog.Info("user followed",
		slog.String("follower_id", actorID),
		slog.String("followee_id", targetID),
	)

	return target.Username, nil
}

// Unfollow はactorからtargetへのフォローエッジを削除する。
// 判定順序: 対象の存在 → 自己フォロー禁止 → 未フォロー検出。
// 成功時は対象ユーザーの表示名を返す。
func (s *Service) Unfollow(ctx context.Context, actorID, targetID string) (string, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return "", fmt.Errorf("フォロー解除対象の取得に失敗しました: %w", err)
	}
	if target == nil {
		return "", model.NewUserNotFoundError(targetID)
	}

	if apiErr := authz.Check(authz.OpUnfollow, actorID, targetID); apiErr != nil {
		return "", apiErr
	}

	// 削除の成否で未フォローを検出する。存在確認と削除を分けると
	// 同時実行時に両方が存在確認を通過しうるため、単一のDELETEで判定する。
	deleted, err := s.followRepo.Delete(ctx, actorID, targetID)
	if err != nil {
		return "", fmt.Errorf("フォローエッジの削除に失敗しました: %w", err)
	}
	if !deleted {
		return "", model.NewNotFollowingError(target.Username)
	}

	slog.Info("user unfollowed",
		slog.String("follower_id", actorID),
		slog.String("followee_id", targetID),
	)

	return target.Username, nil
}

// GetProfile はユーザーのフォロー数・フォロワー数付きプロフィールを返す。
// フォロワー数はエッジ集合の逆方向インデックスから導出する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロー数の取得に失敗しました: %w", err)
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロワー数の取得に失敗しました: %w", err)
	}

	return &Profile{
		UserID:         user.ID,
		Username:       user.Username,
		FollowingCount: following,
		FollowerCount:  followers,
	}, nil
}
