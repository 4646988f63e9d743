// Package cleanup は期限切れリフレッシュトークンの自動削除ジョブを提供する。
// 有効期限を過ぎたトークンレコードを日次バッチで削除する。
// 期限切れレコードはRefresh時の照合で既に拒否されるため、
// このジョブはストアの肥大化を防ぐためのものである。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/minisns/internal/repository"
)

// CleanupJob は期限切れリフレッシュトークンの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	tokenRepo repository.RefreshTokenRepository
	logger    *slog.Logger
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(tokenRepo repository.RefreshTokenRepository, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// Run は有効期限を過ぎたリフレッシュトークンレコードを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("トークンクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("トークンクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("トークンクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
