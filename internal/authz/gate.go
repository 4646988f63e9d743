// Package authz は変更系操作に対する認可ゲートを提供する。
// ゲートは純粋関数であり、状態を持たず、ストアを変更しない。
// エンジン間で繰り返される2つのポリシーをここに集約する:
// 自己操作の禁止（自分をフォロー・自分の投稿への「いいね」操作）と、
// 所有者限定操作（投稿削除）。
package authz

import "github.com/hitoshi/minisns/internal/model"

// Operation は認可対象の操作種別を表す。
type Operation string

const (
	// OpFollow はフォロー操作。
	OpFollow Operation = "follow"
	// OpUnfollow はフォロー解除操作。
	OpUnfollow Operation = "unfollow"
	// OpLike はいいね操作。
	OpLike Operation = "like"
	// OpUnlike はいいね解除操作。
	// 自分の投稿への操作は禁止される（Likeが先に禁止されるため実際には到達しないが、
	// 元の仕様どおり禁止のまま保持する）。
	OpUnlike Operation = "unlike"
	// OpDeletePost は投稿削除操作。所有者のみ許可される。
	OpDeletePost Operation = "delete_post"
	// OpComment はコメント作成操作。自己投稿へのコメントも許可される。
	OpComment Operation = "comment"
	// OpCreatePost は投稿作成操作。常に許可される。
	OpCreatePost Operation = "create_post"
)

// Check は認証済みアクターによる操作の可否を判定する。
// subjectIDは操作対象の主体（フォロー対象ユーザー、または対象投稿の所有者）のID。
// 許可される場合はnil、拒否される場合は型付きエラーを返す。
// ここで拒否された操作はエンジンに到達せず、状態は一切変更されない。
func Check(op Operation, actorID, subjectID string) *model.APIError {
	switch op {
	case OpFollow, OpUnfollow:
		if actorID == subjectID {
			return model.NewSelfFollowError()
		}
	case OpLike, OpUnlike:
		if actorID == subjectID {
			return model.NewSelfLikeError()
		}
	case OpDeletePost:
		if actorID != subjectID {
			return model.NewNotPostOwnerError()
		}
	case OpComment, OpCreatePost:
		// 制約なし
	}
	return nil
}
