package authz

import (
	"testing"

	"github.com/hitoshi/minisns/internal/model"
)

// TestCheck は操作種別ごとの認可判定を検証する。
func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		op        Operation
		actorID   string
		subjectID string
		wantCode  string // 空文字は許可を期待
	}{
		{"follow other", OpFollow, "u1", "u2", ""},
		{"follow self", OpFollow, "u1", "u1", model.ErrCodeSelfFollow},
		{"unfollow other", OpUnfollow, "u1", "u2", ""},
		{"unfollow self", OpUnfollow, "u1", "u1", model.ErrCodeSelfFollow},
		{"like other's post", OpLike, "u1", "u2", ""},
		{"like own post", OpLike, "u1", "u1", model.ErrCodeSelfLike},
		{"unlike other's post", OpUnlike, "u1", "u2", ""},
		{"unlike own post", OpUnlike, "u1", "u1", model.ErrCodeSelfLike},
		{"delete own post", OpDeletePost, "u1", "u1", ""},
		{"delete other's post", OpDeletePost, "u1", "u2", model.ErrCodeNotPostOwner},
		{"comment on other's post", OpComment, "u1", "u2", ""},
		{"comment on own post", OpComment, "u1", "u1", ""},
		{"create post", OpCreatePost, "u1", "u1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.op, tt.actorID, tt.subjectID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Check returned %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Check returned nil, want code %s", tt.wantCode)
			}
			if err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", err.Code, tt.wantCode)
			}
		})
	}
}

// TestCheck_NoStateChange はゲートが純粋関数として同一入力に同一結果を返すことを検証する。
func TestCheck_NoStateChange(t *testing.T) {
	for i := 0; i < 3; i++ {
		if err := Check(OpFollow, "u1", "u1"); err == nil || err.Code != model.ErrCodeSelfFollow {
			t.Fatalf("iteration %d: Check = %v, want SELF_FOLLOW", i, err)
		}
	}
}
