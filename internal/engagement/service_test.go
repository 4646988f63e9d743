package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/repository"
)

// --- モック ---

type mockPostRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Post, error)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	return nil
}
func (m *mockPostRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	return false, nil
}
func (m *mockPostRepo) ListWithCountsByUserID(ctx context.Context, userID string) ([]repository.PostWithCounts, error) {
	return nil, nil
}

type mockLikeRepo struct {
	existsFn        func(ctx context.Context, userID, postID string) (bool, error)
	createFn        func(ctx context.Context, userID, postID string) error
	deleteFn        func(ctx context.Context, userID, postID string) (bool, error)
	countByPostIDFn func(ctx context.Context, postID string) (int, error)
}

func (m *mockLikeRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, postID)
	}
	return false, nil
}
func (m *mockLikeRepo) Create(ctx context.Context, userID, postID string) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, postID)
	}
	return nil
}
func (m *mockLikeRepo) Delete(ctx context.Context, userID, postID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, postID)
	}
	return false, nil
}
func (m *mockLikeRepo) CountByPostID(ctx context.Context, postID string) (int, error) {
	if m.countByPostIDFn != nil {
		return m.countByPostIDFn(ctx, postID)
	}
	return 0, nil
}

type mockCommentRepo struct {
	createFn            func(ctx context.Context, comment *model.Comment) error
	listViewsByPostIDFn func(ctx context.Context, postID string) ([]model.CommentView, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}
func (m *mockCommentRepo) ListViewsByPostID(ctx context.Context, postID string) ([]model.CommentView, error) {
	if m.listViewsByPostIDFn != nil {
		return m.listViewsByPostIDFn(ctx, postID)
	}
	return nil, nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

type emptySanitizer struct{}

func (emptySanitizer) Sanitize(raw string) string { return "" }

func postRepoWith(posts map[string]*model.Post) *mockPostRepo {
	return &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return posts[id], nil
		},
	}
}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- テスト ---

// TestService_LikePost はいいねの追加を検証する。
func TestService_LikePost(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}

	likeCreated := false
	likeRepo := &mockLikeRepo{
		createFn: func(ctx context.Context, userID, postID string) error {
			likeCreated = true
			return nil
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, &mockCommentRepo{}, passthroughSanitizer{})

	if err := svc.LikePost(context.Background(), "user-1", "post-1"); err != nil {
		t.Fatalf("LikePost returned error: %v", err)
	}
	if !likeCreated {
		t.Error("expected like to be created")
	}
}

// TestService_LikePost_OwnPost は自分の投稿へのいいね禁止を検証する。
func TestService_LikePost_OwnPost(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-1"},
	}
	svc := NewService(postRepoWith(posts), &mockLikeRepo{}, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.LikePost(context.Background(), "user-1", "post-1")
	assertCode(t, err, model.ErrCodeSelfLike)
}

// TestService_LikePost_PostNotFound は存在しない投稿へのいいねを検証する。
func TestService_LikePost_PostNotFound(t *testing.T) {
	svc := NewService(postRepoWith(nil), &mockLikeRepo{}, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.LikePost(context.Background(), "user-1", "no-such-post")
	assertCode(t, err, model.ErrCodePostNotFound)
}

// TestService_LikePost_AlreadyLiked はいいね重複の検出を検証する。
func TestService_LikePost_AlreadyLiked(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	likeRepo := &mockLikeRepo{
		existsFn: func(ctx context.Context, userID, postID string) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.LikePost(context.Background(), "user-1", "post-1")
	assertCode(t, err, model.ErrCodeAlreadyLiked)
}

// TestService_LikePost_ConcurrentDuplicate は同時実行時の一意制約違反が
// 重複エラーに変換されることを検証する。
func TestService_LikePost_ConcurrentDuplicate(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	likeRepo := &mockLikeRepo{
		existsFn: func(ctx context.Context, userID, postID string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, userID, postID string) error {
			return repository.ErrDuplicateKey
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.LikePost(context.Background(), "user-1", "post-1")
	assertCode(t, err, model.ErrCodeAlreadyLiked)
}

// TestService_UnlikePost はいいねの削除を検証する。
func TestService_UnlikePost(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	likeRepo := &mockLikeRepo{
		deleteFn: func(ctx context.Context, userID, postID string) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, &mockCommentRepo{}, passthroughSanitizer{})

	if err := svc.UnlikePost(context.Background(), "user-1", "post-1"); err != nil {
		t.Fatalf("UnlikePost returned error: %v", err)
	}
}

// TestService_UnlikePost_NotLiked は未いいね状態での解除を検証する。
func TestService_UnlikePost_NotLiked(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	likeRepo := &mockLikeRepo{
		deleteFn: func(ctx context.Context, userID, postID string) (bool, error) {
			return false, nil
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.UnlikePost(context.Background(), "user-1", "post-1")
	assertCode(t, err, model.ErrCodeNotLiked)
}

// TestService_UnlikePost_OwnPost は自分の投稿への「いいね」解除も禁止されることを検証する。
func TestService_UnlikePost_OwnPost(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-1"},
	}
	svc := NewService(postRepoWith(posts), &mockLikeRepo{}, &mockCommentRepo{}, passthroughSanitizer{})

	err := svc.UnlikePost(context.Background(), "user-1", "post-1")
	assertCode(t, err, model.ErrCodeSelfLike)
}

// TestService_CommentOnPost はコメントの追加を検証する。自己投稿へのコメントも許可される。
func TestService_CommentOnPost(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-1"},
	}

	var created *model.Comment
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			created = comment
			return nil
		},
	}

	svc := NewService(postRepoWith(posts), &mockLikeRepo{}, commentRepo, passthroughSanitizer{})

	commentID, err := svc.CommentOnPost(context.Background(), "user-1", "post-1", "いい投稿ですね")
	if err != nil {
		t.Fatalf("CommentOnPost returned error: %v", err)
	}
	if commentID == "" {
		t.Error("comment ID is empty")
	}
	if created == nil {
		t.Fatal("expected comment to be created")
	}
	if created.Body != "いい投稿ですね" {
		t.Errorf("Body = %q, want いい投稿ですね", created.Body)
	}
	if created.PostID != "post-1" {
		t.Errorf("PostID = %q, want post-1", created.PostID)
	}
}

// TestService_CommentOnPost_EmptyAfterSanitize はサニタイズ後に空になる本文を検証する。
func TestService_CommentOnPost_EmptyAfterSanitize(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	svc := NewService(postRepoWith(posts), &mockLikeRepo{}, &mockCommentRepo{}, emptySanitizer{})

	_, err := svc.CommentOnPost(context.Background(), "user-1", "post-1", "<script>alert(1)</script>")
	assertCode(t, err, model.ErrCodeEmptyComment)
}

// TestService_CommentOnPost_PostNotFound は存在しない投稿へのコメントを検証する。
func TestService_CommentOnPost_PostNotFound(t *testing.T) {
	svc := NewService(postRepoWith(nil), &mockLikeRepo{}, &mockCommentRepo{}, passthroughSanitizer{})

	_, err := svc.CommentOnPost(context.Background(), "user-1", "no-such-post", "本文")
	assertCode(t, err, model.ErrCodePostNotFound)
}

// TestService_GetPostSummary は投稿サマリーの取得を検証する。
// コメントは作成順で返され、コメント数は一覧の長さと一致する。
func TestService_GetPostSummary(t *testing.T) {
	posts := map[string]*model.Post{
		"post-1": {ID: "post-1", UserID: "user-2"},
	}
	now := time.Now()
	likeRepo := &mockLikeRepo{
		countByPostIDFn: func(ctx context.Context, postID string) (int, error) {
			return 5, nil
		},
	}
	commentRepo := &mockCommentRepo{
		listViewsByPostIDFn: func(ctx context.Context, postID string) ([]model.CommentView, error) {
			return []model.CommentView{
				{ID: "c-1", AuthorName: "alice", Body: "最初", CreatedAt: now.Add(-2 * time.Minute)},
				{ID: "c-2", AuthorName: "bob", Body: "次", CreatedAt: now.Add(-1 * time.Minute)},
			}, nil
		},
	}

	svc := NewService(postRepoWith(posts), likeRepo, commentRepo, passthroughSanitizer{})

	summary, err := svc.GetPostSummary(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetPostSummary returned error: %v", err)
	}
	if summary.LikeCount != 5 {
		t.Errorf("LikeCount = %d, want 5", summary.LikeCount)
	}
	if summary.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", summary.CommentCount)
	}
	if len(summary.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2", len(summary.Comments))
	}
	if summary.Comments[0].ID != "c-1" {
		t.Errorf("first comment = %q, want c-1 (oldest first)", summary.Comments[0].ID)
	}
}

// TestService_GetPostSummary_NotFound は存在しない投稿のサマリー取得を検証する。
func TestService_GetPostSummary_NotFound(t *testing.T) {
	svc := NewService(postRepoWith(nil), &mockLikeRepo{}, &mockCommentRepo{}, passthroughSanitizer{})

	_, err := svc.GetPostSummary(context.Background(), "no-such-post")
	assertCode(t, err, model.ErrCodePostNotFound)
}
