package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/minisns/internal/metrics"
	"github.com/hitoshi/minisns/internal/middleware"
	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/post"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// CreatePost は新しい投稿を作成する。
	CreatePost(ctx context.Context, ownerID, title, description string) (*model.Post, error)
	// DeletePost は投稿を削除する。所有者のみ実行できる。
	DeletePost(ctx context.Context, actorID, postID string) error
	// ListPostsByOwner は所有者の投稿一覧をいいね数・コメント数付きで返す。
	ListPostsByOwner(ctx context.Context, ownerID string) ([]post.PostInfo, error)
}

// PostHandler は投稿ライフサイクルのHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
	metrics metrics.MetricsCollector
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, collector metrics.MetricsCollector) *PostHandler {
	return &PostHandler{
		service: service,
		metrics: collector,
	}
}

// createPostRequest は投稿作成リクエストのボディ。
type createPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// postResponse は作成済み投稿のAPIレスポンス。
type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// postInfoResponse は一覧表示用の投稿レスポンス。いいね数・コメント数を含む。
type postInfoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	Likes        int       `json:"likes"`
	CommentCount int       `json:"comment_count"`
}

// CreatePost は新しい投稿の作成を処理する。
// POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreatePost(r.Context(), identity.UserID, req.Title, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("create_post")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(postResponse{
		ID:          created.ID,
		Title:       created.Title,
		Description: created.Description,
		CreatedAt:   created.CreatedAt,
	})
}

// DeletePost は投稿の削除を処理する。
// DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.service.DeletePost(r.Context(), identity.UserID, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("delete_post")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: "投稿を削除しました。",
	})
}

// ListOwnPosts は認証主体自身の投稿一覧を取得する。
// GET /all_posts
func (h *PostHandler) ListOwnPosts(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	infos, err := h.service.ListPostsByOwner(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]postInfoResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, postInfoResponse{
			ID:           info.ID,
			Title:        info.Title,
			Description:  info.Description,
			CreatedAt:    info.CreatedAt,
			Likes:        info.LikeCount,
			CommentCount: info.CommentCount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
