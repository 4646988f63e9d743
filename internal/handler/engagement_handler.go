package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/minisns/internal/metrics"
	"github.com/hitoshi/minisns/internal/middleware"
	"github.com/hitoshi/minisns/internal/model"
)

// EngagementServiceInterface はエンゲージメントハンドラーが必要とするサービスインターフェース。
type EngagementServiceInterface interface {
	// LikePost は投稿のいいね集合にactorを追加する。
	LikePost(ctx context.Context, actorID, postID string) error
	// UnlikePost は投稿のいいね集合からactorを削除する。
	UnlikePost(ctx context.Context, actorID, postID string) error
	// CommentOnPost は投稿にコメントを追加し、コメントIDを返す。
	CommentOnPost(ctx context.Context, actorID, postID, body string) (string, error)
	// GetPostSummary は投稿のいいね数・コメント一覧・コメント数を返す。
	GetPostSummary(ctx context.Context, postID string) (*model.PostSummary, error)
}

// EngagementHandler はいいね・コメント・投稿サマリー取得のHTTPハンドラー。
type EngagementHandler struct {
	service EngagementServiceInterface
	metrics metrics.MetricsCollector
}

// NewEngagementHandler はEngagementHandlerを生成する。
func NewEngagementHandler(service EngagementServiceInterface, collector metrics.MetricsCollector) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		metrics: collector,
	}
}

// commentRequest はコメント追加リクエストのボディ。
type commentRequest struct {
	Body string `json:"body"`
}

// commentCreatedResponse はコメント追加成功時のレスポンス。
type commentCreatedResponse struct {
	CommentID string `json:"cid"`
}

// commentViewResponse はコメント一覧の1件分のレスポンス。
type commentViewResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// postSummaryResponse は投稿サマリーのAPIレスポンス。
// comments は作成順（古い順）で並ぶ。
type postSummaryResponse struct {
	ID           string                `json:"id"`
	Likes        int                   `json:"likes"`
	Comments     []commentViewResponse `json:"comments"`
	CommentCount int                   `json:"comment_count"`
}

// Like は投稿への「いいね」を処理する。
// POST /like/{id}
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.service.LikePost(r.Context(), identity.UserID, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("like")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: fmt.Sprintf("投稿 %s に「いいね」しました。", postID),
	})
}

// Unlike は投稿への「いいね」解除を処理する。
// POST /unlike/{id}
func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.service.UnlikePost(r.Context(), identity.UserID, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("unlike")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: fmt.Sprintf("投稿 %s の「いいね」を解除しました。", postID),
	})
}

// Comment は投稿へのコメント追加を処理する。
// POST /comment/{id}
func (h *EngagementHandler) Comment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	commentID, err := h.service.CommentOnPost(r.Context(), identity.UserID, postID, req.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("comment")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(commentCreatedResponse{CommentID: commentID})
}

// GetPost は投稿のいいね数とコメント一覧を取得する。
// GET /posts/{id}
func (h *EngagementHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	summary, err := h.service.GetPostSummary(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	comments := make([]commentViewResponse, 0, len(summary.Comments))
	for _, c := range summary.Comments {
		comments = append(comments, commentViewResponse{
			ID:        c.ID,
			Author:    c.AuthorName,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postSummaryResponse{
		ID:           summary.PostID,
		Likes:        summary.LikeCount,
		Comments:     comments,
		CommentCount: summary.CommentCount,
	})
}
