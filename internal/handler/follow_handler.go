package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/minisns/internal/metrics"
	"github.com/hitoshi/minisns/internal/middleware"
)

// FollowServiceInterface はフォローハンドラーが必要とするサービスインターフェース。
type FollowServiceInterface interface {
	// Follow はactorからtargetへのフォローエッジを追加し、対象の表示名を返す。
	Follow(ctx context.Context, actorID, targetID string) (string, error)
	// Unfollow はactorからtargetへのフォローエッジを削除し、対象の表示名を返す。
	Unfollow(ctx context.Context, actorID, targetID string) (string, error)
}

// FollowHandler はフォロー・フォロー解除のHTTPハンドラー。
type FollowHandler struct {
	service FollowServiceInterface
	metrics metrics.MetricsCollector
}

// NewFollowHandler はFollowHandlerを生成する。
func NewFollowHandler(service FollowServiceInterface, collector metrics.MetricsCollector) *FollowHandler {
	return &FollowHandler{
		service: service,
		metrics: collector,
	}
}

// messageResponse は操作成功メッセージのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// Follow は対象ユーザーへのフォローを処理する。
// POST /follow/{id}
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	targetID := chi.URLParam(r, "id")

	username, err := h.service.Follow(r.Context(), identity.UserID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("follow")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: fmt.Sprintf("ユーザー %s をフォローしました。", username),
	})
}

// Unfollow は対象ユーザーへのフォロー解除を処理する。
// POST /unfollow/{id}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	targetID := chi.URLParam(r, "id")

	username, err := h.service.Unfollow(r.Context(), identity.UserID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordMutation("unfollow")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: fmt.Sprintf("ユーザー %s のフォローを解除しました。", username),
	})
}
