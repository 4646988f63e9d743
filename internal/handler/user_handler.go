package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/minisns/internal/middleware"
	"github.com/hitoshi/minisns/internal/relationship"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetProfile はフォロー数・フォロワー数付きプロフィールを返す。
	GetProfile(ctx context.Context, userID string) (*relationship.Profile, error)
}

// UserHandler は自分自身のプロフィール取得のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// profileResponse はプロフィールのAPIレスポンス。
// following / followers はフォローエッジ集合から導出した件数。
type profileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Following int    `json:"following"`
	Followers int    `json:"followers"`
}

// GetSelf は認証主体自身のプロフィールを取得する。
// GET /user
func (h *UserHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileResponse{
		ID:        profile.UserID,
		Username:  profile.Username,
		Following: profile.FollowingCount,
		Followers: profile.FollowerCount,
	})
}
