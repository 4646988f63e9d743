package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/minisns/internal/auth"
	"github.com/hitoshi/minisns/internal/metrics"
	"github.com/hitoshi/minisns/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, email, username, password string) (*model.User, error)
	// Authenticate は認証情報を検証し、トークンの組を発行する。
	Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error)
	// Refresh はリフレッシュトークンから新しいアクセストークンを発行する。
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// AuthHandler はユーザー登録・認証・トークン更新のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: collector,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse は登録済みユーザーのAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// authenticateRequest は認証リクエストのボディ。
type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenPairResponse はアクセス・リフレッシュトークンの組のレスポンス。
type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refreshRequest はトークン更新リクエストのボディ。
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// accessTokenResponse は更新後のアクセストークンのレスポンス。
type accessTokenResponse struct {
	Access string `json:"access"`
}

// Register はユーザー登録を処理する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Authenticate は認証情報を検証し、トークンの組を返す。
// POST /authenticate
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	pair, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordAuthFailure(err)
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Refresh はリフレッシュトークンから新しいアクセストークンを発行する。
// POST /token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	access, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		h.recordAuthFailure(err)
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accessTokenResponse{Access: access})
}

// recordAuthFailure は認証系エラーをメトリクスに記録する。
func (h *AuthHandler) recordAuthFailure(err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeInvalidCredentials, model.ErrCodeInvalidToken, model.ErrCodeUnauthorized:
			h.metrics.RecordAuthFailure()
		}
	}
}
