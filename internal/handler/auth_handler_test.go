package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/minisns/internal/auth"
	"github.com/hitoshi/minisns/internal/middleware"
	"github.com/hitoshi/minisns/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn     func(ctx context.Context, email, username, password string) (*model.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*auth.TokenPair, error)
	refreshFn      func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, username, password)
	}
	return nil, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return "", nil
}

// mockMetrics はMetricsCollectorの記録内容を保持するモック実装。
type mockMetrics struct {
	mutations    []string
	authFailures int
}

func (m *mockMetrics) RecordHTTPStatus(statusCode int) {}
func (m *mockMetrics) RecordRequestLatency(duration time.Duration) {}
func (m *mockMetrics) RecordMutation(operation string) {
	m.mutations = append(m.mutations, operation)
}
func (m *mockMetrics) RecordAuthFailure() { m.authFailures++ }

// --- テストヘルパー ---

// withIdentity はテスト用にリクエストコンテキストに認証主体を注入するヘルパー。
func withIdentity(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithIdentity(r.Context(), &model.Identity{UserID: userID, Username: "testuser"})
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return buf
}

// --- POST /register テスト ---

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, username, password string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Username: username}, nil
		},
	}
	h := NewAuthHandler(svc, &mockMetrics{})

	body := jsonBody(t, map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["id"] != "user-1" {
		t.Errorf("id = %q, want user-1", result["id"])
	}
	if result["username"] != "alice" {
		t.Errorf("username = %q, want alice", result["username"])
	}
	if result["email"] != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", result["email"])
	}
	if _, ok := result["password"]; ok {
		t.Error("response must not contain password")
	}
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("{not-json"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, username, password string) (*model.User, error) {
			return nil, model.NewInvalidRegistrationError("emailが空です")
		},
	}
	h := NewAuthHandler(svc, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, map[string]string{}))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidRegistration {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeInvalidRegistration)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, username, password string) (*model.User, error) {
			return nil, model.NewDuplicateEmailError(email)
		},
	}
	h := NewAuthHandler(svc, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, map[string]string{
		"email": "alice@example.com", "username": "alice", "password": "password123",
	}))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeDuplicateEmail)
	}
}

// --- POST /authenticate テスト ---

func TestAuthHandler_Authenticate_Success(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*auth.TokenPair, error) {
			return &auth.TokenPair{Access: "access-token", Refresh: "refresh-token"}, nil
		},
	}
	h := NewAuthHandler(svc, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/authenticate", jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "password123",
	}))
	w := httptest.NewRecorder()

	h.Authenticate(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["access"] != "access-token" {
		t.Errorf("access = %q, want access-token", result["access"])
	}
	if result["refresh"] != "refresh-token" {
		t.Errorf("refresh = %q, want refresh-token", result["refresh"])
	}
}

func TestAuthHandler_Authenticate_MissingFields(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*auth.TokenPair, error) {
			return nil, model.NewInvalidLoginError()
		},
	}
	m := &mockMetrics{}
	h := NewAuthHandler(svc, m)

	req := httptest.NewRequest(http.MethodPost, "/authenticate", jsonBody(t, map[string]string{
		"email": "", "password": "",
	}))
	w := httptest.NewRecorder()

	h.Authenticate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidLogin {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeInvalidLogin)
	}
	if m.authFailures != 0 {
		t.Errorf("authFailures = %d, want 0 for validation error", m.authFailures)
	}
}

func TestAuthHandler_Authenticate_BadCredentials(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*auth.TokenPair, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	m := &mockMetrics{}
	h := NewAuthHandler(svc, m)

	req := httptest.NewRequest(http.MethodPost, "/authenticate", jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}))
	w := httptest.NewRecorder()

	h.Authenticate(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeInvalidCredentials)
	}
	if m.authFailures != 1 {
		t.Errorf("authFailures = %d, want 1", m.authFailures)
	}
}

// --- POST /token/refresh テスト ---

func TestAuthHandler_Refresh_Success(t *testing.T) {
	svc := &mockAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			return "new-access-token", nil
		},
	}
	h := NewAuthHandler(svc, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/token/refresh", jsonBody(t, map[string]string{
		"refresh": "refresh-token",
	}))
	w := httptest.NewRecorder()

	h.Refresh(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["access"] != "new-access-token" {
		t.Errorf("access = %q, want new-access-token", result["access"])
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	svc := &mockAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			return "", model.NewInvalidTokenError()
		},
	}
	m := &mockMetrics{}
	h := NewAuthHandler(svc, m)

	req := httptest.NewRequest(http.MethodPost, "/token/refresh", jsonBody(t, map[string]string{
		"refresh": "revoked-token",
	}))
	w := httptest.NewRecorder()

	h.Refresh(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if m.authFailures != 1 {
		t.Errorf("authFailures = %d, want 1", m.authFailures)
	}
}
