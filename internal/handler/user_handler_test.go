package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/relationship"
)

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	getProfileFn func(ctx context.Context, userID string) (*relationship.Profile, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*relationship.Profile, error) {
	return m.getProfileFn(ctx, userID)
}

// --- GET /user テスト ---

func TestUserHandler_GetSelf_Success(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID string) (*relationship.Profile, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			return &relationship.Profile{
				UserID:         "user-1",
				Username:       "alice",
				FollowingCount: 3,
				FollowerCount:  7,
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req = withIdentity(req, "user-1")
	w := httptest.NewRecorder()

	h.GetSelf(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["id"] != "user-1" {
		t.Errorf("id = %v, want user-1", result["id"])
	}
	if result["username"] != "alice" {
		t.Errorf("username = %v, want alice", result["username"])
	}
	if int(result["following"].(float64)) != 3 {
		t.Errorf("following = %v, want 3", result["following"])
	}
	if int(result["followers"].(float64)) != 7 {
		t.Errorf("followers = %v, want 7", result["followers"])
	}
}

func TestUserHandler_GetSelf_NoIdentity(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	w := httptest.NewRecorder()

	h.GetSelf(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUserHandler_GetSelf_UserNotFound(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID string) (*relationship.Profile, error) {
			return nil, model.NewUserNotFoundError(userID)
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req = withIdentity(req, "user-gone")
	w := httptest.NewRecorder()

	h.GetSelf(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
