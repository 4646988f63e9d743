// Package auth はユーザー登録、認証情報検証、JWTの発行・更新を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/minisns/internal/model"
	"github.com/hitoshi/minisns/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
// トークンはuser_id、username、有効期限を運ぶ。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	issuer    *TokenIssuer
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	issuer *TokenIssuer,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		issuer:    issuer,
	}
}

// Register は新規ユーザーを登録する。
// パスワードはbcryptでハッシュ化して保存し、平文は保持しない。
// メールアドレスの一意性はストアの一意制約で保証する。
func (s *Service) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if err := validateRegistration(email, username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateKey {
			return nil, model.NewDuplicateEmailError(email)
		}
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate は認証情報を検証し、アクセス・リフレッシュトークンの組を発行する。
// 入力の欠落は検証エラー、メールアドレス未登録とパスワード不一致は同一の認証エラーとして扱う。
func (s *Service) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, model.NewInvalidLoginError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("user authenticated", slog.String("user_id", user.ID))

	return pair, nil
}

// Verify はアクセストークンを検証し、認証主体を返す。
func (s *Service) Verify(ctx context.Context, accessToken string) (*model.Identity, error) {
	claims, err := s.issuer.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &model.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}

// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行する。
// トークンはサーバー側レコードと照合され、失効済みのものは拒否される。
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	record, err := s.tokenRepo.FindByTokenID(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("リフレッシュトークンの照合に失敗しました: %w", err)
	}
	if record == nil {
		return "", model.NewInvalidTokenError()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", model.NewInvalidTokenError()
	}

	access, err := s.issuer.IssueAccess(user)
	if err != nil {
		return "", err
	}
	return access, nil
}

// issueTokenPair はトークンの組を発行し、リフレッシュトークンのレコードを永続化する。
func (s *Service) issueTokenPair(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(user)
	if err != nil {
		return nil, err
	}

	refresh, jti, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenID:   jti,
		ExpiresAt: time.Now().Add(s.issuer.refreshTTL),
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("リフレッシュトークンの保存に失敗しました: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// validateRegistration は登録入力を検証する。
func validateRegistration(email, username, password string) *model.APIError {
	switch {
	case strings.TrimSpace(email) == "":
		return model.NewInvalidRegistrationError("emailが空です")
	case !strings.Contains(email, "@"):
		return model.NewInvalidRegistrationError("emailの形式が不正です")
	case strings.TrimSpace(username) == "":
		return model.NewInvalidRegistrationError("usernameが空です")
	case password == "":
		return model.NewInvalidRegistrationError("passwordが空です")
	case len(password) < 8:
		return model.NewInvalidRegistrationError("passwordは8文字以上にしてください")
	}
	return nil
}
