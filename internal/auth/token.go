package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/minisns/internal/model"
)

// トークン種別。アクセストークンでのリフレッシュ（およびその逆）を防ぐ。
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// tokenClaims はJWTクレームの内部表現。
// user_idとusernameを含み、境界層でのユーザー再取得を不要にする。
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
}

// TokenPair はアクセストークンとリフレッシュトークンの組。
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenIssuer はHS256署名のJWTを発行・検証する。
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess はユーザーのアクセストークンを発行する。
func (t *TokenIssuer) IssueAccess(user *model.User) (string, error) {
	return t.sign(user, tokenTypeAccess, t.accessTTL, uuid.New().String())
}

// IssueRefresh はユーザーのリフレッシュトークンを発行する。
// 戻り値の2番目はjtiクレーム（サーバー側レコードのキー）。
func (t *TokenIssuer) IssueRefresh(user *model.User) (string, string, error) {
	jti := uuid.New().String()
	token, err := t.sign(user, tokenTypeRefresh, t.refreshTTL, jti)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// sign はクレームを構築して署名する。
func (t *TokenIssuer) sign(user *model.User, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := t.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}
	return signed, nil
}

// parse は署名・有効期限・トークン種別を検証し、クレームを返す。
// 検証に失敗した場合はINVALID_TOKENエラーを返す。
func (t *TokenIssuer) parse(tokenString, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, model.NewInvalidTokenError()
	}
	if claims.TokenType != wantType {
		return nil, model.NewInvalidTokenError()
	}
	if claims.UserID == "" {
		return nil, model.NewInvalidTokenError()
	}
	return claims, nil
}
