// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, authorization, relationship, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken        = "INVALID_TOKEN"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeInvalidRegistration = "INVALID_REGISTRATION"
	ErrCodeInvalidLogin        = "INVALID_LOGIN"

	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeSelfFollow       = "SELF_FOLLOW"
	ErrCodeAlreadyFollowing = "ALREADY_FOLLOWING"
	ErrCodeNotFollowing     = "NOT_FOLLOWING"

	ErrCodePostNotFound = "POST_NOT_FOUND"
	ErrCodeInvalidPost  = "INVALID_POST"
	ErrCodeNotPostOwner = "NOT_POST_OWNER"
	ErrCodeSelfLike     = "SELF_LIKE"
	ErrCodeAlreadyLiked = "ALREADY_LIKED"
	ErrCodeNotLiked     = "NOT_LIKED"
	ErrCodeEmptyComment = "EMPTY_COMMENT"
)

// NewUnauthorizedError は認証切れ・未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス未登録とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効または期限切れです。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidRegistrationError は登録内容不備エラーを生成する。
func NewInvalidRegistrationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRegistration,
		Message:  fmt.Sprintf("登録内容に不備があります: %s", reason),
		Category: "validation",
		Action:   "email、username、passwordをすべて指定してください。",
	}
}

// NewInvalidLoginError はログイン入力不備エラーを生成する。
// 認証情報の不一致（INVALID_CREDENTIALS）とは区別し、入力検証エラーとして扱う。
func NewInvalidLoginError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  "emailとpasswordを指定してください。",
		Category: "validation",
		Action:   "email、passwordをすべて入力してください。",
	}
}

// NewUserNotFoundError は対象ユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "relationship",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewSelfFollowError は自己フォロー禁止エラーを生成する。
// フォロー・フォロー解除の両方で使用する。
func NewSelfFollowError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfFollow,
		Message:  "自分自身をフォロー対象にすることはできません。",
		Category: "relationship",
		Action:   "他のユーザーを指定してください。",
	}
}

// NewAlreadyFollowingError はフォロー重複エラーを生成する。
func NewAlreadyFollowingError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyFollowing,
		Message:  fmt.Sprintf("既に %s をフォローしています。", username),
		Category: "relationship",
		Action:   "フォロー状態を確認してください。",
	}
}

// NewNotFollowingError は未フォロー状態でのフォロー解除エラーを生成する。
func NewNotFollowingError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFollowing,
		Message:  fmt.Sprintf("%s をフォローしていません。", username),
		Category: "relationship",
		Action:   "フォロー状態を確認してください。",
	}
}

// NewPostNotFoundError は投稿未検出エラーを生成する。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %s", postID),
		Category: "content",
		Action:   "投稿IDを確認してください。",
	}
}

// NewInvalidPostError は投稿内容不備エラーを生成する。
func NewInvalidPostError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPost,
		Message:  fmt.Sprintf("投稿内容に不備があります: %s", reason),
		Category: "validation",
		Action:   "タイトル（100文字以内）と本文を指定してください。",
	}
}

// NewNotPostOwnerError は非所有者による投稿削除エラーを生成する。
func NewNotPostOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotPostOwner,
		Message:  "この投稿を削除する権限がありません。",
		Category: "authorization",
		Action:   "自分の投稿のみ削除できます。",
	}
}

// NewSelfLikeError は自分の投稿への「いいね」操作禁止エラーを生成する。
// いいね・いいね解除の両方で使用する。
func NewSelfLikeError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfLike,
		Message:  "自分の投稿に対して「いいね」操作はできません。",
		Category: "content",
		Action:   "他のユーザーの投稿を指定してください。",
	}
}

// NewAlreadyLikedError はいいね重複エラーを生成する。
func NewAlreadyLikedError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyLiked,
		Message:  fmt.Sprintf("既にこの投稿に「いいね」しています: %s", postID),
		Category: "content",
		Action:   "いいね状態を確認してください。",
	}
}

// NewNotLikedError は未いいね状態でのいいね解除エラーを生成する。
func NewNotLikedError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotLiked,
		Message:  fmt.Sprintf("この投稿に「いいね」していません: %s", postID),
		Category: "content",
		Action:   "いいね状態を確認してください。",
	}
}

// NewEmptyCommentError はコメント本文未指定エラーを生成する。
func NewEmptyCommentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyComment,
		Message:  "コメント本文が空です。",
		Category: "validation",
		Action:   "コメント本文を入力してください。",
	}
}
