// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, post, comment, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeCommentDeleteDenied = "COMMENT_DELETE_DENIED"
	ErrCodePostNotFound        = "POST_NOT_FOUND"
	ErrCodeCommentNotFound     = "COMMENT_NOT_FOUND"
	ErrCodeMissingPostFields   = "MISSING_POST_FIELDS"
	ErrCodeNoUpdateFields      = "NO_UPDATE_FIELDS"
	ErrCodeEmptyComment        = "EMPTY_COMMENT"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeCSRFTokenInvalid    = "CSRF_TOKEN_INVALID"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
)

// NewUnauthorizedError は認証・認可の一律拒否エラーを生成する。
// セッションなしと管理者権限なしの両方で使用される（管理者ゲートでは区別しない）。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証されていません。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewCommentDeleteDeniedError はコメント削除の権限拒否エラーを生成する。
// セッションは存在するが、投稿者本人でも管理者でもない場合に使用する。
func NewCommentDeleteDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodeCommentDeleteDenied,
		Message:  "コメントを削除する権限がありません。",
		Category: "auth",
		Action:   "自分が投稿したコメントのみ削除できます。",
	}
}

// NewPostNotFoundError は記事未検出エラーを生成する。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("投稿が見つかりません: %s", postID),
		Category: "post",
		Action:   "投稿IDを確認してください。",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("コメントが見つかりません: %s", commentID),
		Category: "comment",
		Action:   "コメントIDを確認してください。",
	}
}

// NewMissingPostFieldsError は記事作成時の必須フィールド欠落エラーを生成する。
func NewMissingPostFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingPostFields,
		Message:  "タイトルと本文は必須です。",
		Category: "validation",
		Action:   "タイトルと本文を入力してください。",
	}
}

// NewNoUpdateFieldsError は記事更新時に更新対象フィールドが1つもない場合のエラーを生成する。
func NewNoUpdateFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeNoUpdateFields,
		Message:  "更新するデータがありません。",
		Category: "validation",
		Action:   "タイトルまたは本文のいずれかを指定してください。",
	}
}

// NewEmptyCommentError はコメント本文が空（空白のみ含む）の場合のエラーを生成する。
func NewEmptyCommentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyComment,
		Message:  "コメント内容を入力してください。",
		Category: "validation",
		Action:   "コメント本文を入力してください。",
	}
}

// NewCSRFTokenInvalidError はCSRFトークン検証失敗エラーを生成する。
// トークンCookieの欠落、ヘッダーの欠落、トークン不一致のすべてで使用する。
func NewCSRFTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFTokenInvalid,
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "ページを再読み込みしてから再度お試しください。",
	}
}

// NewRateLimitExceededError はレート制限超過エラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "リクエスト回数が制限を超えました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
