// Package security はアプリケーションのセキュリティ機能を提供する。
//
// CommentSanitizerService はコメント本文をサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// コメントはプレーンテキストとして扱う仕様のため、bluemondayの
// StrictPolicyで全HTMLタグを除去する。
package security

import "github.com/microcosm-cc/bluemonday"

// CommentSanitizerService はコメント本文のサニタイズ機能のインターフェースを定義する。
// コメント保存前に使用される。
type CommentSanitizerService interface {
	// Sanitize はコメント本文から全HTMLタグを除去してプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// commentSanitizer はCommentSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type commentSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer はCommentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、scriptタグ等を含む
// あらゆるHTMLマークアップが除去される。
func NewCommentSanitizer() *commentSanitizer {
	return &commentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はコメント本文から全HTMLタグを除去してプレーンテキストを返す。
func (s *commentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
