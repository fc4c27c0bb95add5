// Package avatar はユーザーのアバター画像取得（プロキシ）機能を提供する。
//
// IdPから受け取ったアバターURLをフロントエンドに直接埋め込む代わりに、
// 本APIを経由して配信する。URLはユーザー操作由来の外部URLであるため、
// 取得にはSSRF防止付きのHTTPクライアントを使用する。
package avatar

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxAvatarSize はアバター画像の最大サイズ（1MB）。
const maxAvatarSize = 1 * 1024 * 1024

// avatarTimeout はアバター取得のタイムアウト。
const avatarTimeout = 5 * time.Second

// SSRFValidator はアバター取得前のURL検証と安全なクライアント生成のインターフェース。
// security.SSRFGuardServiceの部分集合。
type SSRFValidator interface {
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
	ValidateURL(rawURL string) error
}

// FetcherService はアバター取得のインターフェース。
type FetcherService interface {
	// Fetch は指定URLからアバター画像を取得する。
	// 取得失敗時はnilデータと空MIMEを返す（エラーは返さない）。
	Fetch(ctx context.Context, avatarURL string) (data []byte, mimeType string, err error)
}

// Fetcher はアバター取得機能の実装。
type Fetcher struct {
	ssrfGuard SSRFValidator
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(ssrfGuard SSRFValidator) *Fetcher {
	return &Fetcher{
		ssrfGuard: ssrfGuard,
	}
}

// Fetch は指定URLからアバター画像を取得する。
// ブロック対象URL・HTTPエラー・サイズ超過・画像以外のContent-Typeは
// すべて「アバターなし」として扱い、nilデータを返す。
func (f *Fetcher) Fetch(ctx context.Context, avatarURL string) ([]byte, string, error) {
	if avatarURL == "" {
		return nil, "", nil
	}

	// SSRF検証
	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(avatarURL); err != nil {
			slog.Warn("アバター取得: SSRFブロック", "url", avatarURL, "error", err)
			return nil, "", nil
		}
	}

	client := f.getHTTPClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		slog.Warn("アバター取得: リクエスト作成失敗", "url", avatarURL, "error", err)
		return nil, "", nil
	}
	req.Header.Set("User-Agent", "Learnlog/1.0")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("アバター取得: HTTPリクエスト失敗", "url", avatarURL, "error", err)
		return nil, "", nil
	}
	defer resp.Body.Close()

	// 2xx以外は取得失敗として扱う
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("アバター取得: HTTPステータス異常", "url", avatarURL, "status", resp.StatusCode)
		return nil, "", nil
	}

	// レスポンスボディを読み込み（最大1MB）
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarSize+1))
	if err != nil {
		slog.Warn("アバター取得: レスポンス読み取り失敗", "url", avatarURL, "error", err)
		return nil, "", nil
	}

	// サイズ超過チェック
	if int64(len(body)) > maxAvatarSize {
		slog.Warn("アバター取得: サイズ超過", "url", avatarURL, "size", len(body))
		return nil, "", nil
	}

	// Content-Typeを取得
	contentType := resp.Header.Get("Content-Type")
	mimeType := extractMimeType(contentType)

	// 画像でない場合はnilを返す
	if !isImageMime(mimeType) {
		slog.Warn("アバター取得: 画像以外のContent-Type", "url", avatarURL, "contentType", contentType)
		return nil, "", nil
	}

	return body, mimeType, nil
}

// getHTTPClient はHTTPクライアントを取得する。
func (f *Fetcher) getHTTPClient() *http.Client {
	if f.ssrfGuard != nil {
		return f.ssrfGuard.NewSafeClient(avatarTimeout, maxAvatarSize)
	}
	return &http.Client{Timeout: avatarTimeout}
}

// extractMimeType はContent-Typeヘッダーからパラメータを除いたMIMEタイプを取り出す。
func extractMimeType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// isImageMime はMIMEタイプが画像かを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// compile-time interface check
var _ FetcherService = (*Fetcher)(nil)
