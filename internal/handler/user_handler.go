package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/learnlog/internal/model"
)

// UserFinder はアバタープロキシが必要とするユーザー検索インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// AvatarFetcher は外部アバター画像の取得インターフェース。
type AvatarFetcher interface {
	Fetch(ctx context.Context, avatarURL string) ([]byte, string, error)
}

// UserHandler はユーザー関連のHTTPハンドラー。
type UserHandler struct {
	userFinder UserFinder
	fetcher    AvatarFetcher
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(userFinder UserFinder, fetcher AvatarFetcher) *UserHandler {
	return &UserHandler{
		userFinder: userFinder,
		fetcher:    fetcher,
	}
}

// GetAvatar はユーザーのアバター画像をプロキシ配信する。認証不要。
// 外部URLをフロントエンドに直接埋め込ませないためのエンドポイント。
// 取得できない場合は一律404を返す（500にはしない）。
// GET /api/users/{id}/avatar
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := h.userFinder.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil || user.ImageURL == nil || *user.ImageURL == "" {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
		return
	}

	data, mimeType, err := h.fetcher.Fetch(r.Context(), *user.ImageURL)
	if err != nil || data == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
