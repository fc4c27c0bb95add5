package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/learnlog/internal/middleware"
	"github.com/hitoshi/learnlog/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error)
	Create(ctx context.Context, userID, postID, content string) (*model.CommentWithAuthor, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント投稿リクエストのボディ。
type createCommentRequest struct {
	Content string `json:"content"`
}

// commentResponse はコメントのAPIレスポンス。
// フィールド名は既存フロントエンドとの互換のためcamelCaseを使用する。
type commentResponse struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	LogID     string         `json:"logId"`
	UserID    string         `json:"userId"`
	CreatedAt time.Time      `json:"createdAt"`
	User      authorResponse `json:"user"`
}

// ListComments は指定記事のコメント一覧を取得する。認証不要。
// GET /api/posts/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	comments, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, toCommentResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateComment はコメントを投稿する。サインイン済みユーザーのみ。
// POST /api/posts/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	comment, err := h.service.Create(r.Context(), userID, postID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// DeleteComment はコメントを削除する。投稿者本人または管理者のみ。
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	commentID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"success": true,
	})
}

// toCommentResponse はmodel.CommentWithAuthorからAPIレスポンスに変換する。
func toCommentResponse(comment *model.CommentWithAuthor) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		LogID:     comment.LogID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
		User: authorResponse{
			Name:  comment.Author.Name,
			Image: comment.Author.ImageURL,
		},
	}
}
