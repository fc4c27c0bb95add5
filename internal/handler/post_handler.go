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

// PostServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	List(ctx context.Context) ([]model.PostWithAuthor, error)
	Get(ctx context.Context, id string) (*model.PostWithAuthor, error)
	Create(ctx context.Context, userID, title, content string) (*model.Post, error)
	Update(ctx context.Context, userID, postID string, title, content *string) (*model.Post, error)
	Delete(ctx context.Context, userID, postID string) error
}

// PostHandler は記事管理のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// createPostRequest は記事作成リクエストのボディ。
type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updatePostRequest は記事更新リクエストのボディ。
// 省略されたフィールドは更新されない。
type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// authorResponse は投稿者プロジェクションのAPIレスポンス。
type authorResponse struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// postResponse は記事のAPIレスポンス。
// フィールド名は既存フロントエンドとの互換のためcamelCaseを使用する。
type postResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	UserID    string          `json:"userId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	User      *authorResponse `json:"user,omitempty"`
}

// ListPosts は記事一覧を取得する。認証不要。
// GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for i := range posts {
		resp = append(resp, toPostWithAuthorResponse(&posts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPost は記事詳細を取得する。認証不要。
// GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	post, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if post == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewPostNotFoundError(postID))
		return
	}

	writeJSON(w, http.StatusOK, toPostWithAuthorResponse(post))
}

// CreatePost は記事を作成する。管理者のみ。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	post, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// UpdatePost は記事のタイトル・本文を部分更新する。管理者のみ。
// PATCH /api/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	post, err := h.service.Update(r.Context(), userID, postID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// DeletePost は記事を削除する。管理者のみ。
// DELETE /api/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// --- ヘルパー関数 ---

// toPostResponse はmodel.PostからAPIレスポンスに変換する。投稿者プロジェクションは含まない。
func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		UserID:    post.UserID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// toPostWithAuthorResponse はmodel.PostWithAuthorからAPIレスポンスに変換する。
func toPostWithAuthorResponse(post *model.PostWithAuthor) postResponse {
	resp := toPostResponse(&post.Post)
	resp.User = &authorResponse{
		Name:  post.Author.Name,
		Image: post.Author.ImageURL,
	}
	return resp
}
