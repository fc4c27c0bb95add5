package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/learnlog/internal/model"
)

// PostgresPostRepoはPostRepositoryインターフェースを満たすことを検証
func TestPostgresPostRepo_ImplementsInterface(t *testing.T) {
	var _ PostRepository = (*PostgresPostRepo)(nil)
}

// PostgresCommentRepoはCommentRepositoryインターフェースを満たすことを検証
func TestPostgresCommentRepo_ImplementsInterface(t *testing.T) {
	var _ CommentRepository = (*PostgresCommentRepo)(nil)
}

// NewPostgresPostRepoが正しく初期化されることを検証
func TestNewPostgresPostRepo_Initializes(t *testing.T) {
	repo := NewPostgresPostRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCommentRepoが正しく初期化されることを検証
func TestNewPostgresCommentRepo_Initializes(t *testing.T) {
	repo := NewPostgresCommentRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Createに渡される記事はタイムスタンプを呼び出し側が設定すること
func TestPostgresPostRepo_Create_CallerSetsTimestamps_Concept(t *testing.T) {
	now := time.Now()
	post := &model.Post{
		ID:        "post-id-1",
		Title:     "タイトル",
		Content:   "本文",
		UserID:    "user-id-1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set by caller before insert")
	}
}

// コメントのLogIDは親記事のIDを参照すること
func TestPostgresCommentRepo_Create_ParentReference_Concept(t *testing.T) {
	post := &model.Post{ID: "post-id-1"}
	comment := &model.Comment{
		ID:     "comment-id-1",
		LogID:  "post-id-1",
		UserID: "user-id-2",
	}

	if comment.LogID != post.ID {
		t.Errorf("comment.LogID = %q, want %q", comment.LogID, post.ID)
	}
}
