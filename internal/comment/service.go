// Package comment はコメント管理のドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/learnlog/internal/authz"
	"github.com/hitoshi/learnlog/internal/model"
	"github.com/hitoshi/learnlog/internal/repository"
)

// PostFinder は親記事の存在確認に必要なインターフェース。
// repository.PostRepositoryの部分集合として定義する。
type PostFinder interface {
	FindByID(ctx context.Context, id string) (*model.PostWithAuthor, error)
}

// Sanitizer はコメント本文のサニタイズインターフェース。
// security.CommentSanitizerServiceの部分集合。
type Sanitizer interface {
	Sanitize(raw string) string
}

// CreateRecorder はコメント作成数のメトリクス記録インターフェース。
type CreateRecorder interface {
	RecordCommentCreated()
}

// Service はコメント管理のサービス層。
// 削除の所有者判定はauthz.Policyに一元化し、ハンドラーごとに再導出しない。
type Service struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	postFinder  PostFinder
	sanitizer   Sanitizer
	policy      *authz.Policy
	recorder    CreateRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil可。
func NewService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	postFinder PostFinder,
	sanitizer Sanitizer,
	policy *authz.Policy,
	recorder CreateRecorder,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		postFinder:  postFinder,
		sanitizer:   sanitizer,
		policy:      policy,
		recorder:    recorder,
	}
}

// ListByPost は指定記事のコメントを投稿者プロジェクション付きでcreated_at降順で返す。
// 認証不要の公開操作。
func (s *Service) ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create はコメントを投稿する。
// サインイン済みであれば管理者か否かを問わず投稿できる。
// 親記事の存在はINSERT前に検証される（記事削除後のコメント投稿を防ぐ）。
func (s *Service) Create(ctx context.Context, userID, postID, content string) (*model.CommentWithAuthor, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanCreateComment(user) {
		return nil, model.NewUnauthorizedError()
	}

	// コメントはプレーンテキストとして保存する
	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(content))
	if sanitized == "" {
		return nil, model.NewEmptyCommentError()
	}

	// 親記事の存在確認（参照整合性チェック）
	parent, err := s.postFinder.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check parent post: %w", err)
	}
	if parent == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		Content:   sanitized,
		LogID:     postID,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordCommentCreated()
	}

	slog.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID),
		slog.String("user_id", user.ID),
	)

	return created, nil
}

// Delete はコメントを削除する。
// 所有者判定のためコメントを先に取得してから認可判定を行う。
// コメントの投稿者本人、または管理者のみが削除できる。
func (s *Service) Delete(ctx context.Context, userID, commentID string) error {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return err
	}

	// 所有者判定にはレコードが必要なため、認可判定の前に取得する
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}

	if !s.policy.CanDeleteComment(user, comment) {
		return model.NewCommentDeleteDeniedError()
	}

	rowsAffected, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if rowsAffected == 0 {
		// 取得と削除の間に別リクエストが削除したケース
		return model.NewCommentNotFoundError(commentID)
	}

	slog.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("user_id", user.ID),
	)

	return nil
}

// currentUser は操作ユーザーを取得する。
// セッションは有効だがユーザーレコードが存在しない場合は認可拒否として扱う。
func (s *Service) currentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}
	return user, nil
}
