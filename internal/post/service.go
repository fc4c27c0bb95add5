// Package post は記事管理のドメインロジックを提供する。
package post

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

// CreateRecorder は記事作成数のメトリクス記録インターフェース。
type CreateRecorder interface {
	RecordPostCreated()
}

// Service は記事管理のサービス層。
// すべての変更系操作は、認可判定を通過した後にのみリポジトリへ到達する。
type Service struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	policy   *authz.Policy
	recorder CreateRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil可。
func NewService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	policy *authz.Policy,
	recorder CreateRecorder,
) *Service {
	return &Service{
		postRepo: postRepo,
		userRepo: userRepo,
		policy:   policy,
		recorder: recorder,
	}
}

// List は全記事を投稿者プロジェクション付きでcreated_at降順で返す。
// 認証不要の公開操作。
func (s *Service) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Get は指定IDの記事を取得する。見つからない場合はnilを返す。
// 認証不要の公開操作。記事の不在は正常な結果でありエラーではない。
func (s *Service) Get(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Create は記事を作成する。
// 管理者のみが作成でき、作成者は操作ユーザー自身に固定される。
// 認可判定は書き込みより厳密に先に行われる。
func (s *Service) Create(ctx context.Context, userID, title, content string) (*model.Post, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutatePost(user) {
		return nil, model.NewUnauthorizedError()
	}

	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, model.NewMissingPostFieldsError()
	}

	now := time.Now()
	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordPostCreated()
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", user.ID),
	)

	return post, nil
}

// Update は記事のタイトル・本文を部分更新する。
// nilのフィールドは既存値を維持する。両方nilの場合は更新対象なしエラーを返す。
// 管理者のみが更新できる。作成者かどうかは判定に使用しない。
func (s *Service) Update(ctx context.Context, userID, postID string, title, content *string) (*model.Post, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutatePost(user) {
		return nil, model.NewUnauthorizedError()
	}

	if title == nil && content == nil {
		return nil, model.NewNoUpdateFieldsError()
	}

	post, err := s.postRepo.Update(ctx, postID, title, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	slog.Info("post updated",
		slog.String("post_id", post.ID),
		slog.String("user_id", user.ID),
	)

	return post, nil
}

// Delete は記事を削除する。管理者のみが削除できる。
// 子コメントはストアの外部キー制約により同一ストア操作内で削除される。
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.policy.CanMutatePost(user) {
		return model.NewUnauthorizedError()
	}

	rowsAffected, err := s.postRepo.Delete(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewPostNotFoundError(postID)
	}

	slog.Info("post deleted",
		slog.String("post_id", postID),
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
