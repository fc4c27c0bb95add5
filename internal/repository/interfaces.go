// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/learnlog/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// UpdateProfile はサインインのたびにIdPの最新プロフィール（名前・アバターURL）を反映する。
	UpdateProfile(ctx context.Context, id, name string, imageURL *string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// PostRepository は記事データの永続化インターフェース。
// 記事レコードのライフサイクルはこのリポジトリのみが所有する。
type PostRepository interface {
	// List は全記事を投稿者プロジェクション付きでcreated_at降順で返す。
	// ページネーションは行わない。
	List(ctx context.Context) ([]model.PostWithAuthor, error)

	// FindByID は指定IDの記事を投稿者プロジェクション付きで取得する。
	// 見つからない場合はnilを返す（上流では404にマッピングされる）。
	FindByID(ctx context.Context, id string) (*model.PostWithAuthor, error)

	// Create は記事を作成する。created_at/updated_atは呼び出し側が設定する。
	Create(ctx context.Context, post *model.Post) error

	// Update は指定フィールドのみを部分更新する。
	// title/contentがnilのフィールドは既存値を維持する。
	// 更新後の記事を返す。対象が存在しない場合はnilを返す。
	Update(ctx context.Context, id string, title, content *string) (*model.Post, error)

	// Delete は指定IDの記事を削除する。
	// 削除された行数を返す（0の場合は対象が存在しなかったことを示す）。
	// 子コメントはストアの外部キー制約によりCASCADE削除される。
	Delete(ctx context.Context, id string) (int64, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
// コメントレコードのライフサイクルはこのリポジトリのみが所有する。
type CommentRepository interface {
	// ListByPost は指定記事のコメントを投稿者プロジェクション付きでcreated_at降順で返す。
	ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error)

	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	// 所有者判定（削除ゲート）のために使用される。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// Create はコメントを作成し、投稿者プロジェクション付きで返す。
	Create(ctx context.Context, comment *model.Comment) (*model.CommentWithAuthor, error)

	// Delete は指定IDのコメントを削除する。
	// 削除された行数を返す（0の場合は対象が存在しなかったことを示す）。
	Delete(ctx context.Context, id string) (int64, error)
}
