package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/learnlog/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// List は全記事を投稿者プロジェクション付きでcreated_at降順で返す。
func (r *PostgresPostRepo) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.user_id, p.created_at, p.updated_at,
		        u.name, u.image_url
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.PostWithAuthor{}
	for rows.Next() {
		var p model.PostWithAuthor
		var imageURL sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.Name, &imageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		if imageURL.Valid {
			p.Author.ImageURL = &imageURL.String
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}

	return posts, nil
}

// FindByID は指定IDの記事を投稿者プロジェクション付きで取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	p := &model.PostWithAuthor{}
	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.user_id, p.created_at, p.updated_at,
		        u.name, u.image_url
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.Name, &imageURL)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}

	if imageURL.Valid {
		p.Author.ImageURL = &imageURL.String
	}
	return p, nil
}

// Create は記事を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.Title, post.Content, post.UserID, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Update は指定フィールドのみを部分更新する。
// nilのフィールドはCOALESCEにより既存値を維持する。対象が存在しない場合はnilを返す。
func (r *PostgresPostRepo) Update(ctx context.Context, id string, title, content *string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE posts
		 SET title = COALESCE($2, title),
		     content = COALESCE($3, content),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, content, user_id, created_at, updated_at`,
		id, title, content,
	).Scan(&post.ID, &post.Title, &post.Content, &post.UserID, &post.CreatedAt, &post.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// Delete は指定IDの記事を削除し、削除された行数を返す。
func (r *PostgresPostRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
