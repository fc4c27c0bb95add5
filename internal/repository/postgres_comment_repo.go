package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/learnlog/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListByPost は指定記事のコメントを投稿者プロジェクション付きでcreated_at降順で返す。
func (r *PostgresCommentRepo) ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.content, c.log_id, c.user_id, c.created_at,
		        u.name, u.image_url
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.log_id = $1
		 ORDER BY c.created_at DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.CommentWithAuthor{}
	for rows.Next() {
		var c model.CommentWithAuthor
		var imageURL sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Content, &c.LogID, &c.UserID, &c.CreatedAt,
			&c.Author.Name, &imageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		if imageURL.Valid {
			c.Author.ImageURL = &imageURL.String
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}

	return comments, nil
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content, log_id, user_id, created_at FROM comments WHERE id = $1`,
		id,
	).Scan(&comment.ID, &comment.Content, &comment.LogID, &comment.UserID, &comment.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}

	return comment, nil
}

// Create はコメントを作成し、投稿者プロジェクション付きで返す。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) (*model.CommentWithAuthor, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, content, log_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.Content, comment.LogID, comment.UserID, comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	// レスポンス用に投稿者プロジェクションを取得する
	result := &model.CommentWithAuthor{Comment: *comment}
	var imageURL sql.NullString
	err = r.db.QueryRowContext(ctx,
		`SELECT name, image_url FROM users WHERE id = $1`,
		comment.UserID,
	).Scan(&result.Author.Name, &imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}
	if imageURL.Valid {
		result.Author.ImageURL = &imageURL.String
	}

	return result, nil
}

// Delete は指定IDのコメントを削除し、削除された行数を返す。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
