// Package model はドメインモデルを定義する。
package model

import "time"

// Post は学習ログの記事を表す。
// 作成者（UserID）は作成時に1回だけ設定され、以後変更されない。
type Post struct {
	ID        string
	Title     string
	Content   string // Markdown形式。レンダリングはフロントエンドの責務。
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment は記事に対する返信を表す。
// 親記事（LogID）は作成時に存在が検証される。編集操作は存在しない。
type Comment struct {
	ID        string
	Content   string // プレーンテキスト
	LogID     string
	UserID    string
	CreatedAt time.Time
}

// Author は一覧・詳細表示用の最小限の投稿者プロジェクション。
type Author struct {
	Name     string
	ImageURL *string
}

// PostWithAuthor は記事と投稿者プロジェクションを結合したモデル。
// usersテーブルとJOINして取得される。
type PostWithAuthor struct {
	Post
	Author Author
}

// CommentWithAuthor はコメントと投稿者プロジェクションを結合したモデル。
type CommentWithAuthor struct {
	Comment
	Author Author
}
