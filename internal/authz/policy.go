// Package authz は認可ポリシーを提供する。
//
// ポリシーは純粋な判定関数の集合であり、I/Oを行わない。
// 管理者メールアドレスはコンストラクタで注入され、環境変数等の
// グローバル状態を参照しないため、ネットワークやストアなしでテストできる。
package authz

import "github.com/hitoshi/learnlog/internal/model"

// Policy は記事・コメント操作の認可判定を行う。
type Policy struct {
	adminEmail string
}

// NewPolicy はPolicyを生成する。
// adminEmailには設定済みの管理者メールアドレスを1件だけ渡す。
func NewPolicy(adminEmail string) *Policy {
	return &Policy{adminEmail: adminEmail}
}

// IsAdmin はemailが設定済みの管理者メールアドレスと完全一致するかを判定する。
// 比較は大文字小文字を区別し、正規化は行わない。
// emailが空の場合、および管理者メールアドレスが未設定の場合は常にfalseを返す。
func (p *Policy) IsAdmin(email string) bool {
	if p.adminEmail == "" || email == "" {
		return false
	}
	return email == p.adminEmail
}

// CanMutatePost は記事の作成・更新・削除が許可されるかを判定する。
// ゲートは管理者判定のみであり、記事の作成者かどうかは判定に使用しない。
// 3操作すべてに同一の判定を適用する。
func (p *Policy) CanMutatePost(u *model.User) bool {
	return u != nil && p.IsAdmin(u.Email)
}

// CanCreateComment はコメントの投稿が許可されるかを判定する。
// サインイン済みであれば管理者か否かを問わず許可する。
func (p *Policy) CanCreateComment(u *model.User) bool {
	return u != nil
}

// CanDeleteComment はコメントの削除が許可されるかを判定する。
// コメントの投稿者本人、または管理者のみが削除できる。
func (p *Policy) CanDeleteComment(u *model.User, c *model.Comment) bool {
	if u == nil || c == nil {
		return false
	}
	return u.ID == c.UserID || p.IsAdmin(u.Email)
}
