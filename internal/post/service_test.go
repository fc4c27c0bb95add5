package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/learnlog/internal/authz"
	"github.com/hitoshi/learnlog/internal/model"
	"github.com/hitoshi/learnlog/internal/repository"
)

const adminEmail = "admin@example.com"

// --- モック定義 ---

type mockPostRepo struct {
	listFn     func(ctx context.Context) ([]model.PostWithAuthor, error)
	findByIDFn func(ctx context.Context, id string) (*model.PostWithAuthor, error)
	createFn   func(ctx context.Context, post *model.Post) error
	updateFn   func(ctx context.Context, id string, title, content *string) (*model.Post, error)
	deleteFn   func(ctx context.Context, id string) (int64, error)
}

func (m *mockPostRepo) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) Update(ctx context.Context, id string, title, content *string) (*model.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, title, content)
	}
	return nil, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) CreateWithIdentity(_ context.Context, _ *model.User, _ *model.Identity) error {
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, _, _ string, _ *string) error {
	return nil
}

type mockRecorder struct {
	created int
}

func (m *mockRecorder) RecordPostCreated() {
	m.created++
}

var _ repository.PostRepository = (*mockPostRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

// adminUserRepo は指定IDで管理者ユーザーを返すモックを生成する。
func adminUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: adminEmail, Name: "Admin"}, nil
		},
	}
}

// regularUserRepo は指定IDで一般ユーザーを返すモックを生成する。
func regularUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "user@example.com", Name: "User"}, nil
		},
	}
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("error code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- List / Get のテスト ---

func TestService_List_ReturnsPosts(t *testing.T) {
	posts := []model.PostWithAuthor{
		{Post: model.Post{ID: "p-1", Title: "最初の記事"}},
		{Post: model.Post{ID: "p-2", Title: "次の記事"}},
	}
	repo := &mockPostRepo{
		listFn: func(ctx context.Context) ([]model.PostWithAuthor, error) {
			return posts, nil
		},
	}

	svc := NewService(repo, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(posts) = %d, want 2", len(got))
	}
}

// 記事の不在は正常な結果でありエラーではないことを検証
func TestService_Get_MissingPost_ReturnsNilNil(t *testing.T) {
	repo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.PostWithAuthor, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	post, err := svc.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post != nil {
		t.Errorf("post = %+v, want nil", post)
	}
}

// --- Create のテスト ---

func TestService_Create_AdminSucceeds(t *testing.T) {
	var created *model.Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *model.Post) error {
			created = post
			return nil
		},
	}
	recorder := &mockRecorder{}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), recorder)

	post, err := svc.Create(context.Background(), "user-admin", "今日の学習", "Goのスライスを学んだ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created == nil {
		t.Fatal("expected post to be persisted")
	}
	if post.ID == "" {
		t.Error("expected generated post ID")
	}
	if post.UserID != "user-admin" {
		t.Errorf("post.UserID = %q, want %q", post.UserID, "user-admin")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if recorder.created != 1 {
		t.Errorf("post creation recorded %d times, want 1", recorder.created)
	}
}

// 非管理者は作成できず、リポジトリにも到達しないことを検証
func TestService_Create_NonAdmin_Unauthorized(t *testing.T) {
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *model.Post) error {
			t.Fatal("repository should not be called for unauthorized user")
			return nil
		},
	}

	svc := NewService(repo, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	_, err := svc.Create(context.Background(), "user-1", "タイトル", "本文")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

// ユーザーレコードが存在しない場合も認可拒否として扱うことを検証
func TestService_Create_UnknownUser_Unauthorized(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(&mockPostRepo{}, userRepo, authz.NewPolicy(adminEmail), nil)

	_, err := svc.Create(context.Background(), "ghost", "タイトル", "本文")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

// タイトル・本文が空白のみの場合はバリデーションエラーを返すことを検証
func TestService_Create_BlankFields_ValidationError(t *testing.T) {
	svc := NewService(&mockPostRepo{}, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"タイトルが空", "", "本文"},
		{"本文が空", "タイトル", ""},
		{"タイトルが空白のみ", "   ", "本文"},
		{"本文が空白のみ", "タイトル", "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-admin", tt.title, tt.content)
			assertAPIErrorCode(t, err, model.ErrCodeMissingPostFields)
		})
	}
}

// 認可判定がバリデーションより先に行われることを検証
// （非管理者には入力不備でも401を返す）
func TestService_Create_AuthzBeforeValidation(t *testing.T) {
	svc := NewService(&mockPostRepo{}, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	_, err := svc.Create(context.Background(), "user-1", "", "")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

// --- Update のテスト ---

func TestService_Update_AdminPartialUpdate(t *testing.T) {
	newTitle := "新しいタイトル"
	repo := &mockPostRepo{
		updateFn: func(ctx context.Context, id string, title, content *string) (*model.Post, error) {
			if title == nil || *title != newTitle {
				t.Errorf("title = %v, want %q", title, newTitle)
			}
			if content != nil {
				t.Errorf("content = %v, want nil (not updated)", content)
			}
			return &model.Post{ID: id, Title: *title, Content: "既存の本文", UpdatedAt: time.Now()}, nil
		},
	}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	post, err := svc.Update(context.Background(), "user-admin", "p-1", &newTitle, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.Title != newTitle {
		t.Errorf("post.Title = %q, want %q", post.Title, newTitle)
	}
}

func TestService_Update_NonAdmin_Unauthorized(t *testing.T) {
	repo := &mockPostRepo{
		updateFn: func(ctx context.Context, id string, title, content *string) (*model.Post, error) {
			t.Fatal("repository should not be called for unauthorized user")
			return nil, nil
		},
	}

	svc := NewService(repo, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	title := "x"
	_, err := svc.Update(context.Background(), "user-1", "p-1", &title, nil)
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

// 両フィールドがnilの場合は更新対象なしエラーを返すことを検証
func TestService_Update_NoFields_ValidationError(t *testing.T) {
	svc := NewService(&mockPostRepo{}, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	_, err := svc.Update(context.Background(), "user-admin", "p-1", nil, nil)
	assertAPIErrorCode(t, err, model.ErrCodeNoUpdateFields)
}

func TestService_Update_MissingPost_NotFound(t *testing.T) {
	repo := &mockPostRepo{
		updateFn: func(ctx context.Context, id string, title, content *string) (*model.Post, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	title := "x"
	_, err := svc.Update(context.Background(), "user-admin", "missing", &title, nil)
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
}

// --- Delete のテスト ---

func TestService_Delete_AdminSucceeds(t *testing.T) {
	var deletedID string
	repo := &mockPostRepo{
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			deletedID = id
			return 1, nil
		},
	}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	if err := svc.Delete(context.Background(), "user-admin", "p-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deletedID != "p-1" {
		t.Errorf("deleted post ID = %q, want %q", deletedID, "p-1")
	}
}

func TestService_Delete_NonAdmin_Unauthorized(t *testing.T) {
	repo := &mockPostRepo{
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			t.Fatal("repository should not be called for unauthorized user")
			return 0, nil
		},
	}

	svc := NewService(repo, regularUserRepo(), authz.NewPolicy(adminEmail), nil)

	err := svc.Delete(context.Background(), "user-1", "p-1")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

// 削除対象が存在しない場合は404相当のエラーを返すことを検証
func TestService_Delete_MissingPost_NotFound(t *testing.T) {
	repo := &mockPostRepo{
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 0, nil
		},
	}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	err := svc.Delete(context.Background(), "user-admin", "missing")
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
}

// リポジトリエラーはAPIErrorではなく内部エラーとして伝播することを検証
func TestService_Delete_RepoError_Propagates(t *testing.T) {
	repo := &mockPostRepo{
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	svc := NewService(repo, adminUserRepo(), authz.NewPolicy(adminEmail), nil)

	err := svc.Delete(context.Background(), "user-admin", "p-1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("expected plain error, got APIError %v", apiErr)
	}
}
