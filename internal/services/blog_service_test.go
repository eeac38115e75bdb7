package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"
)

// Мок-хранилище блогов: карта по blog_id, все мутации под мьютексом.
type mockBlogRepo struct {
	mu     sync.Mutex
	blogs  map[string]*models.Blog
	nextID int64
}

func newMockBlogRepo() *mockBlogRepo {
	return &mockBlogRepo{blogs: make(map[string]*models.Blog)}
}

func (m *mockBlogRepo) Create(_ context.Context, b *models.Blog) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.blogs[b.BlogID]; exists {
		return nil, apperrors.ErrConflict
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	if !b.Draft {
		now := time.Now()
		b.PublishedAt = &now
	}
	m.blogs[b.BlogID] = b
	return b, nil
}

func (m *mockBlogRepo) Update(_ context.Context, b *models.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.blogs[b.BlogID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !b.Draft && existing.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	b.UpdatedAt = time.Now()
	m.blogs[b.BlogID] = b
	return nil
}

func (m *mockBlogRepo) GetByBlogID(_ context.Context, blogID string) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBlogRepo) GetLatest(_ context.Context, limit, offset int) ([]*models.Blog, error) {
	return m.published(), nil
}

func (m *mockBlogRepo) GetTrending(_ context.Context, limit int) ([]*models.Blog, error) {
	return m.published(), nil
}

func (m *mockBlogRepo) Search(_ context.Context, p repository.SearchParams) ([]*models.Blog, error) {
	return m.published(), nil
}

func (m *mockBlogRepo) CountSearch(_ context.Context, p repository.SearchParams) (int, error) {
	return len(m.published()), nil
}

func (m *mockBlogRepo) GetByAuthor(_ context.Context, authorID int, draft bool, limit, offset int) ([]*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Blog
	for _, b := range m.blogs {
		if b.AuthorID == authorID && b.Draft == draft {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBlogRepo) IncrementActivity(_ context.Context, blogID string, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return apperrors.ErrNotFound
	}
	switch field {
	case "total_reads":
		b.Activity.TotalReads += delta
	case "total_likes":
		b.Activity.TotalLikes += delta
	}
	return nil
}

func (m *mockBlogRepo) published() []*models.Blog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Blog
	for _, b := range m.blogs {
		if !b.Draft {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func completeRequest(title string) models.UpsertBlogRequest {
	return models.UpsertBlogRequest{
		Title:       title,
		Description: "описание",
		Banner:      "https://cdn.example.com/banner.png",
		Content:     json.RawMessage(`{"blocks":[{"type":"paragraph"}]}`),
		Tags:        []string{"Go", "backend"},
	}
}

func TestUpsert_DraftWithTitleOnly(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	id, err := svc.Upsert(context.Background(), 1, models.UpsertBlogRequest{
		Title: "Hello World",
		Draft: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("черновик с одним заголовком должен сохраняться: %v", err)
	}
	if id == "" {
		t.Fatal("пустой blog_id")
	}

	author, _ := users.GetUserByID(context.Background(), 1)
	if author.AccountInfo.TotalPosts != 0 {
		t.Fatalf("черновик не должен менять total_posts, получили %d", author.AccountInfo.TotalPosts)
	}
	if len(author.Blogs) != 1 || author.Blogs[0] != id {
		t.Fatalf("блог не дописан в список автора: %v", author.Blogs)
	}
}

func TestUpsert_TitleRequiredAlways(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	svc := NewBlogService(newMockBlogRepo(), users)

	_, err := svc.Upsert(context.Background(), 1, models.UpsertBlogRequest{Draft: boolPtr(true)})
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || ve.Field != "title" {
		t.Fatalf("ожидалась ValidationError по title, получили: %v", err)
	}
}

func TestUpsert_CompletenessOrder(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	svc := NewBlogService(newMockBlogRepo(), users)

	// последовательно дополняем поля и проверяем, что ошибка называет
	// первое незаполненное в фиксированном порядке
	req := models.UpsertBlogRequest{Title: "Hello"}
	steps := []struct {
		field string
		fill  func()
	}{
		{"description", func() { req.Description = "d" }},
		{"banner", func() { req.Banner = "b" }},
		{"content", func() { req.Content = json.RawMessage(`{"blocks":[{}]}`) }},
		{"tags", func() { req.Tags = []string{"x"} }},
	}

	for _, step := range steps {
		_, err := svc.Upsert(context.Background(), 1, req)
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) || ve.Field != step.field {
			t.Fatalf("ожидалась ValidationError по %q, получили: %v", step.field, err)
		}
		step.fill()
	}

	if _, err := svc.Upsert(context.Background(), 1, req); err != nil {
		t.Fatalf("полный запрос должен публиковаться: %v", err)
	}
}

func TestUpsert_PublishIncrementsTotalPosts(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	svc := NewBlogService(newMockBlogRepo(), users)

	if _, err := svc.Upsert(context.Background(), 1, completeRequest("Пост")); err != nil {
		t.Fatalf("публикация не удалась: %v", err)
	}

	author, _ := users.GetUserByID(context.Background(), 1)
	if author.AccountInfo.TotalPosts != 1 {
		t.Fatalf("total_posts должен стать 1, получили %d", author.AccountInfo.TotalPosts)
	}
}

func TestUpsert_TagsNormalized(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	req := completeRequest("Теги")
	req.Tags = []string{" Go ", "GO", "Backend"}

	id, err := svc.Upsert(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("публикация не удалась: %v", err)
	}

	b, _ := blogs.GetByBlogID(context.Background(), id)
	if len(b.Tags) != 2 || b.Tags[0] != "go" || b.Tags[1] != "backend" {
		t.Fatalf("теги должны быть в нижнем регистре без дублей: %v", b.Tags)
	}
}

func TestUpsert_UpdateSkipsCompleteness(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	id, err := svc.Upsert(context.Background(), 1, completeRequest("Обновляемый"))
	if err != nil {
		t.Fatalf("публикация не удалась: %v", err)
	}

	// обновление уже опубликованного блога не перегоняет полную проверку
	_, err = svc.Upsert(context.Background(), 1, models.UpsertBlogRequest{
		Title:  "Новый заголовок",
		BlogID: id,
	})
	if err != nil {
		t.Fatalf("обновление по blogId не должно требовать полноты: %v", err)
	}

	b, _ := blogs.GetByBlogID(context.Background(), id)
	if b.Title != "Новый заголовок" {
		t.Fatalf("заголовок не обновился: %q", b.Title)
	}
	if b.Draft {
		t.Fatal("draft без значения в запросе должен сбрасываться в false")
	}
}

func TestUpsert_UpdateForeignBlogDenied(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	users.add(&models.User{Username: "intruder"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	id, err := svc.Upsert(context.Background(), 1, completeRequest("Чужой"))
	if err != nil {
		t.Fatalf("публикация не удалась: %v", err)
	}

	_, err = svc.Upsert(context.Background(), 2, models.UpsertBlogRequest{Title: "x", BlogID: id})
	if !errors.Is(err, apperrors.ErrAccessDenied) {
		t.Fatalf("ожидался ErrAccessDenied, получили: %v", err)
	}
}

func TestUpsert_DraftThenPublish(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	id, err := svc.Upsert(context.Background(), 1, models.UpsertBlogRequest{
		Title: "Hello World",
		Draft: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("черновик не сохранился: %v", err)
	}

	req := models.UpsertBlogRequest{
		Title:       "Hello World",
		Description: "d",
		Banner:      "b",
		Content:     json.RawMessage(`{"blocks":[{}]}`),
		Tags:        []string{"x"},
		Draft:       boolPtr(false),
		BlogID:      id,
	}
	if _, err := svc.Upsert(context.Background(), 1, req); err != nil {
		t.Fatalf("публикация черновика не удалась: %v", err)
	}

	b, _ := blogs.GetByBlogID(context.Background(), id)
	if b.Draft {
		t.Fatal("блог должен быть опубликован")
	}
	if b.PublishedAt == nil {
		t.Fatal("publishedAt должен быть выставлен при первой публикации")
	}
}

func TestCreate_GeneratedIDCollision(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewBlogService(blogs, users)

	id, err := svc.Upsert(context.Background(), 1, completeRequest("Коллизия"))
	if err != nil {
		t.Fatalf("публикация не удалась: %v", err)
	}

	// форсируем столкновение сгенерированных идентификаторов
	_, err = blogs.Create(context.Background(), &models.Blog{BlogID: id, AuthorID: 1, Title: "Коллизия"})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("ожидался ErrConflict при дубле blog_id, получили: %v", err)
	}
}
