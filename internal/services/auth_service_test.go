package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/utils"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	byID     map[int]*models.User
	nextID   int
	lastUser *models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users: make(map[string]*models.User),
		byID:  make(map[int]*models.User),
	}
}

func (m *mockUserRepo) add(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		m.nextID++
		u.ID = m.nextID
	}
	m.users[u.Username] = u
	m.byID[u.ID] = u
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.add(user)
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) IncrementAccountInfo(_ context.Context, userID int, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	switch field {
	case "total_posts":
		u.AccountInfo.TotalPosts += delta
	case "total_reads":
		u.AccountInfo.TotalReads += delta
	}
	return nil
}

func (m *mockUserRepo) AppendBlog(_ context.Context, userID int, blogID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Blogs = append(u.Blogs, blogID)
	return nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}
func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return true, nil
}
func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		FullName: "Тестовый Пользователь",
	}

	err := service.RegisterUser(context.Background(), user, "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	repo.add(&models.User{Username: "taken", Email: "taken@example.com"})

	err := service.RegisterUser(context.Background(), &models.User{
		Username: "taken",
		Email:    "other@example.com",
	}, "secret1")
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("ожидался ErrConflict, получили: %v", err)
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	// создаём пользователя вручную
	hashed, _ := utils.HashPassword("secret")
	repo.add(&models.User{
		Username:     "testuser",
		PasswordHash: hashed,
		Role:         "user",
	})

	access, refresh, err := service.LoginUser(context.Background(), "testuser", "secret", "mysecret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}

	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
}

type fakeProvider struct {
	email string
	name  string
	err   error
}

func (p *fakeProvider) Verify(_ context.Context, _ string) (string, string, error) {
	return p.email, p.name, p.err
}

func TestLoginFederated_CreatesAccountOnFirstLogin(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthServiceWithProvider(repo, &fakeProvider{email: "new@example.com", name: "Новый Пользователь"})

	access, refresh, err := service.LoginFederated(context.Background(), "provider-token", "mysecret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("федеративный вход не удался: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
	if _, err := repo.GetByUsername(context.Background(), "new"); err != nil {
		t.Fatal("аккаунт должен создаваться при первом входе")
	}
}

func TestLoginFederated_InvalidProviderToken(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthServiceWithProvider(repo, &fakeProvider{err: errors.New("bad token")})

	_, _, err := service.LoginFederated(context.Background(), "x", "mysecret", time.Minute, time.Hour)
	if !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Fatalf("ожидался ErrInvalidToken, получили: %v", err)
	}
}

func TestLoginUser_Fail(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	_, _, err := service.LoginUser(context.Background(), "unknown", "pass", "secret", time.Minute, time.Hour)
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("ожидался ErrUnauthenticated при логине несуществующего пользователя, получили: %v", err)
	}
}
