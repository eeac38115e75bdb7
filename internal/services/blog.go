package services

import (
	"context"
	"strings"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"
	"blogtalks/internal/utils"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type BlogService interface {
	Upsert(ctx context.Context, authorID int, req models.UpsertBlogRequest) (string, error)
	GetByAuthor(ctx context.Context, authorID int, draft bool, limit, offset int) ([]*models.Blog, error)
}

type blogService struct {
	blogs  repository.BlogRepo
	users  UserRepo
	policy *bluemonday.Policy
}

func NewBlogService(blogs repository.BlogRepo, users UserRepo) BlogService {
	return &blogService{
		blogs:  blogs,
		users:  users,
		policy: bluemonday.StrictPolicy(),
	}
}

// Upsert — создание или обновление блога. Черновик сохраняется с любым
// набором полей (кроме заголовка), публикация требует полной
// заполненности. Порядок проверок фиксирован: title → description →
// banner → content → tags, в ошибке называется первое незаполненное поле.
func (s *blogService) Upsert(ctx context.Context, authorID int, req models.UpsertBlogRequest) (string, error) {
	log := logger.WithCtx(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		log.Warn("Валидация не пройдена: заголовок пуст")
		return "", apperrors.NewValidation("title", "заголовок обязателен")
	}

	draft := req.Draft != nil && *req.Draft
	tags := normalizeTags(req.Tags)

	if req.BlogID != "" {
		return s.update(ctx, authorID, title, draft, tags, req)
	}
	return s.create(ctx, authorID, title, draft, tags, req)
}

func (s *blogService) create(ctx context.Context, authorID int, title string, draft bool, tags []string, req models.UpsertBlogRequest) (string, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание блога",
		zap.Int("author_id", authorID),
		zap.String("title", title),
		zap.Bool("draft", draft),
		zap.Int("tags_count", len(tags)),
	)

	if !draft {
		if err := checkCompleteness(req, tags); err != nil {
			log.Warn("Валидация публикации не пройдена", zap.Error(err))
			return "", err
		}
	}

	b := &models.Blog{
		BlogID:      utils.BlogID(title),
		AuthorID:    authorID,
		Title:       s.policy.Sanitize(title),
		Description: s.policy.Sanitize(strings.TrimSpace(req.Description)),
		Banner:      strings.TrimSpace(req.Banner),
		Content:     req.Content,
		Tags:        tags,
		Draft:       draft,
	}

	created, err := s.blogs.Create(ctx, b)
	if err != nil {
		log.Error("Ошибка создания блога (repo)", zap.Error(err))
		return "", err
	}

	// Побочные обновления автора: ошибка логируется, созданный блог не
	// откатывается — согласованность здесь best-effort.
	if !draft {
		if err := s.users.IncrementAccountInfo(ctx, authorID, "total_posts", 1); err != nil {
			log.Error("Не удалось увеличить total_posts автора", zap.Int("author_id", authorID), zap.Error(err))
		}
	}
	if err := s.users.AppendBlog(ctx, authorID, created.BlogID); err != nil {
		log.Error("Не удалось дописать блог в список автора", zap.Int("author_id", authorID), zap.Error(err))
	}

	log.Info("Блог создан", zap.String("blog_id", created.BlogID), zap.Bool("draft", created.Draft))
	return created.BlogID, nil
}

func (s *blogService) update(ctx context.Context, authorID int, title string, draft bool, tags []string, req models.UpsertBlogRequest) (string, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление блога", zap.String("blog_id", req.BlogID), zap.Bool("draft", draft))

	existing, err := s.blogs.GetByBlogID(ctx, req.BlogID)
	if err != nil {
		log.Warn("Блог для обновления не найден (repo)", zap.String("blog_id", req.BlogID), zap.Error(err))
		return "", err
	}
	if existing.AuthorID != authorID {
		log.Warn("Попытка обновить чужой блог", zap.String("blog_id", req.BlogID), zap.Int("author_id", authorID))
		return "", apperrors.ErrAccessDenied
	}

	// Обновление уже существующего блога полную проверку заполненности не
	// повторяет: опубликованному блогу доверяем оставаться валидным.
	existing.Title = s.policy.Sanitize(title)
	existing.Description = s.policy.Sanitize(strings.TrimSpace(req.Description))
	existing.Banner = strings.TrimSpace(req.Banner)
	existing.Content = req.Content
	existing.Tags = tags
	existing.Draft = draft

	if err := s.blogs.Update(ctx, existing); err != nil {
		log.Error("Ошибка обновления блога (repo)", zap.String("blog_id", req.BlogID), zap.Error(err))
		return "", err
	}

	log.Info("Блог обновлён", zap.String("blog_id", req.BlogID), zap.Bool("draft", draft))
	return req.BlogID, nil
}

func (s *blogService) GetByAuthor(ctx context.Context, authorID int, draft bool, limit, offset int) ([]*models.Blog, error) {
	return s.blogs.GetByAuthor(ctx, authorID, draft, limit, offset)
}

// checkCompleteness — инвариант публикации: у не-черновика заполнены
// описание, баннер, хотя бы один блок контента и хотя бы один тег.
func checkCompleteness(req models.UpsertBlogRequest, tags []string) error {
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidation("description", "для публикации нужно описание")
	}
	if strings.TrimSpace(req.Banner) == "" {
		return apperrors.NewValidation("banner", "для публикации нужен баннер")
	}
	if len(req.ContentBlocks().Blocks) == 0 {
		return apperrors.NewValidation("content", "для публикации нужен контент")
	}
	if len(tags) == 0 {
		return apperrors.NewValidation("tags", "для публикации нужен хотя бы один тег")
	}
	return nil
}

func normalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
