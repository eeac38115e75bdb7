package services

import (
	"context"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"

	"go.uber.org/zap"
)

const ViewModeEdit = "edit"

// EngagementService координирует счётчики и записи о лайках. Счётчик и
// запись не накрыты одной транзакцией: падение между шагами оставляет их
// временно рассогласованными, это принятый best-effort.
type EngagementService interface {
	RecordView(ctx context.Context, blogID, mode string, wantDraft bool) (*models.Blog, error)
	ToggleLike(ctx context.Context, userID int, blogID string, wantLiked bool) (bool, error)
	IsLiked(ctx context.Context, userID int, blogID string) (bool, error)
	Notifications(ctx context.Context, userID, limit, offset int) ([]*models.Notification, error)
	UnseenCount(ctx context.Context, userID int) (int, error)
	MarkSeen(ctx context.Context, userID int) error
}

type engagementService struct {
	blogs  repository.BlogRepo
	users  UserRepo
	ledger repository.NotificationRepo
}

func NewEngagementService(blogs repository.BlogRepo, users UserRepo, ledger repository.NotificationRepo) EngagementService {
	return &engagementService{blogs: blogs, users: users, ledger: ledger}
}

// RecordView засчитывает просмотр блога и автора, затем отдаёт блог.
// В режиме edit просмотр бесплатный. Учёт идёт ДО проверки видимости
// черновика: просмотр, упёршийся в AccessDenied, уже засчитан.
func (s *engagementService) RecordView(ctx context.Context, blogID, mode string, wantDraft bool) (*models.Blog, error) {
	log := logger.WithCtx(ctx)

	b, err := s.blogs.GetByBlogID(ctx, blogID)
	if err != nil {
		log.Warn("Блог не найден при просмотре", zap.String("blog_id", blogID), zap.Error(err))
		return nil, err
	}

	var delta int64 = 1
	if mode == ViewModeEdit {
		delta = 0
	}

	if delta != 0 {
		if err := s.blogs.IncrementActivity(ctx, blogID, "total_reads", delta); err != nil {
			log.Error("Ошибка учёта просмотра блога", zap.String("blog_id", blogID), zap.Error(err))
			return nil, err
		}
		b.Activity.TotalReads += delta

		// счётчик автора — побочное обновление: логируем, не откатываем
		if err := s.users.IncrementAccountInfo(ctx, b.AuthorID, "total_reads", delta); err != nil {
			log.Error("Не удалось увеличить total_reads автора",
				zap.Int("author_id", b.AuthorID), zap.Error(err))
		}
	}

	if b.Draft && !wantDraft {
		log.Warn("Черновик запрошен без явного доступа", zap.String("blog_id", blogID))
		return nil, apperrors.ErrAccessDenied
	}

	log.Debug("Просмотр засчитан", zap.String("blog_id", blogID), zap.Int64("delta", delta))
	return b, nil
}

// ToggleLike применяет желаемое состояние, заявленное клиентом. Клиент
// обязан сначала спросить IsLiked — «слепого» переключения здесь нет.
func (s *engagementService) ToggleLike(ctx context.Context, userID int, blogID string, wantLiked bool) (bool, error) {
	log := logger.WithCtx(ctx)

	b, err := s.blogs.GetByBlogID(ctx, blogID)
	if err != nil {
		log.Warn("Блог не найден при лайке", zap.String("blog_id", blogID), zap.Error(err))
		return false, err
	}

	var delta int64 = 1
	if !wantLiked {
		delta = -1
	}

	if err := s.blogs.IncrementActivity(ctx, blogID, "total_likes", delta); err != nil {
		log.Error("Ошибка изменения total_likes", zap.String("blog_id", blogID), zap.Error(err))
		return false, err
	}

	if wantLiked {
		err = s.ledger.Like(ctx, userID, b.ID, b.AuthorID)
	} else {
		err = s.ledger.Unlike(ctx, userID, b.ID)
	}
	if err != nil {
		log.Error("Ошибка записи лайка", zap.String("blog_id", blogID), zap.Bool("want_liked", wantLiked), zap.Error(err))
		return false, err
	}

	log.Info("Лайк переключён",
		zap.Int("user_id", userID),
		zap.String("blog_id", blogID),
		zap.Bool("liked", wantLiked),
	)
	return wantLiked, nil
}

func (s *engagementService) IsLiked(ctx context.Context, userID int, blogID string) (bool, error) {
	b, err := s.blogs.GetByBlogID(ctx, blogID)
	if err != nil {
		return false, err
	}
	return s.ledger.IsLiked(ctx, userID, b.ID)
}

func (s *engagementService) Notifications(ctx context.Context, userID, limit, offset int) ([]*models.Notification, error) {
	return s.ledger.ListFor(ctx, userID, limit, offset)
}

func (s *engagementService) UnseenCount(ctx context.Context, userID int) (int, error) {
	return s.ledger.CountUnseen(ctx, userID)
}

func (s *engagementService) MarkSeen(ctx context.Context, userID int) error {
	return s.ledger.MarkSeen(ctx, userID)
}
