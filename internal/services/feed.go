package services

import (
	"context"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"

	"go.uber.org/zap"
)

// FeedService — выдача опубликованных блогов: лента, трендовое, поиск.
// Черновики сюда не попадают никогда.
type FeedService interface {
	Latest(ctx context.Context, limit, offset int) ([]*models.Blog, int, error)
	Trending(ctx context.Context, limit int) ([]*models.Blog, error)
	Search(ctx context.Context, tag, query, author string, limit, offset int) ([]*models.Blog, int, error)
}

type feedService struct {
	blogs repository.BlogRepo
	users UserRepo
}

func NewFeedService(blogs repository.BlogRepo, users UserRepo) FeedService {
	return &feedService{blogs: blogs, users: users}
}

func (s *feedService) Latest(ctx context.Context, limit, offset int) ([]*models.Blog, int, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Лента блогов", zap.Int("limit", limit), zap.Int("offset", offset))

	list, err := s.blogs.GetLatest(ctx, limit, offset)
	if err != nil {
		log.Error("Ошибка получения ленты (repo)", zap.Error(err))
		return nil, 0, err
	}
	total, err := s.blogs.CountSearch(ctx, repository.SearchParams{})
	if err != nil {
		log.Error("Ошибка подсчёта ленты (repo)", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *feedService) Trending(ctx context.Context, limit int) ([]*models.Blog, error) {
	return s.blogs.GetTrending(ctx, limit)
}

func (s *feedService) Search(ctx context.Context, tag, query, author string, limit, offset int) ([]*models.Blog, int, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Поиск блогов",
		zap.String("tag", tag),
		zap.String("query", query),
		zap.String("author", author),
	)

	p := repository.SearchParams{Tag: tag, Query: query, Limit: limit, Offset: offset}
	if author != "" {
		u, err := s.users.GetByUsername(ctx, author)
		if err != nil {
			log.Warn("Автор для поиска не найден", zap.String("author", author), zap.Error(err))
			return nil, 0, err
		}
		p.AuthorID = u.ID
	}

	list, err := s.blogs.Search(ctx, p)
	if err != nil {
		log.Error("Ошибка поиска блогов (repo)", zap.Error(err))
		return nil, 0, err
	}
	total, err := s.blogs.CountSearch(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
