package services

import (
	"context"
	"errors"
	"testing"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/models"
)

func TestFeedLatest_OnlyPublished(t *testing.T) {
	users := newMockUserRepo()
	users.add(&models.User{Username: "author"})
	blogs := newMockBlogRepo()
	svc := NewFeedService(blogs, users)

	if _, err := blogs.Create(context.Background(), &models.Blog{BlogID: "pub-1", AuthorID: 1, Title: "Пост"}); err != nil {
		t.Fatalf("подготовка: %v", err)
	}
	if _, err := blogs.Create(context.Background(), &models.Blog{BlogID: "draft-1", AuthorID: 1, Title: "Черновик", Draft: true}); err != nil {
		t.Fatalf("подготовка: %v", err)
	}

	list, total, err := svc.Latest(context.Background(), 5, 0)
	if err != nil {
		t.Fatalf("лента не получена: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].BlogID != "pub-1" {
		t.Fatalf("в ленте должен быть только опубликованный блог: total=%d list=%v", total, list)
	}
}

func TestFeedSearch_UnknownAuthor(t *testing.T) {
	users := newMockUserRepo()
	svc := NewFeedService(newMockBlogRepo(), users)

	_, _, err := svc.Search(context.Background(), "", "", "ghost", 5, 0)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("поиск по несуществующему автору должен давать ErrNotFound: %v", err)
	}
}
