package models

import (
	"encoding/json"
	"time"
)

// Activity — встроенные счётчики вовлечённости блога.
type Activity struct {
	TotalReads int64 `db:"total_reads" json:"total_reads"`
	TotalLikes int64 `db:"total_likes" json:"total_likes"`
}

type Blog struct {
	ID          int64           `db:"id"           json:"-"`
	BlogID      string          `db:"blog_id"      json:"blog_id"`
	AuthorID    int             `db:"author_id"    json:"authorId"`
	Title       string          `db:"title"        json:"title"`
	Description string          `db:"description"  json:"description"`
	Banner      string          `db:"banner"       json:"banner"`
	Content     json.RawMessage `db:"content"      json:"content"`
	Tags        []string        `db:"-"            json:"tags"`
	Draft       bool            `db:"draft"        json:"draft"`
	Activity    Activity        `db:"-"            json:"activity"`
	PublishedAt *time.Time      `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time       `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at"   json:"updatedAt"`
}

// swagger:model UpsertBlogRequest
type UpsertBlogRequest struct {
	Title       string          `json:"title"       example:"Как писать middleware в Go"`
	Description string          `json:"description" example:"Короткое описание для превью"`
	Banner      string          `json:"banner"      example:"https://cdn.example.com/banner.png"`
	Content     json.RawMessage `json:"content"`
	Tags        []string        `json:"tags"        example:"go,backend"`
	Draft       *bool           `json:"draft,omitempty"`
	BlogID      string          `json:"blogId,omitempty"`
}

// ContentBlocks — минимальная структура контента: содержимое блоков
// непрозрачно, проверяется только их наличие.
type ContentBlocks struct {
	Blocks []json.RawMessage `json:"blocks"`
}

func (r *UpsertBlogRequest) ContentBlocks() ContentBlocks {
	var cb ContentBlocks
	if len(r.Content) > 0 {
		_ = json.Unmarshal(r.Content, &cb)
	}
	return cb
}
