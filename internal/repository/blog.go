package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/models"
)

type SearchParams struct {
	Tag      string
	Query    string
	AuthorID int
	Limit    int
	Offset   int
}

type BlogRepo interface {
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, b *models.Blog) error
	GetByBlogID(ctx context.Context, blogID string) (*models.Blog, error)
	GetLatest(ctx context.Context, limit, offset int) ([]*models.Blog, error)
	GetTrending(ctx context.Context, limit int) ([]*models.Blog, error)
	Search(ctx context.Context, p SearchParams) ([]*models.Blog, error)
	CountSearch(ctx context.Context, p SearchParams) (int, error)
	GetByAuthor(ctx context.Context, authorID int, draft bool, limit, offset int) ([]*models.Blog, error)
	IncrementActivity(ctx context.Context, blogID string, field string, delta int64) error
}

type blogRepo struct{ db *pgxpool.Pool }

func NewBlogRepo(db *pgxpool.Pool) BlogRepo { return &blogRepo{db: db} }

const blogColumns = `b.id, b.blog_id, b.author_id, b.title, b.description, b.banner, b.content,
	b.tags, b.draft, b.total_reads, b.total_likes, b.published_at, b.created_at, b.updated_at`

func (r *blogRepo) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	tagsJSON, _ := json.Marshal(b.Tags)
	content := b.Content
	if len(content) == 0 {
		content = json.RawMessage(`{"blocks":[]}`)
	}

	const q = `
		INSERT INTO blogs (blog_id, author_id, title, description, banner, content, tags, draft, published_at)
		VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7::jsonb,$8, CASE WHEN $8 THEN NULL ELSE NOW() END)
		RETURNING id, published_at, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		b.BlogID,
		b.AuthorID,
		b.Title,
		b.Description,
		b.Banner,
		content,
		tagsJSON,
		b.Draft,
	).Scan(&b.ID, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, apperrors.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *blogRepo) Update(ctx context.Context, b *models.Blog) error {
	tagsJSON, _ := json.Marshal(b.Tags)
	content := b.Content
	if len(content) == 0 {
		content = json.RawMessage(`{"blocks":[]}`)
	}
	const q = `
		UPDATE blogs
		SET title=$1,
		    description=$2,
		    banner=$3,
		    content=$4::jsonb,
		    tags=$5::jsonb,
		    draft=$6,
		    published_at = CASE WHEN $6 THEN published_at ELSE COALESCE(published_at, NOW()) END,
		    updated_at=NOW()
		WHERE blog_id=$7
	`
	tag, err := r.db.Exec(ctx, q, b.Title, b.Description, b.Banner, content, tagsJSON, b.Draft, b.BlogID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *blogRepo) GetByBlogID(ctx context.Context, blogID string) (*models.Blog, error) {
	q := `SELECT ` + blogColumns + ` FROM blogs b WHERE b.blog_id=$1`
	row := r.db.QueryRow(ctx, q, blogID)
	b, err := scanBlog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return b, err
}

func (r *blogRepo) GetLatest(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	q := `SELECT ` + blogColumns + `
		FROM blogs b
		WHERE b.draft = false
		ORDER BY b.published_at DESC
		LIMIT $1 OFFSET $2`
	return r.queryBlogs(ctx, q, limit, offset)
}

func (r *blogRepo) GetTrending(ctx context.Context, limit int) ([]*models.Blog, error) {
	q := `SELECT ` + blogColumns + `
		FROM blogs b
		WHERE b.draft = false
		ORDER BY b.total_reads DESC, b.total_likes DESC, b.published_at DESC
		LIMIT $1`
	return r.queryBlogs(ctx, q, limit)
}

func (r *blogRepo) Search(ctx context.Context, p SearchParams) ([]*models.Blog, error) {
	where, args := searchWhere(p)
	q := `SELECT ` + blogColumns + ` FROM blogs b WHERE ` + where +
		fmt.Sprintf(" ORDER BY b.published_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)
	return r.queryBlogs(ctx, q, args...)
}

func (r *blogRepo) CountSearch(ctx context.Context, p SearchParams) (int, error) {
	where, args := searchWhere(p)
	q := `SELECT COUNT(*) FROM blogs b WHERE ` + where
	var n int
	err := r.db.QueryRow(ctx, q, args...).Scan(&n)
	return n, err
}

func (r *blogRepo) GetByAuthor(ctx context.Context, authorID int, draft bool, limit, offset int) ([]*models.Blog, error) {
	q := `SELECT ` + blogColumns + `
		FROM blogs b
		WHERE b.author_id = $1 AND b.draft = $2
		ORDER BY b.updated_at DESC
		LIMIT $3 OFFSET $4`
	return r.queryBlogs(ctx, q, authorID, draft, limit, offset)
}

// IncrementActivity атомарно меняет счётчик блога одним UPDATE.
// Отрицательная delta допустима (снятие лайка).
func (r *blogRepo) IncrementActivity(ctx context.Context, blogID string, field string, delta int64) error {
	if field != "total_reads" && field != "total_likes" {
		return fmt.Errorf("недопустимое поле счётчика: %s", field)
	}
	q := fmt.Sprintf(`UPDATE blogs SET %s = %s + $1 WHERE blog_id = $2`, field, field)
	tag, err := r.db.Exec(ctx, q, delta, blogID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func searchWhere(p SearchParams) (string, []interface{}) {
	where := []string{"b.draft = false"}
	args := []interface{}{}
	i := 1

	if p.Tag != "" {
		// tags — jsonb-массив строк: ["a","b"]
		where = append(where, fmt.Sprintf(`
			EXISTS (
				SELECT 1
				FROM jsonb_array_elements_text(b.tags) AS t(val)
				WHERE t.val = $%d
			)
		`, i))
		args = append(args, strings.ToLower(p.Tag))
		i++
	}
	if p.Query != "" {
		where = append(where, fmt.Sprintf("b.title ILIKE '%%' || $%d || '%%'", i))
		args = append(args, p.Query)
		i++
	}
	if p.AuthorID != 0 {
		where = append(where, fmt.Sprintf("b.author_id = $%d", i))
		args = append(args, p.AuthorID)
		i++
	}
	return strings.Join(where, " AND "), args
}

func (r *blogRepo) queryBlogs(ctx context.Context, q string, args ...interface{}) ([]*models.Blog, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBlog(row pgx.Row) (*models.Blog, error) {
	var b models.Blog
	var tagsRaw []byte
	err := row.Scan(
		&b.ID, &b.BlogID, &b.AuthorID, &b.Title, &b.Description, &b.Banner, &b.Content,
		&tagsRaw, &b.Draft, &b.Activity.TotalReads, &b.Activity.TotalLikes,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(tagsRaw, &b.Tags)
	return &b, nil
}
