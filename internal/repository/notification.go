package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"blogtalks/internal/models"
)

// NotificationRepo хранит записи о лайках. Запись — единственное
// доказательство лайка и одновременно уведомление автору.
type NotificationRepo interface {
	IsLiked(ctx context.Context, userID int, blogID int64) (bool, error)
	Like(ctx context.Context, userID int, blogID int64, authorID int) error
	Unlike(ctx context.Context, userID int, blogID int64) error
	ListFor(ctx context.Context, userID, limit, offset int) ([]*models.Notification, error)
	CountUnseen(ctx context.Context, userID int) (int, error)
	MarkSeen(ctx context.Context, userID int) error
}

type notificationRepo struct{ db *pgxpool.Pool }

func NewNotificationRepo(db *pgxpool.Pool) NotificationRepo {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) IsLiked(ctx context.Context, userID int, blogID int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id=$1 AND blog_id=$2 AND type=$3)`
	var exists bool
	err := r.db.QueryRow(ctx, q, userID, blogID, models.NotificationTypeLike).Scan(&exists)
	return exists, err
}

// Like идемпотентен: повторный лайк той же пары (пользователь, блог)
// упирается в частичный уникальный индекс и ничего не вставляет.
func (r *notificationRepo) Like(ctx context.Context, userID int, blogID int64, authorID int) error {
	const q = `
		INSERT INTO notifications (type, blog_id, user_id, notification_for)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, blog_id) WHERE type = 'like' DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, models.NotificationTypeLike, blogID, userID, authorID)
	return err
}

func (r *notificationRepo) Unlike(ctx context.Context, userID int, blogID int64) error {
	const q = `DELETE FROM notifications WHERE user_id=$1 AND blog_id=$2 AND type=$3`
	_, err := r.db.Exec(ctx, q, userID, blogID, models.NotificationTypeLike)
	return err
}

func (r *notificationRepo) ListFor(ctx context.Context, userID, limit, offset int) ([]*models.Notification, error) {
	const q = `
		SELECT n.id, n.type, n.blog_id, b.blog_id, b.title, n.user_id, u.username,
		       n.notification_for, n.seen, n.created_at
		FROM notifications n
		JOIN blogs b ON b.id = n.blog_id
		JOIN users u ON u.id = n.user_id
		WHERE n.notification_for = $1 AND n.user_id <> $1
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.Type, &n.BlogID, &n.BlogSlug, &n.BlogTitle, &n.UserID, &n.Username,
			&n.NotificationFor, &n.Seen, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *notificationRepo) CountUnseen(ctx context.Context, userID int) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE notification_for=$1 AND user_id<>$1 AND seen=false`
	var n int
	err := r.db.QueryRow(ctx, q, userID).Scan(&n)
	return n, err
}

func (r *notificationRepo) MarkSeen(ctx context.Context, userID int) error {
	const q = `UPDATE notifications SET seen=true WHERE notification_for=$1 AND seen=false`
	_, err := r.db.Exec(ctx, q, userID)
	return err
}
