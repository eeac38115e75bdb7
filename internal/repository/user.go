package repository

import (
	"context"
	"errors"
	"fmt"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/logger"
	"blogtalks/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (username, email, full_name, bio, password_hash, role)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.Bio,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	logger.Log.Debug("Проверка username на уникальность (repo)", zap.String("username", username))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по username (repo)", zap.String("username", username))
	query := `SELECT id, username, email, full_name, bio, password_hash, role, total_posts, total_reads, created_at, updated_at
	FROM users
	WHERE username = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Bio,
		&user.PasswordHash,
		&user.Role,
		&user.AccountInfo.TotalPosts,
		&user.AccountInfo.TotalReads,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по username (repo)", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.Int("user_id", id))
	query := `SELECT id, username, email, full_name, bio, password_hash, role, total_posts, total_reads, created_at, updated_at
	FROM users
	WHERE id = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.Bio,
		&u.PasswordHash,
		&u.Role,
		&u.AccountInfo.TotalPosts,
		&u.AccountInfo.TotalReads,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по ID (repo)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// IncrementAccountInfo атомарно прибавляет delta к счётчику пользователя.
// Никаких read-modify-write: один UPDATE, чтобы не терять конкурентные
// обновления.
func (r *UserRepository) IncrementAccountInfo(ctx context.Context, userID int, field string, delta int64) error {
	if field != "total_posts" && field != "total_reads" {
		return fmt.Errorf("недопустимое поле счётчика: %s", field)
	}
	query := fmt.Sprintf(`UPDATE users SET %s = %s + $1, updated_at = NOW() WHERE id = $2`, field, field)
	tag, err := r.db.Exec(ctx, query, delta, userID)
	if err != nil {
		logger.Log.Error("Ошибка инкремента счётчика пользователя (repo)",
			zap.Int("user_id", userID), zap.String("field", field), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendBlog дописывает ссылку на блог в список блогов автора.
func (r *UserRepository) AppendBlog(ctx context.Context, userID int, blogID string) error {
	query := `UPDATE users SET blogs = blogs || to_jsonb($1::text), updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, blogID, userID)
	if err != nil {
		logger.Log.Error("Ошибка добавления блога в список автора (repo)",
			zap.Int("user_id", userID), zap.String("blog_id", blogID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.Int("user_id", userID))
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (repo)", zap.Int("user_id", userID))
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Удаление refresh токена (repo)", zap.Int("user_id", userID))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
