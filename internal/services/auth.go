package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"blogtalks/internal/apperrors"
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	IncrementAccountInfo(ctx context.Context, userID int, field string, delta int64) error
	AppendBlog(ctx context.Context, userID int, blogID string) error
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
}

// IdentityProvider — внешний провайдер федеративной аутентификации.
// Проверка токена провайдера живёт за этой границей, ядро получает только
// уже подтверждённые email и имя.
type IdentityProvider interface {
	Verify(ctx context.Context, providerToken string) (email, fullName string, err error)
}

type AuthService struct {
	repo     UserRepo
	provider IdentityProvider // nil, если федеративный вход не настроен
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

func NewAuthServiceWithProvider(repo UserRepo, provider IdentityProvider) *AuthService {
	return &AuthService{repo: repo, provider: provider}
}

func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.Log.Info("Регистрация пользователя (service)", zap.String("username", input.Username), zap.String("email", input.Email))

	if strings.TrimSpace(input.Username) == "" {
		return apperrors.NewValidation("username", "имя пользователя обязательно")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperrors.NewValidation("email", "некорректный email")
	}
	if len(plainPassword) < 6 {
		return apperrors.NewValidation("password", "пароль должен быть не короче 6 символов")
	}

	if exists, err := s.repo.IsUsernameTaken(ctx, input.Username); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки username", zap.Error(err))
			return err
		}
		return fmt.Errorf("%w: имя пользователя уже занято", apperrors.ErrConflict)
	}
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return err
		}
		return fmt.Errorf("%w: адрес электронной почты уже зарегистрирован", apperrors.ErrConflict)
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	input.Role = "user"

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return err
	}
	logger.Log.Info("Пользователь зарегистрирован (service)", zap.String("username", input.Username))
	return nil
}

func (s *AuthService) LoginUser(
	ctx context.Context,
	username, password, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("username", username))
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("username", username), zap.Error(err))
		return "", "", fmt.Errorf("%w: пользователь не найден", apperrors.ErrUnauthenticated)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("username", username))
		return "", "", fmt.Errorf("%w: неверный пароль", apperrors.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user, jwtSecret, accessTTL, refreshTTL)
}

// LoginFederated — вход через внешнего провайдера идентичности. Токен
// провайдера не разбирается здесь: его проверяет IdentityProvider.
func (s *AuthService) LoginFederated(
	ctx context.Context,
	providerToken, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	if s.provider == nil {
		return "", "", fmt.Errorf("%w: федеративный вход не настроен", apperrors.ErrUnauthenticated)
	}

	email, fullName, err := s.provider.Verify(ctx, providerToken)
	if err != nil {
		logger.Log.Warn("Федеративный токен не подтверждён (service)", zap.Error(err))
		return "", "", apperrors.ErrInvalidToken
	}

	username := strings.SplitN(email, "@", 2)[0]
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		// первый вход — заводим аккаунт без локального пароля
		user = &models.User{
			Username: username,
			Email:    email,
			FullName: fullName,
		}
		randomPass, hashErr := utils.HashPassword(uuid.NewString())
		if hashErr != nil {
			return "", "", hashErr
		}
		user.PasswordHash = randomPass
		user.Role = "user"
		if err := s.repo.CreateUser(ctx, user); err != nil {
			logger.Log.Error("Ошибка создания федеративного пользователя", zap.Error(err))
			return "", "", err
		}
	}

	return s.issueTokens(ctx, user, jwtSecret, accessTTL, refreshTTL)
}

func (s *AuthService) issueTokens(
	ctx context.Context,
	user *models.User,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", err
	}

	logger.Log.Info("Вход выполнен (service)", zap.String("username", user.Username))
	return accessToken, refreshToken, nil
}

func (s *AuthService) RefreshTokens(
	ctx context.Context,
	refreshToken, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", apperrors.ErrInvalidToken
	}
	if claims["token_type"] != "refresh" {
		return "", "", apperrors.ErrInvalidToken
	}
	userIDf, ok := claims["user_id"].(float64)
	if !ok {
		return "", "", apperrors.ErrInvalidToken
	}
	userID := int(userIDf)

	valid, err := s.repo.IsRefreshTokenValid(ctx, userID, refreshToken)
	if err != nil {
		return "", "", err
	}
	if !valid {
		return "", "", apperrors.ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", err
	}

	// старый refresh гасим, выдаём пару заново
	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		logger.Log.Warn("Не удалось удалить старый refresh-токен", zap.Int("user_id", userID), zap.Error(err))
	}

	return s.issueTokens(ctx, user, jwtSecret, accessTTL, refreshTTL)
}

func (s *AuthService) Logout(ctx context.Context, userID int, refreshToken string) error {
	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthService) GetProfileByUsername(ctx context.Context, username string) (*models.UserProfileResponse, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.UserProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Bio:         u.Bio,
		AccountInfo: u.AccountInfo,
		CreatedAt:   u.CreatedAt,
	}, nil
}
