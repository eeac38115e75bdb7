package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"blogtalks/internal/config"
	"blogtalks/internal/logger"
	"blogtalks/internal/middleware"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc *services.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type federatedLoginRequest struct {
	ProviderToken string `json:"provider_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register
// @Summary      Регистрация пользователя
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   registerRequest  true  "Данные регистрации"
// @Success      201   {object}  helpers.Response
// @Failure      400   {object}  helpers.Response
// @Failure      409   {object}  helpers.Response
// @Router       /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Error("ошибка декодирования JSON при регистрации", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	}

	if err := h.svc.RegisterUser(r.Context(), user, req.Password); err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, map[string]interface{}{"id": user.ID, "username": user.Username})
}

// Login
// @Summary      Вход по логину и паролю
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   loginRequest  true  "Логин и пароль"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  helpers.Response
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	access, refresh, err := h.svc.LoginUser(
		r.Context(), req.Username, req.Password,
		h.cfg.JWTSecret, h.accessTTL(), h.refreshTTL(),
	)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

// LoginFederated
// @Summary      Вход через внешнего провайдера
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   federatedLoginRequest  true  "Токен провайдера"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  helpers.Response
// @Router       /api/login/federated [post]
func (h *AuthHandler) LoginFederated(w http.ResponseWriter, r *http.Request) {
	var req federatedLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	access, refresh, err := h.svc.LoginFederated(
		r.Context(), req.ProviderToken,
		h.cfg.JWTSecret, h.accessTTL(), h.refreshTTL(),
	)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Refresh
// @Summary      Обновление пары токенов
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  helpers.Response
// @Router       /api/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	access, refresh, err := h.svc.RefreshTokens(
		r.Context(), req.RefreshToken,
		h.cfg.JWTSecret, h.accessTTL(), h.refreshTTL(),
	)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Logout
// @Summary      Выход (отзыв refresh-токена)
// @Tags         auth
// @Security     ApiKeyAuth
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	if err := h.svc.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Profile
// @Summary      Профиль текущего пользователя
// @Tags         auth
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200   {object}  models.User
// @Router       /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	user, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// GetUser
// @Summary      Публичный профиль по username
// @Tags         users
// @Produce      json
// @Param        username  path  string  true  "Имя пользователя"
// @Success      200   {object}  models.UserProfileResponse
// @Failure      404   {object}  helpers.Response
// @Router       /api/users/{username} [get]
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	profile, err := h.svc.GetProfileByUsername(r.Context(), username)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) accessTTL() time.Duration {
	d, err := time.ParseDuration(h.cfg.AccessTokenTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func (h *AuthHandler) refreshTTL() time.Duration {
	d, err := time.ParseDuration(h.cfg.RefreshTokenTTL)
	if err != nil {
		return 720 * time.Hour
	}
	return d
}
