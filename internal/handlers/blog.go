package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"blogtalks/internal/logger"
	"blogtalks/internal/middleware"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	pageSize      = 5
	trendingLimit = 5
)

type BlogHandler struct {
	blogs      services.BlogService
	feed       services.FeedService
	engagement services.EngagementService
}

func NewBlogHandler(blogs services.BlogService, feed services.FeedService, engagement services.EngagementService) *BlogHandler {
	return &BlogHandler{blogs: blogs, feed: feed, engagement: engagement}
}

// Upsert
// @Summary      Создать или обновить блог
// @Description  Без blogId создаёт блог (черновик или публикацию), с blogId — обновляет существующий.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        body  body   models.UpsertBlogRequest  true  "Данные блога"
// @Success      200   {object}  helpers.Response
// @Failure      400   {object}  helpers.Response
// @Failure      409   {object}  helpers.Response
// @Security     ApiKeyAuth
// @Router       /api/blogs [post]
func (h *BlogHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Error("ошибка декодирования JSON при сохранении блога", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	id, err := h.blogs.Upsert(r.Context(), userID, req)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"id": id})
}

// Get
// @Summary      Получить блог
// @Description  Засчитывает просмотр (кроме mode=edit). Черновик отдаётся только при draft=true.
// @Tags         blogs
// @Produce      json
// @Param        blogId  path   string  true   "Идентификатор блога"
// @Param        draft   query  bool    false  "Явный запрос черновика"
// @Param        mode    query  string  false  "edit — просмотр без учёта"
// @Success      200   {object}  helpers.Response
// @Failure      403   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Router       /api/blogs/{blogId} [get]
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["blogId"]
	mode := r.URL.Query().Get("mode")
	wantDraft, _ := strconv.ParseBool(r.URL.Query().Get("draft"))

	blog, err := h.engagement.RecordView(r.Context(), blogID, mode, wantDraft)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{"blog": blog})
}

// Latest
// @Summary      Лента опубликованных блогов
// @Tags         blogs
// @Produce      json
// @Param        page  query  int  false  "Номер страницы (с 1)"
// @Success      200   {object}  helpers.Response
// @Router       /api/blogs [get]
func (h *BlogHandler) Latest(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	list, total, err := h.feed.Latest(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"blogs": list,
		"total": total,
		"page":  page,
	})
}

// Trending
// @Summary      Трендовые блоги
// @Tags         blogs
// @Produce      json
// @Success      200   {object}  helpers.Response
// @Router       /api/blogs/trending [get]
func (h *BlogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	list, err := h.feed.Trending(r.Context(), trendingLimit)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]interface{}{"blogs": list})
}

// Search
// @Summary      Поиск опубликованных блогов
// @Tags         blogs
// @Produce      json
// @Param        tag     query  string  false  "Тег"
// @Param        query   query  string  false  "Подстрока заголовка"
// @Param        author  query  string  false  "Username автора"
// @Param        page    query  int     false  "Номер страницы (с 1)"
// @Success      200   {object}  helpers.Response
// @Router       /api/blogs/search [get]
func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageParam(r)

	list, total, err := h.feed.Search(r.Context(),
		q.Get("tag"), q.Get("query"), q.Get("author"),
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"blogs": list,
		"total": total,
		"page":  page,
	})
}

// MyBlogs
// @Summary      Блоги текущего автора
// @Tags         blogs
// @Produce      json
// @Param        draft  query  bool  false  "Черновики вместо публикаций"
// @Param        page   query  int   false  "Номер страницы (с 1)"
// @Security     ApiKeyAuth
// @Router       /api/me/blogs [get]
func (h *BlogHandler) MyBlogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	draft, _ := strconv.ParseBool(r.URL.Query().Get("draft"))
	page := pageParam(r)

	list, err := h.blogs.GetByAuthor(r.Context(), userID, draft, pageSize, (page-1)*pageSize)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]interface{}{"blogs": list, "page": page})
}

// Like
// @Summary      Поставить или снять лайк
// @Description  Клиент передаёт желаемое конечное состояние isLikedByUser.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        blogId  path  string  true  "Идентификатор блога"
// @Success      200   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Security     ApiKeyAuth
// @Router       /api/blogs/{blogId}/like [post]
func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["blogId"]

	var req struct {
		IsLikedByUser bool `json:"isLikedByUser"`
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

	liked, err := h.engagement.ToggleLike(r.Context(), userID, blogID, req.IsLikedByUser)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]bool{"likedByUser": liked})
}

// IsLiked
// @Summary      Лайкнул ли текущий пользователь блог
// @Tags         blogs
// @Produce      json
// @Param        blogId  path  string  true  "Идентификатор блога"
// @Success      200   {object}  helpers.Response
// @Security     ApiKeyAuth
// @Router       /api/blogs/{blogId}/liked [get]
func (h *BlogHandler) IsLiked(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["blogId"]

	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	liked, err := h.engagement.IsLiked(r.Context(), userID, blogID)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]bool{"result": liked})
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
