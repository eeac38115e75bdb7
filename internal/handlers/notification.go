package handlers

import (
	"net/http"

	"blogtalks/internal/middleware"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"
)

type NotificationHandler struct {
	engagement services.EngagementService
}

func NewNotificationHandler(engagement services.EngagementService) *NotificationHandler {
	return &NotificationHandler{engagement: engagement}
}

// List
// @Summary      Уведомления текущего пользователя
// @Tags         notifications
// @Produce      json
// @Param        page  query  int  false  "Номер страницы (с 1)"
// @Security     ApiKeyAuth
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	page := pageParam(r)
	list, err := h.engagement.Notifications(r.Context(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]interface{}{"notifications": list, "page": page})
}

// UnseenCount
// @Summary      Количество непросмотренных уведомлений
// @Tags         notifications
// @Produce      json
// @Security     ApiKeyAuth
// @Router       /api/notifications/unseen [get]
func (h *NotificationHandler) UnseenCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	n, err := h.engagement.UnseenCount(r.Context(), userID)
	if err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]int{"count": n})
}

// MarkSeen
// @Summary      Отметить уведомления просмотренными
// @Tags         notifications
// @Security     ApiKeyAuth
// @Router       /api/notifications/seen [post]
func (h *NotificationHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	if err := h.engagement.MarkSeen(r.Context(), userID); err != nil {
		helpers.DomainError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
