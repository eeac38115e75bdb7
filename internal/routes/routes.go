package routes

import (
	"blogtalks/internal/handlers"
	"blogtalks/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	blogHandler *handlers.BlogHandler,
	notifHandler *handlers.NotificationHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/login/federated", authHandler.LoginFederated).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")

	api.HandleFunc("/users/{username}", authHandler.GetUser).Methods("GET")

	api.HandleFunc("/blogs", blogHandler.Latest).Methods("GET")
	api.HandleFunc("/blogs/trending", blogHandler.Trending).Methods("GET")
	api.HandleFunc("/blogs/search", blogHandler.Search).Methods("GET")
	api.HandleFunc("/blogs/{blogId}", blogHandler.Get).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")

	protected.HandleFunc("/blogs", blogHandler.Upsert).Methods("POST")
	protected.HandleFunc("/blogs/{blogId}/like", blogHandler.Like).Methods("POST")
	protected.HandleFunc("/blogs/{blogId}/liked", blogHandler.IsLiked).Methods("GET")
	protected.HandleFunc("/me/blogs", blogHandler.MyBlogs).Methods("GET")

	protected.HandleFunc("/notifications", notifHandler.List).Methods("GET")
	protected.HandleFunc("/notifications/unseen", notifHandler.UnseenCount).Methods("GET")
	protected.HandleFunc("/notifications/seen", notifHandler.MarkSeen).Methods("POST")
}
