package app

import (
	"blogtalks/internal/config"
	"blogtalks/internal/db"
	"blogtalks/internal/handlers"
	"blogtalks/internal/repository"
	"blogtalks/internal/routes"
	"blogtalks/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.Migrate(cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	blogRepo := repository.NewBlogRepo(conn)
	notifRepo := repository.NewNotificationRepo(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo)
	blogService := services.NewBlogService(blogRepo, userRepo)
	feedService := services.NewFeedService(blogRepo, userRepo)
	engagementService := services.NewEngagementService(blogRepo, userRepo, notifRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg)
	blogHandler := handlers.NewBlogHandler(blogService, feedService, engagementService)
	notifHandler := handlers.NewNotificationHandler(engagementService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, blogHandler, notifHandler)

	return router, nil
}
