package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-web-gallery/internal/config"
	"go-web-gallery/internal/handler"
	"go-web-gallery/internal/middleware"
	"go-web-gallery/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	galleryHandler *handler.GalleryHandler,
	uploadHandler *handler.UploadHandler,
	mediaHandler *handler.MediaHandler,
	systemHandler *handler.SystemHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", systemHandler.Health)
	r.Get("/system/json", systemHandler.Info)

	r.Post("/login", authHandler.Login)
	r.Post("/refresh", authHandler.Refresh)
	r.Post("/logout", authHandler.Logout)

	r.Get("/media/*", mediaHandler.Serve)
	r.With(authMiddleware.RequireAuth).Post("/upload", uploadHandler.Upload)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.RequireAuth)

		api.Get("/auth/me", authHandler.Me)
		api.Post("/user/change-password", authHandler.ChangePassword)

		api.Get("/gallery", galleryHandler.List)
		api.Get("/gallery/tree", galleryHandler.Tree)

		api.Route("/admin/users", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireRoles(model.RoleAdmin))

			admin.Get("/", userHandler.List)
			admin.Post("/", userHandler.Create)
			admin.Delete("/{id}", userHandler.Delete)
			admin.Put("/{id}/status", userHandler.UpdateStatus)
			admin.Put("/{id}/password", userHandler.SetPassword)
		})
	})

	return r
}
