package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	"github.com/framil09/prefeitura--sub000/internal/auth"
	"github.com/framil09/prefeitura--sub000/internal/transport/middleware"
	"github.com/framil09/prefeitura--sub000/internal/transport/swagger"
	"github.com/framil09/prefeitura--sub000/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	DB                *sql.DB
	AuthMiddleware    *auth.Middleware
	PermissionHandler *accesscontrol.Handler
	UserHandler       *user.Handler
	AllowedOrigins    string
	Logger            *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	// OpenAPI document and swagger UI at the site root.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Everything below consumes an authenticated identity.
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthMiddleware.Authenticate)

			pr.Get("/menu", deps.PermissionHandler.GetMenu)
			pr.Get("/users/me", deps.UserHandler.GetCurrentUser)

			// Permission management is itself a gated section.
			pr.Group(func(mr chi.Router) {
				mr.Use(deps.PermissionHandler.RequireSection(accesscontrol.SectionPermissoes))

				mr.Get("/users", deps.UserHandler.ListUsers)
				mr.Get("/users/{id}/permissions", deps.PermissionHandler.ListPermissions)
				mr.Put("/users/{id}/permissions/{section}", deps.PermissionHandler.SetPermission)
				mr.Post("/users/{id}/permissions/preset", deps.PermissionHandler.ApplyPreset)
			})
		})
	})
}
