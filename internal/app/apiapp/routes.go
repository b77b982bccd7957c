package apiapp

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/m2dev/codefolio/internal/config"
	authsvc "github.com/m2dev/codefolio/internal/services/auth"
	chatsvc "github.com/m2dev/codefolio/internal/services/chat"
	eventssvc "github.com/m2dev/codefolio/internal/services/events"
	experiencessvc "github.com/m2dev/codefolio/internal/services/experiences"
	portfoliosvc "github.com/m2dev/codefolio/internal/services/portfolio"
	profilessvc "github.com/m2dev/codefolio/internal/services/profiles"
	projectssvc "github.com/m2dev/codefolio/internal/services/projects"
	skillssvc "github.com/m2dev/codefolio/internal/services/skills"
	"github.com/m2dev/codefolio/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	ProfileService    *profilessvc.Service
	ProjectService    *projectssvc.Service
	SkillService      *skillssvc.Service
	ExperienceService *experiencessvc.Service
	PortfolioService  *portfoliosvc.Service
	ChatService       *chatsvc.Service
	ChangeFeed        *eventssvc.Feed
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	projectHandler := handlers.NewProjectHandler(deps.ProjectService)
	skillHandler := handlers.NewSkillHandler(deps.SkillService)
	experienceHandler := handlers.NewExperienceHandler(deps.ExperienceService)
	portfolioHandler := handlers.NewPortfolioHandler(deps.PortfolioService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	watchHandler := handlers.NewWatchHandler(deps.ChangeFeed)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole(authsvc.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		// Long-lived stream, exempt from the request timeout.
		r.Get("/collections/{name}/watch", watchHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))

			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.Refresh)
			r.With(authMW).Post("/auth/logout", authHandler.Logout)
			r.With(authMW).Post("/auth/logout_all", authHandler.LogoutAll)

			// Public read surface.
			r.Get("/portfolio", portfolioHandler.Get)
			r.Get("/profile", profileHandler.Get)
			r.Get("/projects", projectHandler.List)
			r.Get("/projects/{id}", projectHandler.Get)
			r.Get("/skills", skillHandler.List)
			r.Get("/skills/{id}", skillHandler.Get)
			r.Get("/experiences", experienceHandler.List)
			r.Get("/experiences/{id}", experienceHandler.Get)
			r.Post("/chat", chatHandler.Handle)

			// Admin write surface.
			r.Group(func(r chi.Router) {
				r.Use(authMW, adminMW)
				r.Put("/profile", profileHandler.Update)
				r.Post("/projects", projectHandler.Create)
				r.Put("/projects/{id}", projectHandler.Update)
				r.Delete("/projects/{id}", projectHandler.Delete)
				r.Post("/skills", skillHandler.Create)
				r.Put("/skills/{id}", skillHandler.Update)
				r.Delete("/skills/{id}", skillHandler.Delete)
				r.Post("/experiences", experienceHandler.Create)
				r.Put("/experiences/{id}", experienceHandler.Update)
				r.Delete("/experiences/{id}", experienceHandler.Delete)
			})
		})
	})
}
