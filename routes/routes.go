package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ippeitanaka/orienteering-sub000/handlers"
	"github.com/ippeitanaka/orienteering-sub000/middleware"
)

// SetupRoutes mounts the full HTTP surface. Read endpoints are public so
// venue screens can render without credentials; mutations require a team or
// staff token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	checkpointHandler *handlers.CheckpointHandler,
	checkinHandler *handlers.CheckinHandler,
	locationHandler *handlers.LocationHandler,
	timerHandler *handlers.TimerHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	staffOnly := middleware.Authorize(middleware.RoleStaff, middleware.RoleAdmin)
	adminOnly := middleware.Authorize(middleware.RoleAdmin)
	teamOnly := middleware.Authorize(middleware.RoleTeam)

	router.Post("/auth/staff", authHandler.LoginStaff)
	router.Post("/auth/team", authHandler.LoginTeam)

	router.Get("/ws", webSocketHandler.ServeWs)
	router.Get("/timer", timerHandler.Get)
	router.Get("/team-locations", locationHandler.Current)
	router.Get("/checkins", checkinHandler.ListByTeam)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", teamHandler.Create)
			r.Put("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)
			r.Post("/{id}/add-points", teamHandler.AddPoints)
		})
	})

	router.Route("/checkpoints", func(r chi.Router) {
		r.Get("/", checkpointHandler.List)
		r.Get("/nearest", checkpointHandler.Nearest)
		r.Get("/{id}", checkpointHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", checkpointHandler.Create)
			r.Put("/{id}", checkpointHandler.Update)
			r.Delete("/{id}", checkpointHandler.Delete)
			r.Get("/{id}/qrcode", checkpointHandler.QRCode)
			r.Post("/{id}/qrcode/publish", checkpointHandler.PublishQRCode)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(teamOnly)

		r.Post("/checkin", checkinHandler.Attempt)
		r.Post("/team-location", locationHandler.Report)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(staffOnly)

		r.Post("/timer", timerHandler.Act)
		r.Delete("/checkins/{id}", checkinHandler.Revoke)
		r.Delete("/team-locations", locationHandler.Reset)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/dashboard", dashboardHandler.Stats)
	})
}
