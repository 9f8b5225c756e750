package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/Dosada05/tkd-competition/handlers"
	"github.com/Dosada05/tkd-competition/middleware"
)

type Handlers struct {
	Events     *handlers.EventHandler
	Matches    *handlers.MatchHandler
	Pools      *handlers.PoolHandler
	Medals     *handlers.MedalHandler
	Spectators *handlers.WebSocketHandler

	PSSSocket http.Handler // /ws/pss
	PSSPush   http.Handler // /pubsub/pss, nil если push-подписка не используется
	Metrics   http.Handler
}

func SetupRoutes(router chi.Router, h Handlers, auth *middleware.Authenticator, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", h.Metrics)

	// Потоковые соединения живут дольше таймаута обычных запросов.
	router.Get("/ws/matches/{matchID}", h.Spectators.ServeMatch)
	router.Get("/ws/events/{eventID}", h.Spectators.ServeEvent)
	router.Get("/ws/pools/{poolID}", h.Spectators.ServePool)

	// Кадры PSS меняют счет, поэтому без токена их не принимаем.
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateStream)
		r.Use(middleware.Authorize(middleware.RoleAdmin, middleware.RoleOperator, middleware.RoleDevice))

		r.Handle("/ws/pss", h.PSSSocket)
		if h.PSSPush != nil {
			r.Method(http.MethodPost, "/pubsub/pss", h.PSSPush)
		}
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		// Публичные маршруты для просмотра
		r.Get("/events", h.Events.ListEvents)
		r.Get("/events/{eventID}", h.Events.GetEvent)
		r.Get("/events/{eventID}/competitors", h.Events.ListCompetitors)
		r.Get("/events/{eventID}/matches", h.Matches.ListEventMatches)
		r.Get("/events/{eventID}/medals", h.Medals.ListEventMedals)
		r.Get("/medals/standings", h.Medals.MedalStandings)
		r.Get("/matches/{matchID}", h.Matches.GetMatch)
		r.Get("/pools/{poolID}", h.Pools.GetPool)
		r.Get("/pools/{poolID}/matches", h.Pools.ListMatches)
		r.Get("/pools/{poolID}/standings", h.Pools.GetStandings)

		// Защищенные маршруты: операторы ведут матчи, админы строят соревнование
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleAdmin, middleware.RoleOperator))

			r.Post("/matches/{matchID}/actions", h.Matches.RecordAction)
			r.Post("/matches/{matchID}/results", h.Matches.SubmitResult)
			r.Put("/matches/{matchID}/status", h.Matches.ChangeScheduleStatus)
			r.Get("/matches/{matchID}/configuration", h.Matches.GetConfiguration)
			r.Put("/matches/{matchID}/configuration", h.Matches.UpsertConfiguration)
			r.Get("/matches/{matchID}/referees", h.Matches.GetReferees)
			r.Put("/matches/{matchID}/referees", h.Matches.AssignReferees)
			r.Put("/matches/{matchID}/equipment", h.Matches.AssignEquipment)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleAdmin))

			r.Post("/events", h.Events.CreateEvent)
			r.Post("/events/{eventID}/sessions", h.Events.CreateSession)
			r.Post("/events/{eventID}/competitors", h.Events.AddCompetitor)
			r.Put("/events/{eventID}/competitors/{competitorID}/seed", h.Events.SetSeed)
			r.Post("/events/{eventID}/bracket", h.Events.GenerateBracket)
			r.Get("/events/{eventID}/bracket/preview", h.Events.PreviewBracket)

			r.Post("/matches", h.Matches.CreateMatch)
			r.Delete("/matches/{matchID}", h.Matches.DeleteMatch)

			r.Post("/pools", h.Pools.CreatePool)
			r.Post("/pools/{poolID}/competitors", h.Pools.AddCompetitor)
			r.Delete("/pools/{poolID}/competitors/{competitorID}", h.Pools.RemoveCompetitor)
			r.Post("/pools/{poolID}/matches", h.Pools.GenerateMatches)
			r.Post("/pools/{poolID}/standings/recompute", h.Pools.RecomputeStandings)
		})
	})
}
