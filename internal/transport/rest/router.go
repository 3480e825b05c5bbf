package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/i4ybrid/trip-planner/internal/activity"
	"github.com/i4ybrid/trip-planner/internal/chat"
	"github.com/i4ybrid/trip-planner/internal/expense"
	"github.com/i4ybrid/trip-planner/internal/notification"
	"github.com/i4ybrid/trip-planner/internal/ratelimit"
	"github.com/i4ybrid/trip-planner/internal/settlement"
	"github.com/i4ybrid/trip-planner/internal/transport/middleware"
	"github.com/i4ybrid/trip-planner/internal/transport/swagger"
	"github.com/i4ybrid/trip-planner/internal/trip"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Trip         *trip.Handler
	Expense      *expense.Handler
	Settlement   *settlement.Handler
	Activity     *activity.Handler
	Chat         *chat.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, redisClient *redis.Client, handlers Handlers, limiter *ratelimit.Limiter, metricsEnabled bool, metricsPath string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, redisClient)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.UserContext)
	if metricsEnabled {
		router.Use(middleware.Metrics)
	}

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	if metricsEnabled {
		router.Handle(metricsPath, promhttp.Handler())
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(ar chi.Router) {
			if limiter != nil {
				ar.Use(limiter.Middleware)
			}

			if handlers.Trip != nil {
				ar.Route("/trips", func(tr chi.Router) {
					tr.Post("/", handlers.Trip.CreateTrip)
					tr.Get("/", handlers.Trip.ListUserTrips)
					tr.Get("/{tripID}", handlers.Trip.GetTrip)

					tr.Post("/{tripID}/members", handlers.Trip.InviteMember)
					tr.Delete("/{tripID}/members/{userID}", handlers.Trip.RemoveMember)

					if handlers.Expense != nil {
						tr.Post("/{tripID}/expenses", handlers.Expense.CreateExpense)
						tr.Get("/{tripID}/expenses", handlers.Expense.GetTripExpenses)
					}

					if handlers.Settlement != nil {
						tr.Get("/{tripID}/settlement", handlers.Settlement.SettleTrip)
					}

					if handlers.Activity != nil {
						tr.Post("/{tripID}/activities", handlers.Activity.ProposeActivity)
						tr.Get("/{tripID}/activities", handlers.Activity.ListTripActivities)
					}

					if handlers.Chat != nil {
						tr.Post("/{tripID}/messages", handlers.Chat.PostMessage)
						tr.Get("/{tripID}/messages", handlers.Chat.ListTripMessages)
					}
				})

				ar.Post("/invitations/respond", handlers.Trip.RespondToInvite)
			}

			if handlers.Expense != nil {
				ar.Route("/expenses", func(er chi.Router) {
					er.Get("/{expenseID}", handlers.Expense.GetExpense)
					er.Get("/{expenseID}/splits", handlers.Expense.GetExpenseSplits)
					er.Patch("/{expenseID}/cancel", handlers.Expense.CancelExpense)
				})
			}

			if handlers.Activity != nil {
				ar.Route("/activities", func(acr chi.Router) {
					acr.Get("/{activityID}", handlers.Activity.GetActivity)
					acr.Put("/{activityID}/vote", handlers.Activity.CastVote)
					acr.Delete("/{activityID}/vote", handlers.Activity.RetractVote)
					acr.Post("/{activityID}/close", handlers.Activity.CloseVoting)
					acr.Post("/{activityID}/book", handlers.Activity.BookActivity)
				})
				ar.Post("/activities/process-deadlines", handlers.Activity.ProcessDeadlines)
			}

			if handlers.Notification != nil {
				ar.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", handlers.Notification.ListNotifications)
					nr.Patch("/{notificationID}/read", handlers.Notification.MarkRead)
				})
			}
		})
	})
}
