package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/activity"
	activityPostgres "github.com/i4ybrid/trip-planner/internal/activity/postgres"
	"github.com/i4ybrid/trip-planner/internal/chat"
	chatPostgres "github.com/i4ybrid/trip-planner/internal/chat/postgres"
	"github.com/i4ybrid/trip-planner/internal/core/events"
	"github.com/i4ybrid/trip-planner/internal/expense"
	expensePostgres "github.com/i4ybrid/trip-planner/internal/expense/postgres"
	"github.com/i4ybrid/trip-planner/internal/notification"
	notificationPostgres "github.com/i4ybrid/trip-planner/internal/notification/postgres"
	"github.com/i4ybrid/trip-planner/internal/ratelimit"
	"github.com/i4ybrid/trip-planner/internal/settlement"
	"github.com/i4ybrid/trip-planner/internal/transport/rest"
	"github.com/i4ybrid/trip-planner/internal/trip"
	tripPostgres "github.com/i4ybrid/trip-planner/internal/trip/postgres"
	"github.com/i4ybrid/trip-planner/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Redis    *redis.Client
	Router   *chi.Mux
	Handlers rest.Handlers
	Limiter  *ratelimit.Limiter
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Redis,
		deps.Handlers,
		deps.Limiter,
		deps.Config.Observability.Metrics.Enabled,
		deps.Config.Observability.Metrics.Path,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				slog.Error("Redis close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	var limiterStore ratelimit.Store
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		appLogger.Warn("redis not available, using in-memory rate limit store", "error", err)
		limiterStore = ratelimit.NewMemoryStore()
	} else {
		limiterStore = ratelimit.NewRedisStore(redisClient)
	}
	limiter := ratelimit.NewLimiter(limiterStore, config.Redis.RateLimitRequests, config.Redis.RateLimitWindow, appLogger)

	eventBus := events.NewEventBus(appLogger)

	inviteManager := trip.NewInviteTokenManager(config.Invite.TokenSecret, config.Invite.TokenTTL)

	tripRepo := tripPostgres.NewTripRepository(gormDB)
	tripService := trip.NewService(tripRepo, inviteManager, eventBus, appLogger)

	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	expenseService := expense.NewService(expenseRepo, tripService, appLogger)

	settlementService := settlement.NewService(expenseRepo, tripService, appLogger)

	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	activityService := activity.NewService(activityRepo, tripService, bookingAdapter{expenseService}, eventBus, appLogger)

	chatRepo := chatPostgres.NewChatRepository(gormDB)
	chatService := chat.NewService(chatRepo, tripService, eventBus, appLogger)

	var sender notification.Sender = notification.NoopSender{}
	if config.Notification.EmailEnabled && config.Notification.SendgridAPIKey != "" {
		sender = notification.NewSendgridSender(
			config.Notification.SendgridAPIKey,
			config.Notification.FromEmail,
			config.Notification.FromName,
			appLogger,
		)
	}
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	notificationService := notification.NewService(notificationRepo, tripService, sender, appLogger)
	notification.NewEventHandler(notificationService, appLogger).RegisterEventHandlers(eventBus)

	handlers := rest.Handlers{
		Trip:         trip.NewHandler(tripService),
		Expense:      expense.NewHandler(expenseService),
		Settlement:   settlement.NewHandler(settlementService),
		Activity:     activity.NewHandler(activityService),
		Chat:         chat.NewHandler(chatService),
		Notification: notification.NewHandler(notificationService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   appLogger,
		DB:       db,
		GormDB:   gormDB,
		Redis:    redisClient,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Limiter:  limiter,
	}, nil
}

// bookingAdapter narrows the created expense down to the fields the
// activity module consumes.
type bookingAdapter struct {
	expenses *expense.Service
}

func (a bookingAdapter) CreateBookingForActivity(tripID, payerID, activityID int64, title string, cost float64, confirmationNum string) (*activity.BookingRecord, error) {
	exp, err := a.expenses.CreateBookingForActivity(tripID, payerID, activityID, title, cost, confirmationNum)
	if err != nil {
		return nil, err
	}
	record := &activity.BookingRecord{
		ExpenseID: exp.ID,
		Amount:    exp.Total(),
	}
	if exp.ConfirmationNum != nil {
		record.ConfirmationNum = *exp.ConfirmationNum
	}
	return record, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
