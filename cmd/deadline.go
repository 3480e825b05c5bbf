package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/i4ybrid/trip-planner/internal/activity"
	activityPostgres "github.com/i4ybrid/trip-planner/internal/activity/postgres"
	"github.com/i4ybrid/trip-planner/internal/core/events"
	"github.com/i4ybrid/trip-planner/internal/notification"
	notificationPostgres "github.com/i4ybrid/trip-planner/internal/notification/postgres"
	"github.com/i4ybrid/trip-planner/internal/trip"
	tripPostgres "github.com/i4ybrid/trip-planner/internal/trip/postgres"
	"github.com/i4ybrid/trip-planner/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// deadlineCmd closes voting on every activity whose deadline has passed.
// Meant to run on a schedule, e.g. a cron entry every few minutes.
var deadlineCmd = &cobra.Command{
	Use:   "process-deadlines",
	Short: "Close voting on activities whose deadline has passed",
	RunE:  runDeadlineProcessing,
}

func runDeadlineProcessing(_ *cobra.Command, _ []string) error {
	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	config, err := loadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	inviteManager := trip.NewInviteTokenManager(config.Invite.TokenSecret, config.Invite.TokenTTL)
	tripService := trip.NewService(tripPostgres.NewTripRepository(gormDB), inviteManager, eventBus, appLogger)

	var sender notification.Sender = notification.NoopSender{}
	if config.Notification.EmailEnabled && config.Notification.SendgridAPIKey != "" {
		sender = notification.NewSendgridSender(
			config.Notification.SendgridAPIKey,
			config.Notification.FromEmail,
			config.Notification.FromName,
			appLogger,
		)
	}
	notificationService := notification.NewService(
		notificationPostgres.NewNotificationRepository(gormDB), tripService, sender, appLogger)
	notification.NewEventHandler(notificationService, appLogger).RegisterEventHandlers(eventBus)

	// Synchronous publishing so notifications land before the process
	// exits.
	activityService := activity.NewService(
		activityPostgres.NewActivityRepository(gormDB),
		tripService,
		nil,
		syncBus{eventBus},
		appLogger,
	)

	processed, err := activityService.ProcessAllDeadlines(context.Background())
	if err != nil {
		return fmt.Errorf("deadline processing failed: %w", err)
	}

	appLogger.Info("deadline processing complete", "activities_closed", processed)
	return nil
}

type syncBus struct {
	bus *events.EventBus
}

func (s syncBus) Publish(ctx context.Context, event events.Event) error {
	return s.bus.PublishSync(ctx, event)
}
