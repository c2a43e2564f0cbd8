package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hourgym/config"
	"hourgym/cron"
	"hourgym/database"
	"hourgym/database/repository/booking"
	"hourgym/database/repository/gym"
	"hourgym/database/repository/schedule"
	"hourgym/database/repository/space"
	"hourgym/handlers"
	"hourgym/routes"
	"hourgym/services/booking"
	"hourgym/services/notification"
	"hourgym/services/payment"
	"hourgym/services/storage"
	"hourgym/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	gyms := gymRepo.NewMongoGymRepo()
	spaces := spaceRepo.NewMongoSpaceRepo()
	schedules := scheduleRepo.NewMongoScheduleRepo()
	bookings := bookingRepo.NewMongoBookingRepo()

	// services.
	mailer := notification.NewMailer(
		config.AppConfig.MailerSendAPIKey,
		config.AppConfig.MailerFromName,
		config.AppConfig.MailerFromEmail,
	)
	notifier := notification.NewDefaultNotificationService(mailer, notification.DevSMSSender{})

	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderClient.Close()

	bookingSvc := &booking.DefaultBookingService{
		Spaces:    spaces,
		Schedule:  schedules,
		Bookings:  bookings,
		Gateway:   payment.NewStripeGateway(logger),
		Notifier:  notifier,
		Reminders: reminderClient,
		Rules:     booking.RulesFromConfig(config.AppConfig),
	}

	var photoStorage storage.PhotoStorage
	if config.AppConfig.CloudinaryURL != "" {
		cs, err := storage.NewCloudinaryStorage(config.AppConfig.CloudinaryURL)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize photo storage: %v", err)
		}
		photoStorage = cs
	} else {
		logger.Warn("CLOUDINARY_URL not set, photo uploads disabled")
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking:      handlers.NewBookingHandler(bookingSvc),
		Webhook:      handlers.NewWebhookHandler(bookingSvc),
		Gym:          handlers.NewGymHandler(gyms, spaces, bookings),
		Space:        handlers.NewSpaceHandler(spaces, gyms),
		Availability: handlers.NewAvailabilityHandler(schedules, spaces, gyms),
		Storage:      handlers.NewStorageHandler(photoStorage, spaces, gyms),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the reminder worker.
	cron.InitReminderWorker(bookings, spaces, notifier)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
