package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"hourgym/config"
	"hourgym/database/repository/booking"
	"hourgym/database/repository/space"
	"hourgym/models"
	"hourgym/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(bookings bookingRepo.BookingRepository, spaces spaceRepo.SpaceRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(bookings, spaces, notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask re-reads the booking at fire time: cancellations
// after scheduling must suppress the reminder, and the set-once marker
// keeps asynq retries from double-sending.
func handleReminderTask(bookings bookingRepo.BookingRepository, spaces spaceRepo.SpaceRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		b, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				log.Printf("[ReminderHandler] booking %s no longer exists, skipping", p.BookingID)
				return nil
			}
			return err
		}
		if b.Status != models.BookingConfirmed || b.ReminderSentAt != nil {
			return nil
		}
		if time.Now().After(b.StartAt) {
			// Delivery slipped past the session start; a late reminder is noise.
			return nil
		}

		sw, err := spaces.GetWithGym(ctx, b.SpaceID)
		if err != nil {
			log.Printf("[ReminderHandler] could not load space %s: %v", b.SpaceID, err)
			return err
		}

		data := notification.BookingNotification{
			BookingID:         b.ID,
			SpaceName:         sw.Space.Name,
			GymName:           sw.Gym.Name,
			StartAt:           b.StartAt,
			EndAt:             b.EndAt,
			Address:           sw.Gym.Address,
			EntryInstructions: sw.Space.EntryInstructions,
			ContactName:       sw.Gym.ContactName,
			ContactPhone:      sw.Gym.ContactPhone,
			TotalAmountCents:  b.TotalAmount,
			RenterName:        b.RenterName,
			RenterEmail:       b.RenterEmail,
			RenterPhone:       b.RenterPhone,
		}
		if err := notifSvc.SendBookingReminder(ctx, data); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for booking %s: %v", b.ID, err)
			return err
		}

		if err := bookings.MarkReminderSent(ctx, b.ID, time.Now()); err != nil && !errors.Is(err, bookingRepo.ErrNotFound) {
			log.Printf("[ReminderHandler] failed to mark reminder sent for booking %s: %v", b.ID, err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
