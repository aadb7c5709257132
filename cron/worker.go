package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"meditravel/config"
	"meditravel/services/notification"
	"meditravel/services/payment"
	"meditravel/services/tasks"
	"meditravel/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitWorker starts the background asynq worker and the periodic scheduler.
// The worker processes booking reminders and the crypto-request expiry sweep.
func InitWorker(notifSvc notification.NotificationService, store *payment.RedisWizardStore) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
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
	mux.HandleFunc(tasks.TypeBookingReminder, handleBookingReminder(notifSvc))
	mux.HandleFunc(tasks.TypeCryptoSweep, handleCryptoSweep(store))

	go func() {
		log.Println("[Worker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	startScheduler(redisOpts)
}

// startScheduler enqueues the crypto sweep every minute.
func startScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register("* * * * *", tasks.NewCryptoSweepTask()); err != nil {
		log.Fatalf("[Worker] failed to register crypto sweep: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Worker] scheduler stopped: %v", err)
		}
	}()
}

func handleBookingReminder(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.BookingReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("worker: invalid reminder payload", zap.Error(err))
			return err
		}

		title := "Upcoming treatment"
		message := "Your treatment is scheduled for " + p.ScheduledAt.Format("Jan 2, 2006 at 15:04") + "."
		data := map[string]string{
			"type":      "booking_reminder",
			"bookingId": p.BookingID,
		}

		if err := notifSvc.Notify(ctx, p.UserID, "booking_reminder", title, message, data); err != nil {
			utils.GetLogger().Error("worker: failed to deliver booking reminder",
				zap.String("bookingID", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleCryptoSweep(store *payment.RedisWizardStore) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := store.ExpirePendingRequests(ctx, time.Now())
		if err != nil {
			utils.GetLogger().Error("worker: crypto sweep failed", zap.Error(err))
			return err
		}
		if expired > 0 {
			utils.GetLogger().Info("worker: expired stale crypto requests", zap.Int("count", expired))
		}
		return nil
	}
}
