package scheduler

import (
	"context"
	"fmt"

	"orghub_backend/internal/email"
	"orghub_backend/platform/config"
	"orghub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskWelcomeEmail, w.handleWelcomeEmail)

	return w, nil
}

func (w *Worker) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWelcomeEmailPayload(task)
	if err != nil {
		return err
	}

	if err := w.sender.SendWelcomeEmail(ctx, payload.Email, payload.FirstName, payload.OrganisationName); err != nil {
		w.log.Error("welcome email delivery failed", "user_id", payload.UserID, "error", err)
		return err
	}

	w.log.Info("welcome email delivered", "user_id", payload.UserID)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
