package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// LoadExpiryJob sweeps open loads whose pickup window has closed.
// Runs every minute and expires what nobody picked up in time.
type LoadExpiryJob struct {
	handler commands.ExpireLoadsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewLoadExpiryJob creates the expiry sweep job.
func NewLoadExpiryJob(handler commands.ExpireLoadsCommandHandler, logger *slog.Logger) *LoadExpiryJob {
	return &LoadExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "load_expiry_job"),
	}
}

// Start begins the expiry sweep, running at the top of every minute.
func (j *LoadExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewExpireLoadsCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Load expiry job could not build its command", "error", err)
			return
		}

		expired, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Load expiry job failed", "error", err)
			return
		}
		if expired > 0 {
			j.logger.InfoContext(ctx, "Expired overdue loads", "count", expired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Load expiry job started (running every minute)")
	return nil
}

// Stop stops the expiry sweep.
func (j *LoadExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Load expiry job stopped")
}
