package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultPollWait bounds a single blocking read from the queue.
const DefaultPollWait = 2 * time.Second

// Consumer delivers at most one queued event per call.
type Consumer interface {
	Consume(ctx context.Context, wait time.Duration) (bool, error)
}

// StartNotificationWorker drains queued mail events until ctx is cancelled.
// The returned channel is closed once the loop exits.
func StartNotificationWorker(ctx context.Context, consumer Consumer, logger *zap.Logger, wait time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if wait <= 0 {
		wait = DefaultPollWait
	}

	go func() {
		defer close(done)
		logger.Info("notification worker started")
		for {
			if ctx.Err() != nil {
				logger.Info("notification worker stopped")
				return
			}
			handled, err := consumer.Consume(ctx, wait)
			switch {
			case err == nil:
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				continue
			case handled:
				logger.Warn("notification delivery failed", zap.Error(err))
			default:
				logger.Error("notification queue read failed", zap.Error(err))
				sleep(ctx, wait)
			}
		}
	}()

	return done
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
