package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// UserCreator submits validated records with a bounded retry policy.
type UserCreator struct {
	client   UserClient
	log      *zap.Logger
	progress *zap.Logger
	delay    time.Duration
}

// CreatorOption configures a UserCreator.
type CreatorOption func(*UserCreator)

// WithRetryDelay pauses for d between attempts on the same record.
func WithRetryDelay(d time.Duration) CreatorOption {
	return func(c *UserCreator) {
		if d > 0 {
			c.delay = d
		}
	}
}

// NewUserCreator creates a UserCreator using client for each attempt.
func NewUserCreator(client UserClient, log, progress *zap.Logger, opts ...CreatorOption) *UserCreator {
	if log == nil {
		log = zap.NewNop()
	}
	if progress == nil {
		progress = zap.NewNop()
	}
	c := &UserCreator{client: client, log: log, progress: progress}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateUser makes up to maxRetries attempts to create record, returning on the
// first 201. Every failed attempt is logged at ERROR; running out of attempts
// adds one final ERROR. Failures never propagate: the outcome is informational.
//
// The only early stop besides success is ctx being cancelled, in which case
// Outcome.Err holds ctx.Err().
func (c *UserCreator) CreateUser(ctx context.Context, record Record, maxRetries int) Outcome {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var out Outcome
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 && c.delay > 0 && !sleepWithContext(ctx, c.delay) {
			return c.cancelled(ctx, record, out)
		}

		out.Attempts = attempt
		resp, err := c.client.CreateUser(ctx, record)
		if err != nil {
			if ctx.Err() != nil {
				return c.cancelled(ctx, record, out)
			}
			out.Err = &TransientCreationError{Attempt: attempt, Err: err}
			c.log.Error("error creating user",
				zap.Object("record", record),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			c.progress.Error("request failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		out.StatusCode = resp.StatusCode
		c.progress.Info("response received",
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body),
		)

		if resp.StatusCode == http.StatusCreated {
			out.Created = true
			out.Err = nil
			c.log.Info("user created",
				zap.Object("record", record),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt),
			)
			return out
		}

		out.Err = &TransientCreationError{Attempt: attempt, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
		c.log.Error("error creating user",
			zap.Object("record", record),
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body),
		)
	}

	out.Err = fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, out.Attempts, out.Err)
	c.log.Error(fmt.Sprintf("failed to create user after %d attempts", out.Attempts),
		zap.Object("record", record),
		zap.Int("attempts", out.Attempts),
	)
	c.progress.Error("giving up on record", zap.Int("attempts", out.Attempts))
	return out
}

func (c *UserCreator) cancelled(ctx context.Context, record Record, out Outcome) Outcome {
	out.Err = ctx.Err()
	c.log.Error("user creation interrupted",
		zap.Object("record", record),
		zap.Int("attempts", out.Attempts),
		zap.Error(out.Err),
	)
	return out
}

// sleepWithContext waits for d or until ctx is done. It reports whether the
// full duration elapsed.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
