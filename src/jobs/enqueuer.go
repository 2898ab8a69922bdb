package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// Enqueuer submits tasks through an asynq client. A nil client drops tasks.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// Enabled reports whether tasks are actually submitted.
func (e *Enqueuer) Enabled() bool {
	return e != nil && e.client != nil
}

func (e *Enqueuer) EnqueueRatingRefresh(ctx context.Context, courseID string) error {
	return e.EnqueueRatingRefreshIn(ctx, courseID, 0)
}

// EnqueueRatingRefreshIn schedules a rating refresh to run after delay.
func (e *Enqueuer) EnqueueRatingRefreshIn(ctx context.Context, courseID string, delay time.Duration) error {
	if !e.Enabled() {
		return nil
	}
	task, err := NewRefreshRatingTask(courseID)
	if err != nil {
		return errors.Wrap(err, "build rating task")
	}
	opts := []asynq.Option{asynq.TaskID(uuid.NewString()), asynq.MaxRetry(3)}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}
	_, err = e.client.EnqueueContext(ctx, task, opts...)
	return errors.Wrap(err, "enqueue rating task")
}

// EnqueueEnrollmentNotice schedules the confirmation email for a new
// enrollment. A second notice for the same pair is ignored.
func (e *Enqueuer) EnqueueEnrollmentNotice(ctx context.Context, courseID, userID string) error {
	if !e.Enabled() {
		return nil
	}
	task, err := NewEnrollmentNoticeTask(courseID, userID)
	if err != nil {
		return errors.Wrap(err, "build enrollment task")
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.TaskID(EnrollmentNoticeID(courseID, userID)),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return errors.Wrap(err, "enqueue enrollment task")
}
