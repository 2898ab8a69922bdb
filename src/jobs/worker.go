package jobs

import (
	"context"
	"encoding/json"

	"learnhub-backend/src/models"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RatingRefresher recomputes averageRating and ratingCount from the stored
// ratings of one course.
type RatingRefresher struct {
	courses *mongo.Collection
	log     *zap.Logger
}

func NewRatingRefresher(courses *mongo.Collection, log *zap.Logger) *RatingRefresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &RatingRefresher{courses: courses, log: log}
}

func refreshPipeline() mongo.Pipeline {
	return mongo.Pipeline{models.RatingAggregatesStage()}
}

func (r *RatingRefresher) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload RatingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return errors.Wrap(asynq.SkipRetry, "decode rating payload: "+err.Error())
	}
	id, err := primitive.ObjectIDFromHex(payload.CourseID)
	if err != nil {
		return errors.Wrap(asynq.SkipRetry, "invalid course id "+payload.CourseID)
	}

	res, err := r.courses.UpdateOne(ctx, bson.M{"_id": id}, refreshPipeline())
	if err != nil {
		r.log.Error("rating refresh failed", zap.String("courseId", payload.CourseID), zap.Error(err))
		return errors.Wrap(err, "refresh rating")
	}
	if res.MatchedCount == 0 {
		// deleted since the rating was recorded
		r.log.Warn("rating refresh skipped, course not found", zap.String("courseId", payload.CourseID))
		return nil
	}
	r.log.Debug("rating refreshed", zap.String("courseId", payload.CourseID))
	return nil
}

// NewServeMux routes every task type handled by this service.
func NewServeMux(refresher *RatingRefresher, mailer *EnrollmentMailer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeRefreshRating, refresher)
	mux.Handle(TypeEnrollmentNotice, mailer)
	return mux
}

func NewServer(opt asynq.RedisConnOpt) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})
}
