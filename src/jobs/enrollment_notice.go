package jobs

import (
	"context"
	"encoding/json"
	"strings"

	"learnhub-backend/src/models"
	"learnhub-backend/src/notify"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnrollmentMailer emails a student once their enrollment is stored.
type EnrollmentMailer struct {
	courses *mongo.Collection
	users   *mongo.Collection
	sender  notify.Sender
	baseURL string
	log     *zap.Logger
}

func NewEnrollmentMailer(courses, users *mongo.Collection, sender notify.Sender, baseURL string, log *zap.Logger) *EnrollmentMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnrollmentMailer{
		courses: courses,
		users:   users,
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

type noticeCourse struct {
	Title    string             `bson:"title"`
	Slug     string             `bson:"slug"`
	Level    string             `bson:"level"`
	Duration int                `bson:"duration"`
	Mentor   primitive.ObjectID `bson:"mentor"`
}

func (m *EnrollmentMailer) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p EnrollmentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return errors.Wrap(asynq.SkipRetry, "decode enrollment payload: "+err.Error())
	}
	courseID, err := primitive.ObjectIDFromHex(p.CourseID)
	if err != nil {
		return errors.Wrap(asynq.SkipRetry, "invalid course id "+p.CourseID)
	}
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return errors.Wrap(asynq.SkipRetry, "invalid user id "+p.UserID)
	}
	if m.sender == nil {
		m.log.Debug("mail disabled, dropping enrollment notice", zap.String("courseId", p.CourseID))
		return nil
	}

	var course noticeCourse
	err = m.courses.FindOne(ctx, bson.M{"_id": courseID},
		options.FindOne().SetProjection(bson.M{"title": 1, "slug": 1, "level": 1, "duration": 1, "mentor": 1}),
	).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		m.log.Warn("enrollment notice skipped, course not found", zap.String("courseId", p.CourseID))
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "load course")
	}

	student, err := m.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if student == nil || student.Email == "" {
		m.log.Warn("enrollment notice skipped, no address", zap.String("userId", p.UserID))
		return nil
	}
	data := notify.EnrollmentEmail{
		StudentName: student.Name,
		CourseTitle: course.Title,
		Level:       course.Level,
		Duration:    course.Duration,
	}
	if mentor, err := m.findUser(ctx, course.Mentor); err == nil && mentor != nil {
		data.MentorName = mentor.Name
	}
	if m.baseURL != "" && course.Slug != "" {
		data.CourseLink = m.baseURL + "/courses/" + course.Slug
	}

	html, err := notify.RenderEnrollmentHTML(data)
	if err != nil {
		return errors.Wrap(asynq.SkipRetry, "render enrollment email: "+err.Error())
	}
	if err := m.sender.Send(student.Email, notify.EnrollmentSubject(course.Title), html); err != nil {
		m.log.Error("enrollment notice failed", zap.String("to", student.Email), zap.Error(err))
		return err
	}
	m.log.Info("enrollment notice sent", zap.String("courseId", p.CourseID), zap.String("userId", p.UserID))
	return nil
}

func (m *EnrollmentMailer) findUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if id.IsZero() {
		return nil, nil
	}
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	return &u, nil
}
