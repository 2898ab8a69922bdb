package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeRefreshRating = "course:rating:refresh"

type RatingPayload struct {
	CourseID string `json:"course_id"`
}

func NewRefreshRatingTask(courseID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RatingPayload{CourseID: courseID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefreshRating, payload), nil
}

const TypeEnrollmentNotice = "course:enrollment:notify"

type EnrollmentPayload struct {
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`
}

func NewEnrollmentNoticeTask(courseID, userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(EnrollmentPayload{CourseID: courseID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEnrollmentNotice, payload), nil
}

// EnrollmentNoticeID makes a repeated enrollment notice for the same pair a
// conflict instead of a second email.
func EnrollmentNoticeID(courseID, userID string) string {
	return "enroll-notice-" + courseID + "-" + userID
}
