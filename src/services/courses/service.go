package courses

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"learnhub-backend/src/authz"
	"learnhub-backend/src/constants"
	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"
	"learnhub-backend/src/validators"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	listCachePrefix = "courses:list:"
	listCacheTTL    = 5 * time.Minute
)

// CategoryChecker confirms a category exists before a course points at it.
type CategoryChecker interface {
	ValidateCategoryID(ctx context.Context, id primitive.ObjectID) error
}

// RatingEnqueuer schedules reconciliation of a course's rating aggregates.
type RatingEnqueuer interface {
	EnqueueRatingRefresh(ctx context.Context, courseID string) error
}

// EnrollmentNotifier schedules the confirmation sent to a new student.
type EnrollmentNotifier interface {
	EnqueueEnrollmentNotice(ctx context.Context, courseID, userID string) error
}

type Service struct {
	store      Store
	categories CategoryChecker
	ratings    RatingEnqueuer
	notices    EnrollmentNotifier
	cache      *utils.Cache
	cacheTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithCache(c *utils.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithRatingEnqueuer(e RatingEnqueuer) Option {
	return func(s *Service) { s.ratings = e }
}

func WithEnrollmentNotifier(n EnrollmentNotifier) Option {
	return func(s *Service) { s.notices = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, categories CategoryChecker, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:      store,
		categories: categories,
		cacheTTL:   listCacheTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseCourseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, utils.BadRequest("Invalid course ID format")
	}
	return oid, nil
}

func parseUserID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, utils.BadRequest("Invalid user ID")
	}
	return oid, nil
}

func (s *Service) invalidateLists(ctx context.Context) {
	s.cache.DelPattern(ctx, listCachePrefix+"*")
}

func (s *Service) findCourse(ctx context.Context, id string) (*models.Course, error) {
	oid, err := parseCourseID(id)
	if err != nil {
		return nil, err
	}
	course, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, utils.NotFound("Course not found")
	}
	return course, nil
}

func toContent(in []models.ContentItemInput) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(in))
	for _, item := range in {
		c := models.ContentItem{
			Title:       item.Title,
			Description: item.Description,
			VideoURL:    item.VideoURL,
		}
		if item.Duration != nil {
			c.Duration = *item.Duration
		}
		out = append(out, c)
	}
	return out
}

// CreateCourse checks the business rules, confirms the category and stores
// a new course owned by mentorID.
func (s *Service) CreateCourse(ctx context.Context, req *models.CreateCourseRequest, mentorID string) (*models.Course, error) {
	if errs := validators.ValidateCreate(req); len(errs) > 0 {
		return nil, utils.BadRequest(errs[0].Message)
	}
	mentor, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		return nil, utils.BadRequest("Invalid mentor ID")
	}
	category, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		return nil, utils.BadRequest(constants.MsgInvalidCategory)
	}
	if err := s.categories.ValidateCategoryID(ctx, category); err != nil {
		return nil, err
	}

	now := s.now()
	course := &models.Course{
		ID:               primitive.NewObjectID(),
		Title:            req.Title,
		Slug:             Slugify(req.Title),
		Description:      req.Description,
		Thumbnail:        req.Thumbnail,
		Price:            *req.Price,
		Category:         category,
		Level:            req.Level,
		Duration:         *req.Duration,
		Content:          toContent(req.Content),
		IsPublished:      *req.IsPublished,
		Status:           req.Status,
		Mentor:           mentor,
		EnrolledStudents: []primitive.ObjectID{},
		Ratings:          []models.Rating{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	course.RecalculateRating()

	if err := s.store.Insert(ctx, course); err != nil {
		return nil, err
	}
	s.invalidateLists(ctx)
	s.log.Info("course created",
		zap.String("courseId", course.ID.Hex()),
		zap.String("mentorId", mentorID),
	)
	return course, nil
}

// GetCourses lists published courses matching q.
func (s *Service) GetCourses(ctx context.Context, q models.CourseQuery) (*models.PaginatedResponse[models.CourseSummary], error) {
	key := listCachePrefix + utils.HashParams(q)
	var cached models.PaginatedResponse[models.CourseSummary]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	published := true
	f := Filter{
		Published: &published,
		Level:     q.Level,
		Search:    q.Search,
		Status:    q.Status,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
	}
	if err := applyRefs(&f, q); err != nil {
		return nil, err
	}

	params := models.PaginationFromSortKey(q.Sort, q.Page, q.Limit)
	rows, total, err := s.store.FindPage(ctx, f, params)
	if err != nil {
		return nil, err
	}
	resp := models.NewPaginatedResponse(rows, total, params)
	s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

func applyRefs(f *Filter, q models.CourseQuery) error {
	if q.Category != "" {
		oid, err := primitive.ObjectIDFromHex(q.Category)
		if err != nil {
			return utils.BadRequest(constants.MsgInvalidCategory)
		}
		f.Category = &oid
	}
	if q.Mentor != "" {
		oid, err := primitive.ObjectIDFromHex(q.Mentor)
		if err != nil {
			return utils.BadRequest("Invalid mentor ID")
		}
		f.Mentor = &oid
	}
	return nil
}

// GetCourseByID returns the course with every reference populated.
func (s *Service) GetCourseByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	oid, err := parseCourseID(id)
	if err != nil {
		return nil, err
	}
	detail, err := s.store.FindDetail(ctx, oid)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, utils.NotFound("Course not found")
	}
	return detail, nil
}

// updateSet maps the client-mutable fields present in req onto a $set document.
func updateSet(req *models.UpdateCourseRequest) bson.M {
	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
		set["slug"] = Slugify(*req.Title)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Thumbnail != nil {
		set["thumbnail"] = *req.Thumbnail
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Level != nil {
		set["level"] = *req.Level
	}
	if req.Duration != nil {
		set["duration"] = *req.Duration
	}
	if req.Content != nil {
		set["content"] = toContent(req.Content)
	}
	if req.IsPublished != nil {
		set["isPublished"] = *req.IsPublished
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	for k := range set {
		if !constants.Contains(models.MutableCourseFields, k) {
			delete(set, k)
		}
	}
	return set
}

// UpdateCourse applies the mutable fields of req for the owner or an admin-tier role.
func (s *Service) UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest, requesterID, role string) (*models.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCourse(authz.UpdateAnyCourse, role, requesterID, course.Mentor) {
		return nil, utils.Forbidden("Not authorized to update this course")
	}
	if errs := validators.ValidateUpdate(req); len(errs) > 0 {
		return nil, utils.ValidationFailed(errs)
	}
	if req.IsEmpty() {
		return course, nil
	}

	set := updateSet(req)
	if req.Category != nil {
		category, err := primitive.ObjectIDFromHex(*req.Category)
		if err != nil {
			return nil, utils.BadRequest(constants.MsgInvalidCategory)
		}
		if category != course.Category {
			if err := s.categories.ValidateCategoryID(ctx, category); err != nil {
				return nil, err
			}
		}
		set["category"] = category
	}
	set["updatedAt"] = s.now()

	updated, err := s.store.UpdateFields(ctx, course.ID, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Course not found")
	}
	s.invalidateLists(ctx)
	return updated, nil
}

// DeleteCourse removes a course for the owner or an admin-tier role.
func (s *Service) DeleteCourse(ctx context.Context, id, requesterID, role string) error {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManageCourse(authz.DeleteAnyCourse, role, requesterID, course.Mentor) {
		return utils.Forbidden("Not authorized to delete this course")
	}
	deleted, err := s.store.Delete(ctx, course.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.NotFound("Course not found")
	}
	s.invalidateLists(ctx)
	s.log.Info("course deleted", zap.String("courseId", id), zap.String("by", requesterID))
	return nil
}

// EnrollInCourse adds userID to a published course.
func (s *Service) EnrollInCourse(ctx context.Context, courseID, userID string) (string, error) {
	user, err := parseUserID(userID)
	if err != nil {
		return "", err
	}
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !course.IsPublished {
		return "", utils.BadRequest("Course is not published yet")
	}
	if course.IsEnrolled(user) {
		return "", utils.BadRequest("Already enrolled in this course")
	}

	added, err := s.store.AddStudent(ctx, course.ID, user, s.now())
	if err != nil {
		return "", err
	}
	if !added {
		return "", s.enrollConflict(ctx, course.ID)
	}
	s.invalidateLists(ctx)
	if s.notices != nil {
		if err := s.notices.EnqueueEnrollmentNotice(ctx, course.ID.Hex(), userID); err != nil {
			s.log.Warn("enqueue enrollment notice failed", zap.String("courseId", course.ID.Hex()), zap.Error(err))
		}
	}
	return "Successfully enrolled in course", nil
}

// enrollConflict explains why a guarded enrollment write matched nothing.
func (s *Service) enrollConflict(ctx context.Context, id primitive.ObjectID) error {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case current == nil:
		return utils.NotFound("Course not found")
	case !current.IsPublished:
		return utils.BadRequest("Course is not published yet")
	}
	return utils.BadRequest("Already enrolled in this course")
}

// RateCourse records or replaces userID's rating and refreshes the aggregates.
func (s *Service) RateCourse(ctx context.Context, courseID, userID string, req *models.RatingRequest) (string, error) {
	user, err := parseUserID(userID)
	if err != nil {
		return "", err
	}
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !course.IsEnrolled(user) {
		return "", utils.Forbidden("Must be enrolled to rate the course")
	}
	if req.Rating == nil || *req.Rating < constants.RatingMin || *req.Rating > constants.RatingMax {
		return "", utils.BadRequest("Invalid rating value")
	}
	if utf8.RuneCountInString(req.Review) > constants.ReviewMax {
		return "", utils.BadRequest(fmt.Sprintf("Review cannot be more than %d characters", constants.ReviewMax))
	}

	entry := models.Rating{User: user, Rating: *req.Rating, Review: req.Review, Date: s.now()}
	saved, err := s.store.UpsertRating(ctx, course.ID, entry)
	if err != nil {
		return "", err
	}
	if !saved {
		return "", utils.NotFound("Course not found")
	}
	s.invalidateLists(ctx)
	if s.ratings != nil {
		if err := s.ratings.EnqueueRatingRefresh(ctx, course.ID.Hex()); err != nil {
			s.log.Warn("enqueue rating refresh failed", zap.String("courseId", course.ID.Hex()), zap.Error(err))
		}
	}
	return "Rating added successfully", nil
}

// GetMentorCourses lists every course of mentorID, published or not unless
// q.IsPublished narrows it.
func (s *Service) GetMentorCourses(ctx context.Context, mentorID string, q models.CourseQuery) ([]models.CourseSummary, error) {
	mentor, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		return nil, utils.BadRequest("Invalid mentor ID")
	}
	f := Filter{
		Mentor:    &mentor,
		Published: q.IsPublished,
		Status:    q.Status,
		Level:     q.Level,
	}
	params := models.PaginationFromSortKey(q.Sort, 1, 0)
	return s.store.FindAll(ctx, f, params.GetSortOrder())
}

// GetEnrolledCourses lists the courses userID is enrolled in.
func (s *Service) GetEnrolledCourses(ctx context.Context, userID string) ([]models.CourseSummary, error) {
	user, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	params := models.DefaultPagination()
	return s.store.FindAll(ctx, Filter{Student: &user}, params.GetSortOrder())
}

func (s *Service) PublishCourse(ctx context.Context, id, requesterID, role string) (*models.Course, error) {
	return s.setPublished(ctx, id, requesterID, role, true)
}

func (s *Service) UnpublishCourse(ctx context.Context, id, requesterID, role string) (*models.Course, error) {
	return s.setPublished(ctx, id, requesterID, role, false)
}

func (s *Service) setPublished(ctx context.Context, id, requesterID, role string, publish bool) (*models.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCourse(authz.PublishAnyCourse, role, requesterID, course.Mentor) {
		return nil, utils.Forbidden("Not authorized to publish this course")
	}
	if publish && len(course.Content) == 0 {
		return nil, utils.BadRequest("Course must have content before publishing")
	}

	status := constants.StatusDraft
	if publish {
		status = constants.StatusPublished
	}
	updated, err := s.store.UpdateFields(ctx, course.ID, bson.M{
		"isPublished": publish,
		"status":      status,
		"updatedAt":   s.now(),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Course not found")
	}
	s.invalidateLists(ctx)
	return updated, nil
}
