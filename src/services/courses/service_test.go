package courses

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"learnhub-backend/src/constants"
	"learnhub-backend/src/models"
	"learnhub-backend/src/testutil"
	"learnhub-backend/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	store    *memStore
	cats     *fakeCategories
	enqueuer *recordingEnqueuer
	notices  *recordingEnqueuer
	category primitive.ObjectID
	mentor   primitive.ObjectID
	student  primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemStore(),
		enqueuer: &recordingEnqueuer{},
		notices:  &recordingEnqueuer{},
		category: primitive.NewObjectID(),
		mentor:   primitive.NewObjectID(),
		student:  primitive.NewObjectID(),
	}
	f.cats = newFakeCategories(f.category)
	f.store.users[f.mentor] = models.UserSummary{ID: f.mentor, Name: "Mia Mentor", Email: "mia@example.com"}
	f.store.users[f.student] = models.UserSummary{ID: f.student, Name: "Sam Student", Email: "sam@example.com"}
	f.store.cats[f.category] = models.CategorySummary{ID: f.category, Name: "Programming"}
	f.svc = NewService(f.store, f.cats, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithRatingEnqueuer(f.enqueuer),
		WithEnrollmentNotifier(f.notices),
	)
	return f
}

func (f *fixture) createReq() *models.CreateCourseRequest {
	return &models.CreateCourseRequest{
		Title:       "Go for Backend Engineers",
		Description: "Services, storage and concurrency.",
		Thumbnail:   "https://cdn.example.com/go.png",
		Price:       testutil.Ptr(49.99),
		Category:    f.category.Hex(),
		Level:       constants.LevelIntermediate,
		Duration:    testutil.Ptr(90),
		Content:     []models.ContentItemInput{{Title: "Intro", Duration: testutil.Ptr(5)}},
	}
}

// seed stores a course owned by f.mentor.
func (f *fixture) seed(mod func(c *models.Course)) *models.Course {
	c := &models.Course{
		ID:          primitive.NewObjectID(),
		Title:       "Seeded Course",
		Slug:        "seeded-course",
		Description: "Seeded",
		Thumbnail:   "https://cdn.example.com/s.png",
		Price:       10,
		Category:    f.category,
		Level:       constants.LevelBeginner,
		Duration:    60,
		Content:     []models.ContentItem{{Title: "One"}},
		IsPublished: true,
		Status:      constants.StatusPublished,
		Mentor:      f.mentor,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	if mod != nil {
		mod(c)
	}
	return f.store.put(c)
}

func assertStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T", err)
	assert.Equal(t, status, appErr.Status)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func TestCreateCourse(t *testing.T) {
	t.Run("applies defaults and derives slug", func(t *testing.T) {
		f := newFixture(t)
		course, err := f.svc.CreateCourse(context.Background(), f.createReq(), f.mentor.Hex())
		require.NoError(t, err)

		assert.False(t, course.ID.IsZero())
		assert.Equal(t, "go-for-backend-engineers", course.Slug)
		assert.False(t, course.IsPublished)
		assert.Equal(t, constants.StatusDraft, course.Status)
		assert.Equal(t, f.mentor, course.Mentor)
		assert.Empty(t, course.EnrolledStudents)
		assert.Empty(t, course.Ratings)
		assert.Zero(t, course.AverageRating)
		assert.Equal(t, fixedNow, course.CreatedAt)
		require.Len(t, course.Content, 1)
		assert.Equal(t, 5, course.Content[0].Duration)

		assert.NotNil(t, f.store.get(course.ID))
	})

	t.Run("unknown category writes nothing", func(t *testing.T) {
		f := newFixture(t)
		req := f.createReq()
		req.Category = primitive.NewObjectID().Hex()
		_, err := f.svc.CreateCourse(context.Background(), req, f.mentor.Hex())
		assertStatus(t, err, http.StatusNotFound, "Category not found")
		assert.Empty(t, f.store.courses)
	})

	t.Run("business rules fail fast", func(t *testing.T) {
		f := newFixture(t)
		req := f.createReq()
		req.Title = "ab"
		req.Price = testutil.Ptr(-5.0)
		_, err := f.svc.CreateCourse(context.Background(), req, f.mentor.Hex())
		assertStatus(t, err, http.StatusBadRequest, "")
		var appErr *utils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Empty(t, appErr.Errors)
		assert.Zero(t, f.cats.calls)
		assert.Empty(t, f.store.courses)
	})

	t.Run("invalid mentor id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCourse(context.Background(), f.createReq(), "nobody")
		assertStatus(t, err, http.StatusBadRequest, "Invalid mentor ID")
	})

	t.Run("store failure is not an AppError", func(t *testing.T) {
		f := newFixture(t)
		f.store.err = errors.New("connection reset")
		_, err := f.svc.CreateCourse(context.Background(), f.createReq(), f.mentor.Hex())
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, utils.StatusOf(err))
	})
}

func TestGetCourses(t *testing.T) {
	f := newFixture(t)
	other := primitive.NewObjectID()
	f.cats.known[other] = true

	cheap := f.seed(func(c *models.Course) {
		c.Title = "Intro to Golang"
		c.Price = 5
		c.CreatedAt = fixedNow.Add(-2 * time.Hour)
	})
	pricey := f.seed(func(c *models.Course) {
		c.Title = "Advanced Databases"
		c.Price = 200
		c.Level = constants.LevelAdvanced
		c.Category = other
		c.CreatedAt = fixedNow.Add(-1 * time.Hour)
	})
	f.seed(func(c *models.Course) {
		c.Title = "Hidden Draft"
		c.IsPublished = false
		c.Status = constants.StatusDraft
	})

	ctx := context.Background()
	base := models.CourseQuery{Page: 1, Limit: 10, Sort: constants.DefaultSortKey}

	t.Run("only published, newest first", func(t *testing.T) {
		page, err := f.svc.GetCourses(ctx, base)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		require.Len(t, page.Data, 2)
		assert.Equal(t, pricey.ID, page.Data[0].ID)
		assert.Equal(t, cheap.ID, page.Data[1].ID)
		require.NotNil(t, page.Data[0].Mentor)
		assert.Equal(t, "Mia Mentor", page.Data[0].Mentor.Name)
	})

	t.Run("isPublished=false is ignored", func(t *testing.T) {
		q := base
		q.IsPublished = testutil.Ptr(false)
		page, err := f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		for _, row := range page.Data {
			assert.True(t, row.IsPublished)
		}
	})

	t.Run("filters are AND-ed", func(t *testing.T) {
		q := base
		q.Level = constants.LevelAdvanced
		q.Category = other.Hex()
		page, err := f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, pricey.ID, page.Data[0].ID)

		q.Category = f.category.Hex()
		page, err = f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})

	t.Run("category, level and mentor together", func(t *testing.T) {
		g := newFixture(t)
		otherMentor := primitive.NewObjectID()
		mine := g.seed(func(c *models.Course) { c.Level = constants.LevelIntermediate })
		g.seed(func(c *models.Course) {
			c.Level = constants.LevelIntermediate
			c.Mentor = otherMentor
		})
		g.seed(func(c *models.Course) { c.Level = constants.LevelAdvanced })

		q := base
		q.Category = g.category.Hex()
		q.Level = constants.LevelIntermediate
		q.Mentor = g.mentor.Hex()
		page, err := g.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, mine.ID, page.Data[0].ID)
		assert.EqualValues(t, 1, page.Total)

		q.Mentor = otherMentor.Hex()
		page, err = g.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.NotEqual(t, mine.ID, page.Data[0].ID)

		q.Mentor = "not-a-mentor"
		_, err = g.svc.GetCourses(ctx, q)
		assertStatus(t, err, http.StatusBadRequest, "Invalid mentor ID")
	})

	t.Run("search and price range", func(t *testing.T) {
		q := base
		q.Search = "golang"
		page, err := f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, cheap.ID, page.Data[0].ID)

		q = base
		q.MinPrice = testutil.Ptr(50.0)
		page, err = f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, pricey.ID, page.Data[0].ID)
	})

	t.Run("sort and paginate", func(t *testing.T) {
		q := models.CourseQuery{Page: 2, Limit: 1, Sort: constants.SortPriceAsc}
		page, err := f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasPrevious)
		assert.False(t, page.HasNext)
		require.Len(t, page.Data, 1)
		assert.Equal(t, pricey.ID, page.Data[0].ID)
	})

	t.Run("page past the end is empty, not nil", func(t *testing.T) {
		q := base
		q.Page = 9
		page, err := f.svc.GetCourses(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})
}

func TestGetCourseByID(t *testing.T) {
	f := newFixture(t)
	course := f.seed(func(c *models.Course) {
		c.EnrolledStudents = []primitive.ObjectID{f.student}
		c.Ratings = []models.Rating{{User: f.student, Rating: 4, Review: "Solid", Date: fixedNow}}
		c.RecalculateRating()
	})

	detail, err := f.svc.GetCourseByID(context.Background(), course.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, detail.Mentor)
	assert.Equal(t, "mia@example.com", detail.Mentor.Email)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Programming", detail.Category.Name)
	require.Len(t, detail.EnrolledStudents, 1)
	assert.Equal(t, "Sam Student", detail.EnrolledStudents[0].Name)
	require.Len(t, detail.Ratings, 1)
	require.NotNil(t, detail.Ratings[0].User)
	assert.Equal(t, f.student, detail.Ratings[0].User.ID)
	assert.Equal(t, 4.0, detail.AverageRating)

	_, err = f.svc.GetCourseByID(context.Background(), primitive.NewObjectID().Hex())
	assertStatus(t, err, http.StatusNotFound, "Course not found")

	_, err = f.svc.GetCourseByID(context.Background(), "bad")
	assertStatus(t, err, http.StatusBadRequest, "")
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("missing course", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateCourse(ctx, primitive.NewObjectID().Hex(), &models.UpdateCourseRequest{}, f.mentor.Hex(), constants.RoleMentor)
		assertStatus(t, err, http.StatusNotFound, "Course not found")
	})

	t.Run("other mentor is forbidden and nothing changes", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		req := &models.UpdateCourseRequest{Title: testutil.Ptr("Hijacked Title")}
		_, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, primitive.NewObjectID().Hex(), constants.RoleMentor)
		assertStatus(t, err, http.StatusForbidden, "Not authorized to update this course")
		assert.Equal(t, "Seeded Course", f.store.get(course.ID).Title)
		assert.Empty(t, f.store.updates)
	})

	t.Run("owner updates and slug follows title", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		req := &models.UpdateCourseRequest{
			Title: testutil.Ptr("Concurrency in Practice"),
			Price: testutil.Ptr(0.0),
		}
		updated, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, f.mentor.Hex(), constants.RoleMentor)
		require.NoError(t, err)
		assert.Equal(t, "Concurrency in Practice", updated.Title)
		assert.Equal(t, "concurrency-in-practice", updated.Slug)
		assert.Zero(t, updated.Price)
		assert.Equal(t, f.mentor, updated.Mentor)
	})

	t.Run("admin tier may update any course", func(t *testing.T) {
		for _, role := range []string{constants.RoleAdmin, constants.RoleSuperAdmin} {
			f := newFixture(t)
			course := f.seed(nil)
			req := &models.UpdateCourseRequest{Level: testutil.Ptr(constants.LevelAdvanced)}
			updated, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, primitive.NewObjectID().Hex(), role)
			require.NoError(t, err, role)
			assert.Equal(t, constants.LevelAdvanced, updated.Level)
		}
	})

	t.Run("protected fields never reach the store", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(func(c *models.Course) {
			c.EnrolledStudents = []primitive.ObjectID{f.student}
			c.Ratings = []models.Rating{{User: f.student, Rating: 5, Date: fixedNow}}
			c.RecalculateRating()
		})
		req := &models.UpdateCourseRequest{
			Title:       testutil.Ptr("Renamed Course"),
			Description: testutil.Ptr("New description"),
			Thumbnail:   testutil.Ptr("https://cdn.example.com/n.png"),
			Price:       testutil.Ptr(12.0),
			Category:    testutil.Ptr(f.category.Hex()),
			Level:       testutil.Ptr(constants.LevelAdvanced),
			Duration:    testutil.Ptr(30),
			Content:     []models.ContentItemInput{{Title: "New"}},
			IsPublished: testutil.Ptr(false),
			Status:      testutil.Ptr(constants.StatusArchived),
		}
		updated, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, f.mentor.Hex(), constants.RoleMentor)
		require.NoError(t, err)

		require.Len(t, f.store.updates, 1)
		for key := range f.store.updates[0] {
			assert.Contains(t, models.MutableCourseFields, key)
		}
		assert.Equal(t, f.mentor, updated.Mentor)
		assert.Equal(t, []primitive.ObjectID{f.student}, updated.EnrolledStudents)
		assert.Equal(t, 5.0, updated.AverageRating)
		assert.Len(t, updated.Ratings, 1)
	})

	t.Run("unchanged category is not re-checked", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		req := &models.UpdateCourseRequest{Category: testutil.Ptr(f.category.Hex())}
		_, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, f.mentor.Hex(), constants.RoleMentor)
		require.NoError(t, err)
		assert.Zero(t, f.cats.calls)
	})

	t.Run("unknown new category", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		req := &models.UpdateCourseRequest{Category: testutil.Ptr(primitive.NewObjectID().Hex())}
		_, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, f.mentor.Hex(), constants.RoleMentor)
		assertStatus(t, err, http.StatusNotFound, "Category not found")
		assert.Empty(t, f.store.updates)
	})

	t.Run("empty update returns the course without writing", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		got, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), &models.UpdateCourseRequest{}, f.mentor.Hex(), constants.RoleMentor)
		require.NoError(t, err)
		assert.Equal(t, course.ID, got.ID)
		assert.Equal(t, fixedNow, got.UpdatedAt)
		assert.Empty(t, f.store.updates)
	})

	t.Run("invalid values are all reported", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		req := &models.UpdateCourseRequest{Title: testutil.Ptr("x"), Level: testutil.Ptr("expert")}
		_, err := f.svc.UpdateCourse(ctx, course.ID.Hex(), req, f.mentor.Hex(), constants.RoleMentor)
		var appErr *utils.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Len(t, appErr.Errors, 2)
	})
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course := f.seed(nil)

	err := f.svc.DeleteCourse(ctx, course.ID.Hex(), f.student.Hex(), constants.RoleStudent)
	assertStatus(t, err, http.StatusForbidden, "Not authorized to delete this course")
	assert.NotNil(t, f.store.get(course.ID))

	require.NoError(t, f.svc.DeleteCourse(ctx, course.ID.Hex(), f.mentor.Hex(), constants.RoleMentor))
	assert.Nil(t, f.store.get(course.ID))

	err = f.svc.DeleteCourse(ctx, course.ID.Hex(), f.mentor.Hex(), constants.RoleMentor)
	assertStatus(t, err, http.StatusNotFound, "Course not found")

	other := f.seed(nil)
	require.NoError(t, f.svc.DeleteCourse(ctx, other.ID.Hex(), primitive.NewObjectID().Hex(), constants.RoleAdmin))
}

func TestEnrollInCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("unpublished", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(func(c *models.Course) { c.IsPublished = false })
		_, err := f.svc.EnrollInCourse(ctx, course.ID.Hex(), f.student.Hex())
		assertStatus(t, err, http.StatusBadRequest, "Course is not published yet")
		assert.Empty(t, f.store.get(course.ID).EnrolledStudents)
	})

	t.Run("enrolls once", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		msg, err := f.svc.EnrollInCourse(ctx, course.ID.Hex(), f.student.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Successfully enrolled in course", msg)
		assert.Equal(t, []primitive.ObjectID{f.student}, f.store.get(course.ID).EnrolledStudents)

		_, err = f.svc.EnrollInCourse(ctx, course.ID.Hex(), f.student.Hex())
		assertStatus(t, err, http.StatusBadRequest, "Already enrolled in this course")
		assert.Len(t, f.store.get(course.ID).EnrolledStudents, 1)
		assert.Equal(t, []string{course.ID.Hex() + "/" + f.student.Hex()}, f.notices.ids)
	})

	t.Run("notice failure does not fail enrollment", func(t *testing.T) {
		f := newFixture(t)
		f.notices.err = errors.New("redis down")
		course := f.seed(nil)
		_, err := f.svc.EnrollInCourse(ctx, course.ID.Hex(), f.student.Hex())
		require.NoError(t, err)
		assert.Len(t, f.store.get(course.ID).EnrolledStudents, 1)
	})

	t.Run("missing course", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.EnrollInCourse(ctx, primitive.NewObjectID().Hex(), f.student.Hex())
		assertStatus(t, err, http.StatusNotFound, "Course not found")
	})

	t.Run("course deleted before the write", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		f.svc.store = vanishingStore{f.store}
		_, err := f.svc.EnrollInCourse(ctx, course.ID.Hex(), f.student.Hex())
		assertStatus(t, err, http.StatusNotFound, "Course not found")
		assert.Empty(t, f.notices.ids)
	})
}

// vanishingStore deletes a course right after handing it out.
type vanishingStore struct{ *memStore }

func (v vanishingStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	c, err := v.memStore.FindByID(ctx, id)
	_, _ = v.memStore.Delete(ctx, id)
	return c, err
}

func TestConcurrentEngagementKeepsEveryWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := primitive.NewObjectID()
	course := f.seed(nil)
	students := []primitive.ObjectID{f.student, second}

	race := func(call func(user primitive.ObjectID) error) {
		var loaded sync.WaitGroup
		loaded.Add(len(students))
		f.svc.store = barrierStore{memStore: f.store, loaded: &loaded}

		errs := make(chan error, len(students))
		for _, u := range students {
			go func(u primitive.ObjectID) { errs <- call(u) }(u)
		}
		for range students {
			require.NoError(t, <-errs)
		}
	}

	race(func(u primitive.ObjectID) error {
		_, err := f.svc.EnrollInCourse(ctx, course.ID.Hex(), u.Hex())
		return err
	})
	assert.ElementsMatch(t, students, f.store.get(course.ID).EnrolledStudents)

	race(func(u primitive.ObjectID) error {
		rating := 4.0
		if u == second {
			rating = 2.0
		}
		_, err := f.svc.RateCourse(ctx, course.ID.Hex(), u.Hex(), &models.RatingRequest{Rating: &rating})
		return err
	})
	stored := f.store.get(course.ID)
	assert.Len(t, stored.Ratings, 2)
	assert.Equal(t, 2, stored.RatingCount)
	assert.InDelta(t, 3.0, stored.AverageRating, 1e-9)
}

func TestRateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("must be enrolled", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(nil)
		_, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(4.0)})
		assertStatus(t, err, http.StatusForbidden, "Must be enrolled to rate the course")
		assert.Empty(t, f.store.get(course.ID).Ratings)
	})

	t.Run("out of range", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(func(c *models.Course) { c.EnrolledStudents = []primitive.ObjectID{f.student} })
		for _, v := range []float64{0, 5.5} {
			_, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(v)})
			assertStatus(t, err, http.StatusBadRequest, "Invalid rating value")
		}
		assert.Empty(t, f.store.get(course.ID).Ratings)
	})

	t.Run("rating twice keeps one entry with the latest value", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(func(c *models.Course) { c.EnrolledStudents = []primitive.ObjectID{f.student} })

		msg, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(2.0)})
		require.NoError(t, err)
		assert.Equal(t, "Rating added successfully", msg)
		_, err = f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(5.0), Review: "Better now"})
		require.NoError(t, err)

		stored := f.store.get(course.ID)
		require.Len(t, stored.Ratings, 1)
		assert.Equal(t, 5.0, stored.Ratings[0].Rating)
		assert.Equal(t, "Better now", stored.Ratings[0].Review)
		assert.Equal(t, 5.0, stored.AverageRating)
		assert.Equal(t, 1, stored.RatingCount)
		assert.Equal(t, []string{course.ID.Hex(), course.ID.Hex()}, f.enqueuer.ids)
	})

	t.Run("average across users", func(t *testing.T) {
		f := newFixture(t)
		second := primitive.NewObjectID()
		course := f.seed(func(c *models.Course) {
			c.EnrolledStudents = []primitive.ObjectID{f.student, second}
		})
		_, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(4.0)})
		require.NoError(t, err)
		_, err = f.svc.RateCourse(ctx, course.ID.Hex(), second.Hex(), &models.RatingRequest{Rating: testutil.Ptr(3.0)})
		require.NoError(t, err)

		stored := f.store.get(course.ID)
		assert.InDelta(t, 3.5, stored.AverageRating, 1e-9)
		assert.Equal(t, 2, stored.RatingCount)
	})

	t.Run("course deleted before the write", func(t *testing.T) {
		f := newFixture(t)
		course := f.seed(func(c *models.Course) { c.EnrolledStudents = []primitive.ObjectID{f.student} })
		f.svc.store = vanishingStore{f.store}
		_, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(3.0)})
		assertStatus(t, err, http.StatusNotFound, "Course not found")
		assert.Empty(t, f.enqueuer.ids)
	})

	t.Run("enqueue failure does not fail the rating", func(t *testing.T) {
		f := newFixture(t)
		f.enqueuer.err = errors.New("redis down")
		course := f.seed(func(c *models.Course) { c.EnrolledStudents = []primitive.ObjectID{f.student} })
		_, err := f.svc.RateCourse(ctx, course.ID.Hex(), f.student.Hex(), &models.RatingRequest{Rating: testutil.Ptr(1.0)})
		require.NoError(t, err)
		assert.Len(t, f.store.get(course.ID).Ratings, 1)
	})
}

func TestGetMentorCourses(t *testing.T) {
	f := newFixture(t)
	f.seed(nil)
	f.seed(func(c *models.Course) { c.IsPublished = false; c.Status = constants.StatusDraft })
	f.seed(func(c *models.Course) { c.Mentor = primitive.NewObjectID() })

	list, err := f.svc.GetMentorCourses(context.Background(), f.mentor.Hex(), models.CourseQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.svc.GetMentorCourses(context.Background(), f.mentor.Hex(), models.CourseQuery{IsPublished: testutil.Ptr(false)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsPublished)
}

func TestGetEnrolledCourses(t *testing.T) {
	f := newFixture(t)
	mine := f.seed(func(c *models.Course) { c.EnrolledStudents = []primitive.ObjectID{f.student} })
	f.seed(nil)

	list, err := f.svc.GetEnrolledCourses(context.Background(), f.student.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, 1, list[0].EnrolledCount)
}

func TestPublishCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course := f.seed(func(c *models.Course) { c.IsPublished = false; c.Status = constants.StatusDraft })

	_, err := f.svc.PublishCourse(ctx, course.ID.Hex(), primitive.NewObjectID().Hex(), constants.RoleMentor)
	assertStatus(t, err, http.StatusForbidden, "Not authorized to publish this course")

	published, err := f.svc.PublishCourse(ctx, course.ID.Hex(), f.mentor.Hex(), constants.RoleMentor)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, constants.StatusPublished, published.Status)

	unpublished, err := f.svc.UnpublishCourse(ctx, course.ID.Hex(), primitive.NewObjectID().Hex(), constants.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	assert.Equal(t, constants.StatusDraft, unpublished.Status)

	empty := f.seed(func(c *models.Course) { c.Content = nil; c.IsPublished = false })
	_, err = f.svc.PublishCourse(ctx, empty.ID.Hex(), f.mentor.Hex(), constants.RoleMentor)
	assertStatus(t, err, http.StatusBadRequest, "Course must have content before publishing")
}
